package models

import (
	"time"
)

// Conversation pairs two users. User1ID is always the lower id of the pair.
type Conversation struct {
	BaseModel
	User1ID       uint      `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1" json:"user1Id"`
	User2ID       uint      `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:2;index" json:"user2Id"`
	LastMessageAt time.Time `gorm:"index" json:"lastMessageAt"`

	User1 *User `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE" json:"user1,omitempty"`
	User2 *User `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE" json:"user2,omitempty"`
}

// OrderedPair returns a and b with the lower id first.
func OrderedPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}
