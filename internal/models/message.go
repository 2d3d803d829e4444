package models

import (
	"time"
)

const (
	MaxContentLength = 1000
	// MessagePageSize caps how many messages a conversation fetch returns.
	MessagePageSize = 50
)

// Message is a single direct message. SenderID and ReceiverID become absent
// when the referenced user no longer exists; the message itself is kept.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Content        string    `gorm:"size:1000;not null" json:"content"`
	SenderName     string    `gorm:"size:50;not null" json:"senderName"`
	SenderID       Ref       `gorm:"size:64;index:idx_messages_pair,priority:1" json:"senderId"`
	ReceiverID     Ref       `gorm:"size:64;index:idx_messages_pair,priority:2;index:idx_messages_unread,priority:1" json:"receiverId"`
	ConversationID Ref       `gorm:"size:64;index" json:"conversationId"`
	Timestamp      time.Time `gorm:"not null;index" json:"timestamp"`
	IsRead         bool      `gorm:"default:false;index:idx_messages_unread,priority:2" json:"isRead"`
	ImageURL       string    `gorm:"size:512" json:"imageUrl,omitempty"`
}
