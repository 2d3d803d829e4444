package models

// FriendRequestStatus represents the state of a friend request
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a directed request from Sender to Receiver. Only one
// request may exist per unordered pair of users.
type FriendRequest struct {
	BaseModel
	SenderID   uint                `gorm:"not null;uniqueIndex:idx_friend_pair,priority:1;index:idx_friend_status_sender,priority:2" json:"senderId"`
	ReceiverID uint                `gorm:"not null;uniqueIndex:idx_friend_pair,priority:2;index:idx_friend_status_receiver,priority:2" json:"receiverId"`
	Status     FriendRequestStatus `gorm:"size:16;not null;default:'pending';index:idx_friend_status_sender,priority:1;index:idx_friend_status_receiver,priority:1" json:"status"`

	Sender   *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
}
