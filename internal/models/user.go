package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxNameLength     = 50
	UniqueCodeLength  = 6
	UniqueCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// User represents a chat participant identified by display name.
// SessionID is never part of the default JSON view.
type User struct {
	BaseModel
	Name       string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Avatar     string    `gorm:"size:100" json:"avatar,omitempty"`
	IsOnline   bool      `gorm:"default:false" json:"isOnline"`
	LastSeen   time.Time `json:"lastSeen"`
	SessionID  string    `gorm:"size:100;index" json:"-"`
	UniqueCode string    `gorm:"size:10;not null;uniqueIndex" json:"uniqueCode"`
}

// UserSession is the view returned to the client that owns the session, the
// only place the session id is ever serialized.
type UserSession struct {
	User
	SessionID string `json:"sessionId"`
}

// BeforeCreate assigns a session id when the client did not supply one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.SessionID == "" {
		u.SessionID = uuid.New().String()
	}
	if u.LastSeen.IsZero() {
		u.LastSeen = time.Now()
	}
	return nil
}

// WithSession exposes the session id for the owning client.
func (u *User) WithSession() UserSession {
	return UserSession{User: *u, SessionID: u.SessionID}
}
