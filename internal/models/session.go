package models

import "time"

// Session stores opaque bearer tokens for logged-in users. A session is
// valid while the token exists, ExpiresAt is in the future and the owning
// user still exists; logout deletes the record.
type Session struct {
	Token     string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"size:32;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
