package models

import "time"

// User represents an application user. Exactly one of PasswordHash or an
// external AuthProvider establishes how the user signs in.
type User struct {
	UserID       string    `gorm:"primaryKey;size:32" json:"user_id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"` // stored lowercase
	Name         string    `gorm:"size:128" json:"name"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	AuthProvider string    `gorm:"size:16;default:email" json:"auth_provider"`
	Picture      string    `gorm:"size:512" json:"picture"`
	Currency     string    `gorm:"size:8;default:CAD" json:"currency"`
	Theme        string    `gorm:"size:16;default:dark" json:"theme"`
	CreatedAt    time.Time `json:"created_at"`
}
