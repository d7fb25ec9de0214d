package models

import "time"

// Category is a user-scoped classification label under one of the two
// sections (personal / business). Default categories are seeded once per
// section at registration and behave like user-created ones afterwards.
type Category struct {
	CategoryID string    `gorm:"primaryKey;size:32" json:"category_id"`
	UserID     string    `gorm:"size:32;index;not null" json:"user_id"`
	Name       string    `gorm:"size:64;not null" json:"name"`
	Section    string    `gorm:"size:16;index;not null" json:"section"` // personal / business
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sections recognized by reports.
const (
	SectionPersonal = "personal"
	SectionBusiness = "business"
)

// DefaultCategories is replicated once per section for every new account.
var DefaultCategories = []string{
	"Food & Dining", "Transportation", "Entertainment", "Shopping",
	"Health & Medical", "Utilities & Bills", "Education", "Travel",
	"Home & Rent", "Office Supplies", "Subscriptions & Memberships",
	"Gifts & Donations", "Insurance", "Miscellaneous",
}
