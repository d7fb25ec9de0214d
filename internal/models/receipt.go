package models

import "time"

// Item is a single receipt line item.
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Items is stored as a JSON column.
type Items []Item

// Receipt is one financial event. Date is kept as a YYYY-MM-DD string so
// range filters compare lexicographically, same as the API accepts it.
// Section and the category's section are not required to match.
type Receipt struct {
	ReceiptID     string    `gorm:"primaryKey;size:32" json:"receipt_id"`
	UserID        string    `gorm:"size:32;index;not null" json:"user_id"`
	MerchantName  string    `gorm:"size:255" json:"merchant_name"`
	Date          string    `gorm:"size:10;index" json:"date"`
	Total         float64   `json:"total"`
	Tax           float64   `json:"tax"`
	Items         Items     `gorm:"serializer:json" json:"items"`
	PaymentMethod string    `gorm:"size:64" json:"payment_method"`
	Section       string    `gorm:"size:16;index" json:"section"`
	CategoryID    string    `gorm:"size:32;index" json:"category_id"`
	Notes         string    `gorm:"type:text" json:"notes"`
	ImageBase64   string    `gorm:"type:text" json:"image_base64,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
