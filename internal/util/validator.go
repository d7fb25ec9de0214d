package util

import (
	"fmt"
	"strings"
	"time"
)

// ValidateAmount checks a monetary amount is non-negative and below the cap.
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative, got %f", amount)
	}
	if amount >= 10000000 {
		return fmt.Errorf("amount too large, got %f", amount)
	}
	return nil
}

// ValidateDate checks the date is a well-formed YYYY-MM-DD string.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateSection checks the section tag.
func ValidateSection(section string) error {
	switch section {
	case "personal", "business":
		return nil
	}
	return fmt.Errorf("invalid section %q, want personal or business", section)
}

// NormalizeEmail lowercases and trims an email for the unique lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
