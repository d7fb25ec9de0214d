package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/Roshan1923/BillBrain/internal/models"
	"github.com/Roshan1923/BillBrain/internal/util"

	"gorm.io/gorm"
)

// ErrInvalid is returned by Validate for any token that must not
// authenticate: unknown, expired, or orphaned by a deleted user.
var ErrInvalid = errors.New("invalid session")

// Store issues, validates and revokes opaque bearer tokens. Expiry is
// checked lazily at validation time; there is no background sweep.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

// New creates a Store with the given time-to-live in days (default 7).
func New(db *gorm.DB, ttlDays int) *Store {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	return &Store{
		db:  db,
		ttl: time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// Issue persists a new session for the user and returns its token.
func (s *Store) Issue(userID string) (string, error) {
	raw, err := util.RandomHex(16)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := "sess_" + raw

	now := time.Now().UTC()
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Validate resolves a token to its owning user id. Validity is not extended
// by use. A stored expiry without a zone is compared as UTC.
func (s *Store) Validate(token string) (string, error) {
	if token == "" {
		return "", ErrInvalid
	}

	var sess models.Session
	if err := s.db.First(&sess, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalid
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}

	if !sess.ExpiresAt.UTC().After(time.Now().UTC()) {
		return "", ErrInvalid
	}

	// the referenced user must still exist
	var count int64
	if err := s.db.Model(&models.User{}).Where("user_id = ?", sess.UserID).Count(&count).Error; err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if count == 0 {
		return "", ErrInvalid
	}

	return sess.UserID, nil
}

// Revoke deletes the session if present. Revoking an unknown or
// already-revoked token is not an error.
func (s *Store) Revoke(token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
