package session

import (
	"strings"
	"testing"
	"time"

	"github.com/Roshan1923/BillBrain/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM sessions")
		db.Exec("DELETE FROM users")
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{
		UserID: id,
		Email:  id + "@example.com",
		Name:   "Test",
	}).Error)
}

func TestIssueAndValidate(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "user_a")
	store := New(db, 7)

	token, err := store.Issue("user_a")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "sess_"))
	assert.Len(t, token, len("sess_")+32)

	userID, err := store.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user_a", userID)
}

func TestValidate_UnknownToken(t *testing.T) {
	db := newTestDB(t)
	store := New(db, 7)

	_, err := store.Validate("sess_doesnotexist")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = store.Validate("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate_Expired(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "user_a")
	store := New(db, 7)

	token, err := store.Issue("user_a")
	require.NoError(t, err)

	// age the session past its expiry
	require.NoError(t, db.Model(&models.Session{}).
		Where("token = ?", token).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	_, err = store.Validate(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate_NoRenewalOnUse(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "user_a")
	store := New(db, 7)

	token, err := store.Issue("user_a")
	require.NoError(t, err)

	var before models.Session
	require.NoError(t, db.First(&before, "token = ?", token).Error)

	_, err = store.Validate(token)
	require.NoError(t, err)

	var after models.Session
	require.NoError(t, db.First(&after, "token = ?", token).Error)
	assert.Equal(t, before.ExpiresAt.Unix(), after.ExpiresAt.Unix())
}

func TestValidate_UserDeleted(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "user_a")
	store := New(db, 7)

	token, err := store.Issue("user_a")
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, "user_id = ?", "user_a").Error)

	_, err = store.Validate(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRevoke(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "user_a")
	store := New(db, 7)

	token, err := store.Issue("user_a")
	require.NoError(t, err)

	require.NoError(t, store.Revoke(token))

	_, err = store.Validate(token)
	assert.ErrorIs(t, err, ErrInvalid)

	// revoking again is not an error
	assert.NoError(t, store.Revoke(token))
	assert.NoError(t, store.Revoke("sess_never_existed"))
}

func TestIssue_TokensAreUnique(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "user_a")
	store := New(db, 7)

	a, err := store.Issue("user_a")
	require.NoError(t, err)
	b, err := store.Issue("user_a")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// both remain valid; issuing does not revoke earlier sessions
	_, err = store.Validate(a)
	assert.NoError(t, err)
	_, err = store.Validate(b)
	assert.NoError(t, err)
}
