package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Roshan1923/BillBrain/internal/config"
	"github.com/Roshan1923/BillBrain/internal/database"
	"github.com/Roshan1923/BillBrain/internal/models"
	"github.com/Roshan1923/BillBrain/internal/router"

	"github.com/gin-gonic/gin"
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

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		db.Exec("DELETE FROM receipts")
		db.Exec("DELETE FROM categories")
		db.Exec("DELETE FROM sessions")
		db.Exec("DELETE FROM users")
	})
	return db
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	cfg := &config.Config{
		Session:  config.SessionConfig{TTLDays: 7},
		Security: config.SecurityConfig{BcryptCost: 4}, // min cost, tests only
		App:      config.AppConfig{PageSize: 50, ExportLimit: 10000},
		Log:      config.LogConfig{Level: "error"},
	}
	return router.SetupRouter(cfg, db), db
}

// doJSON performs one request against the test router. A non-empty token is
// sent as a bearer credential.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doWithAuthHeader sends a request with a raw Authorization header value.
func doWithAuthHeader(t *testing.T, r *gin.Engine, method, path, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", header)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// registerUser registers a fresh account and returns its bearer token.
func registerUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "hunter2hunter2",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusOK, w.Code, "register: %s", w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createReceipt posts a receipt and returns its id.
func createReceipt(t *testing.T, r *gin.Engine, token string, fields gin.H) string {
	t.Helper()
	payload := gin.H{
		"merchant_name": "Test Merchant",
		"date":          time.Now().UTC().Format("2006-01-02"),
		"total":         10.0,
		"tax":           1.0,
		"section":       "personal",
		"category_id":   "cat_custom",
	}
	for k, v := range fields {
		payload[k] = v
	}
	w := doJSON(t, r, http.MethodPost, "/api/receipts", token, payload)
	require.Equal(t, http.StatusOK, w.Code, "create receipt: %s", w.Body.String())
	body := decodeBody(t, w)
	id, _ := body["receipt_id"].(string)
	require.NotEmpty(t, id)
	return id
}

// firstCategoryID returns one seeded category id for the user, optionally
// filtered by section.
func firstCategoryID(t *testing.T, r *gin.Engine, token, section string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cats []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	for _, c := range cats {
		if section == "" || c.Section == section {
			return c.CategoryID
		}
	}
	t.Fatalf("no category for section %q", section)
	return ""
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
