package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Roshan1923/BillBrain/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAndUpdate(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerUser(t, r, uniqueEmail("cat"))

	w := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{
		"name": "Client Dinners", "section": "business",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	catID := body["category_id"].(string)
	assert.Equal(t, false, body["is_default"])

	w = doJSON(t, r, http.MethodPut, "/api/categories/"+catID, token, gin.H{"name": "Team Dinners"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))

	var found bool
	for _, c := range cats {
		if c.CategoryID == catID {
			found = true
			assert.Equal(t, "Team Dinners", c.Name)
		}
	}
	assert.True(t, found)
}

func TestCategoryCreate_RejectsBadSection(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerUser(t, r, uniqueEmail("cat-bad"))

	w := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{
		"name": "X", "section": "corporate",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryUpdate_NotOwned(t *testing.T) {
	r, _ := newTestRouter(t)
	tokenA := registerUser(t, r, uniqueEmail("cat-a"))
	tokenB := registerUser(t, r, uniqueEmail("cat-b"))

	catA := firstCategoryID(t, r, tokenA, "personal")

	// another user's category id behaves like a missing one
	w := doJSON(t, r, http.MethodPut, "/api/categories/"+catA, tokenB, gin.H{"name": "Hijack"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/categories/cat_missing", tokenA, gin.H{"name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryDelete_Unreferenced(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerUser(t, r, uniqueEmail("cat-del"))

	w := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{
		"name": "Temporary", "section": "personal",
	})
	require.Equal(t, http.StatusOK, w.Code)
	catID := decodeBody(t, w)["category_id"].(string)

	w = doJSON(t, r, http.MethodDelete, "/api/categories/"+catID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["deleted"])

	w = doJSON(t, r, http.MethodDelete, "/api/categories/"+catID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "already gone")
}

func TestCategoryDelete_BlockedByReceipts(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerUser(t, r, uniqueEmail("cat-block"))
	catID := firstCategoryID(t, r, token, "personal")

	createReceipt(t, r, token, gin.H{"category_id": catID})
	createReceipt(t, r, token, gin.H{"category_id": catID})

	w := doJSON(t, r, http.MethodDelete, "/api/categories/"+catID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["deleted"])
	assert.Equal(t, float64(2), body["receipt_count"])

	// category survives
	w = doJSON(t, r, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), catID)
}
