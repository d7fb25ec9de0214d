package report

import (
	"testing"

	"github.com/Roshan1923/BillBrain/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_EmptyInput(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(db)

	names, err := resolver.Names(nil)
	require.NoError(t, err)
	assert.Empty(t, names)

	names, err = resolver.Names([]string{})
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestNames_BatchResolve(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(db)

	require.NoError(t, db.Create(&models.Category{
		CategoryID: "cat_a", UserID: "user_a", Name: "Travel", Section: "personal",
	}).Error)
	require.NoError(t, db.Create(&models.Category{
		CategoryID: "cat_b", UserID: "user_a", Name: "Insurance", Section: "business",
	}).Error)

	names, err := resolver.Names([]string{"cat_a", "cat_b", "cat_gone"})
	require.NoError(t, err)

	assert.Equal(t, "Travel", names["cat_a"])
	assert.Equal(t, "Insurance", names["cat_b"])
	_, found := names["cat_gone"]
	assert.False(t, found, "unresolved ids are absent, not empty")
	assert.Len(t, names, 2)
}
