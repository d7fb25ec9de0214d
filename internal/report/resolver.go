package report

import (
	"fmt"

	"github.com/Roshan1923/BillBrain/internal/models"

	"gorm.io/gorm"
)

// Resolver maps category ids to display names in bulk for the reporting
// paths. Ids that do not resolve are simply absent from the result; callers
// pick their own fallback.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Names batch-resolves the given category ids. An empty input returns an
// empty map without touching the store.
func (r *Resolver) Names(ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	type row struct {
		CategoryID string
		Name       string
	}
	var rows []row
	err := r.db.Model(&models.Category{}).
		Select("category_id, name").
		Where("category_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("resolve category names: %w", err)
	}

	for _, c := range rows {
		out[c.CategoryID] = c.Name
	}
	return out, nil
}
