package report

import (
	"fmt"

	"github.com/Roshan1923/BillBrain/internal/models"

	"gorm.io/gorm"
)

// receiptColumns is every receipt column except the embedded image payload,
// which only the single-receipt fetch may return.
const receiptColumns = "receipt_id, user_id, merchant_name, date, total, tax, items, payment_method, section, category_id, notes, created_at"

// WindowTotal is the sum/sum/count aggregate over one date window.
type WindowTotal struct {
	Total float64 `json:"total"`
	Tax   float64 `json:"tax"`
	Count int64   `json:"count"`
}

// SectionTotal is one section's share of a window.
type SectionTotal struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// CategoryTotal is one category's share of a window.
type CategoryTotal struct {
	CategoryID string  `json:"category_id"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
}

// SectionCategoryTotal is one (section, category) cell of the tax cross tab.
// CategoryID may be empty; the row still counts toward its section.
type SectionCategoryTotal struct {
	Section    string  `json:"section"`
	CategoryID string  `json:"category_id"`
	Total      float64 `json:"total"`
	Tax        float64 `json:"tax"`
	Count      int64   `json:"count"`
}

// Filter is the combinable receipt predicate shared by listings, exports and
// the tax cross tab. Date and amount bounds are inclusive; zero values mean
// "no bound". Dates are YYYY-MM-DD strings compared lexicographically.
type Filter struct {
	Section    string
	CategoryID string
	Search     string // case-insensitive literal substring on merchant name
	DateFrom   string
	DateTo     string
	AmountMin  *float64
	AmountMax  *float64
}

// Engine computes user-scoped, date-windowed aggregates over receipts. It
// never mutates data.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// receiptQuery builds the shared filtered base query. Listing and its
// unbounded count must run on the same predicate.
func (e *Engine) receiptQuery(userID string, f Filter) *gorm.DB {
	q := e.db.Model(&models.Receipt{}).Where("user_id = ?", userID)
	if f.Section != "" {
		q = q.Where("section = ?", f.Section)
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		// literal containment, no LIKE/regex metacharacters
		q = q.Where("instr(lower(merchant_name), lower(?)) > 0", f.Search)
	}
	if f.DateFrom != "" {
		q = q.Where("date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("date <= ?", f.DateTo)
	}
	if f.AmountMin != nil {
		q = q.Where("total >= ?", *f.AmountMin)
	}
	if f.AmountMax != nil {
		q = q.Where("total <= ?", *f.AmountMax)
	}
	return q
}

// WindowTotal sums total, tax and count over receipts dated in [from, to].
// An empty window yields zeros, never an error.
func (e *Engine) WindowTotal(userID, from, to string) (WindowTotal, error) {
	var w WindowTotal
	err := e.receiptQuery(userID, Filter{DateFrom: from, DateTo: to}).
		Select("COALESCE(SUM(total), 0) AS total, COALESCE(SUM(tax), 0) AS tax, COUNT(*) AS count").
		Scan(&w).Error
	if err != nil {
		return WindowTotal{}, fmt.Errorf("window total: %w", err)
	}
	return w, nil
}

// SectionTotals groups the window by section. Receipts without a section are
// dropped from this single-dimension grouping.
func (e *Engine) SectionTotals(userID, from, to string) (map[string]SectionTotal, error) {
	type row struct {
		Section string
		Total   float64
		Count   int64
	}
	var rows []row
	err := e.receiptQuery(userID, Filter{DateFrom: from, DateTo: to}).
		Select("section, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("section <> ''").
		Group("section").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("section totals: %w", err)
	}

	out := make(map[string]SectionTotal, len(rows))
	for _, r := range rows {
		out[r.Section] = SectionTotal{Total: r.Total, Count: r.Count}
	}
	return out, nil
}

// TopCategories groups the window by category and returns the top `limit`
// rows by descending total. Receipts without a category are dropped.
func (e *Engine) TopCategories(userID, from, to string, limit int) ([]CategoryTotal, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []CategoryTotal
	err := e.receiptQuery(userID, Filter{DateFrom: from, DateTo: to}).
		Select("category_id, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("category_id <> ''").
		Group("category_id").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	return rows, nil
}

// SectionCategoryTotals groups the filtered set by (section, category_id).
// A missing section excludes the row; a missing category does not — those
// rows are still attributed to their section with an empty category id.
func (e *Engine) SectionCategoryTotals(userID string, f Filter) ([]SectionCategoryTotal, error) {
	var rows []SectionCategoryTotal
	err := e.receiptQuery(userID, f).
		Select("section, category_id, COALESCE(SUM(total), 0) AS total, COALESCE(SUM(tax), 0) AS tax, COUNT(*) AS count").
		Where("section <> ''").
		Group("section, category_id").
		Order("section ASC, total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("section/category totals: %w", err)
	}
	return rows, nil
}

// ListReceipts returns one page ordered by date descending plus the match
// count of the full filtered set regardless of pagination. The image payload
// is never selected.
func (e *Engine) ListReceipts(userID string, f Filter, skip, limit int) ([]models.Receipt, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	base := e.receiptQuery(userID, f)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count receipts: %w", err)
	}

	var receipts []models.Receipt
	err := base.Session(&gorm.Session{}).
		Select(receiptColumns).
		Order("date DESC, created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&receipts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, total, nil
}

// RecentReceipts returns the n most recently created receipts, image
// excluded.
func (e *Engine) RecentReceipts(userID string, n int) ([]models.Receipt, error) {
	if n <= 0 {
		n = 10
	}
	var receipts []models.Receipt
	err := e.db.Model(&models.Receipt{}).
		Select(receiptColumns).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("recent receipts: %w", err)
	}
	return receipts, nil
}
