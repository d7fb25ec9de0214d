package report

import (
	"fmt"
	"time"

	"github.com/Roshan1923/BillBrain/internal/models"

	"golang.org/x/sync/errgroup"
)

// UnknownCategory is the fallback display name for aggregate rows whose
// category no longer resolves.
const UnknownCategory = "Unknown"

// CategoryRow is a dashboard top-category row with its name resolved.
type CategoryRow struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
}

// ReceiptRow is a receipt projection with the category name joined in.
type ReceiptRow struct {
	models.Receipt
	CategoryName string `json:"category_name"`
}

// Dashboard is the /dashboard/summary payload.
type Dashboard struct {
	Monthly        WindowTotal             `json:"monthly"`
	Yearly         WindowTotal             `json:"yearly"`
	Sections       map[string]SectionTotal `json:"sections"`
	Categories     []CategoryRow           `json:"categories"`
	RecentReceipts []ReceiptRow            `json:"recent_receipts"`
}

// TaxRow is one resolved (section, category) cell of the tax summary.
type TaxRow struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
	Tax          float64 `json:"tax"`
	Count        int64   `json:"count"`
}

// TaxSummary is the /reports/tax-summary payload: rows split into the two
// fixed sections plus running per-section totals.
type TaxSummary struct {
	Summary map[string][]TaxRow    `json:"summary"`
	Totals  map[string]WindowTotal `json:"totals"`
}

// ExportRow is one flat printable record for CSV/XLSX serialization.
// Monetary formatting happens at the serialization boundary, not here.
type ExportRow struct {
	Date          string
	Merchant      string
	Section       string
	Category      string
	Total         float64
	Tax           float64
	PaymentMethod string
	Notes         string
}

// Assembler composes engine output with resolved category names into the
// response shapes.
type Assembler struct {
	engine      *Engine
	resolver    *Resolver
	exportLimit int
}

// NewAssembler builds an Assembler. exportLimit caps export row counts as a
// safety bound (default 10000).
func NewAssembler(engine *Engine, resolver *Resolver, exportLimit int) *Assembler {
	if exportLimit <= 0 {
		exportLimit = 10000
	}
	return &Assembler{engine: engine, resolver: resolver, exportLimit: exportLimit}
}

// DashboardSummary computes the five dashboard sub-results against a single
// "now" snapshot so the monthly and yearly windows cannot disagree about
// today's boundary. The sub-aggregates run concurrently.
func (a *Assembler) DashboardSummary(userID string) (*Dashboard, error) {
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	monthStart := now.Format("2006-01") + "-01"
	yearStart := fmt.Sprintf("%04d-01-01", now.Year())

	var (
		monthly  WindowTotal
		yearly   WindowTotal
		sections map[string]SectionTotal
		topCats  []CategoryTotal
		recent   []models.Receipt
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		monthly, err = a.engine.WindowTotal(userID, monthStart, today)
		return err
	})
	g.Go(func() (err error) {
		yearly, err = a.engine.WindowTotal(userID, yearStart, today)
		return err
	})
	g.Go(func() (err error) {
		sections, err = a.engine.SectionTotals(userID, yearStart, today)
		return err
	})
	g.Go(func() (err error) {
		topCats, err = a.engine.TopCategories(userID, yearStart, today, 10)
		return err
	})
	g.Go(func() (err error) {
		recent, err = a.engine.RecentReceipts(userID, 10)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	catIDs := make([]string, 0, len(topCats))
	for _, c := range topCats {
		catIDs = append(catIDs, c.CategoryID)
	}
	catNames, err := a.resolver.Names(catIDs)
	if err != nil {
		return nil, err
	}

	categories := make([]CategoryRow, 0, len(topCats))
	for _, c := range topCats {
		name, ok := catNames[c.CategoryID]
		if !ok {
			name = UnknownCategory
		}
		categories = append(categories, CategoryRow{
			CategoryID: c.CategoryID,
			Name:       name,
			Total:      c.Total,
			Count:      c.Count,
		})
	}

	// recent receipts resolve their names independently; ids seen above may
	// not be assumed present here
	recentRows, err := a.joinCategoryNames(recent, "")
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Monthly:        monthly,
		Yearly:         yearly,
		Sections:       sections,
		Categories:     categories,
		RecentReceipts: recentRows,
	}, nil
}

// TaxSummary computes the (section, category) cross tab over the given
// bounds, resolves names and derives per-section running totals by summing
// the resolved rows rather than issuing a second query.
func (a *Assembler) TaxSummary(userID, dateFrom, dateTo, section string) (*TaxSummary, error) {
	rows, err := a.engine.SectionCategoryTotals(userID, Filter{
		Section:  section,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if err != nil {
		return nil, err
	}

	idSet := make(map[string]struct{})
	for _, r := range rows {
		if r.CategoryID != "" {
			idSet[r.CategoryID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	names, err := a.resolver.Names(ids)
	if err != nil {
		return nil, err
	}

	summary := map[string][]TaxRow{
		models.SectionPersonal: {},
		models.SectionBusiness: {},
	}
	totals := map[string]WindowTotal{
		models.SectionPersonal: {},
		models.SectionBusiness: {},
	}

	for _, r := range rows {
		bucket, ok := summary[r.Section]
		if !ok {
			continue
		}
		name, ok := names[r.CategoryID]
		if !ok {
			name = UnknownCategory
		}
		summary[r.Section] = append(bucket, TaxRow{
			CategoryID:   r.CategoryID,
			CategoryName: name,
			Total:        r.Total,
			Tax:          r.Tax,
			Count:        r.Count,
		})

		t := totals[r.Section]
		t.Total += r.Total
		t.Tax += r.Tax
		t.Count += r.Count
		totals[r.Section] = t
	}

	return &TaxSummary{Summary: summary, Totals: totals}, nil
}

// ExportRows returns the full filtered receipt set (capped, date descending)
// joined with category names, shaped for row-oriented serialization.
func (a *Assembler) ExportRows(userID, dateFrom, dateTo, section string) ([]ExportRow, error) {
	receipts, _, err := a.engine.ListReceipts(userID, Filter{
		Section:  section,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	}, 0, a.exportLimit)
	if err != nil {
		return nil, err
	}

	rows, err := a.joinCategoryNames(receipts, "")
	if err != nil {
		return nil, err
	}

	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow{
			Date:          r.Date,
			Merchant:      r.MerchantName,
			Section:       r.Section,
			Category:      r.CategoryName,
			Total:         r.Total,
			Tax:           r.Tax,
			PaymentMethod: r.PaymentMethod,
			Notes:         r.Notes,
		})
	}
	return out, nil
}

// joinCategoryNames resolves each receipt's category name, applying the
// given fallback for ids that no longer resolve.
func (a *Assembler) joinCategoryNames(receipts []models.Receipt, fallback string) ([]ReceiptRow, error) {
	idSet := make(map[string]struct{})
	for _, r := range receipts {
		if r.CategoryID != "" {
			idSet[r.CategoryID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	names, err := a.resolver.Names(ids)
	if err != nil {
		return nil, err
	}

	rows := make([]ReceiptRow, 0, len(receipts))
	for _, r := range receipts {
		name, ok := names[r.CategoryID]
		if !ok {
			name = fallback
		}
		rows = append(rows, ReceiptRow{Receipt: r, CategoryName: name})
	}
	return rows, nil
}
