package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Roshan1923/BillBrain/internal/middleware"
	"github.com/Roshan1923/BillBrain/internal/report"
	"github.com/Roshan1923/BillBrain/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// exportHeader is the fixed column header shared by the CSV and XLSX
// exports. Order and spelling are part of the contract.
var exportHeader = []string{
	"Date", "Merchant", "Section", "Category",
	"Total (CAD)", "Tax (CAD)", "Payment Method", "Notes",
}

// ReportHandler serves the tax summary and the export endpoints.
type ReportHandler struct {
	Assembler *report.Assembler
}

func NewReportHandler(assembler *report.Assembler) *ReportHandler {
	return &ReportHandler{Assembler: assembler}
}

func (h *ReportHandler) TaxSummary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	summary, err := h.Assembler.TaxSummary(
		user.UserID,
		c.Query("date_from"),
		c.Query("date_to"),
		c.Query("section"),
	)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Tax summary failed")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportCSV streams the filtered receipt set as a CSV attachment. Monetary
// amounts are formatted to exactly two decimals here, at the serialization
// boundary.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	rows, err := h.Assembler.ExportRows(
		user.UserID,
		c.Query("date_from"),
		c.Query("date_to"),
		c.Query("section"),
	)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Export failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"billbrain_receipts_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader)
	for _, r := range rows {
		writer.Write([]string{
			r.Date,
			r.Merchant,
			titleCase(r.Section),
			r.Category,
			formatAmount(r.Total),
			formatAmount(r.Tax),
			r.PaymentMethod,
			r.Notes,
		})
	}
}

// ExportXLSX writes the same rows as ExportCSV into a spreadsheet.
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	rows, err := h.Assembler.ExportRows(
		user.UserID,
		c.Query("date_from"),
		c.Query("date_to"),
		c.Query("section"),
	)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Export failed")
		return
	}

	f := excelize.NewFile()
	sheetName := "Receipts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, hdr := range exportHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hdr)
	}

	for idx, r := range rows {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Date)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Merchant)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), titleCase(r.Section))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), formatAmount(r.Total))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), formatAmount(r.Tax))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.PaymentMethod)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.Notes)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 24)
	f.SetColWidth(sheetName, "C", "D", 16)
	f.SetColWidth(sheetName, "E", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 16)
	f.SetColWidth(sheetName, "H", "H", 32)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"billbrain_receipts_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "Export failed")
	}
}

// formatAmount renders a monetary amount with exactly two decimals.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// titleCase uppercases the first letter; sections are single words.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
