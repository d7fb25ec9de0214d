package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Roshan1923/BillBrain/internal/middleware"
	"github.com/Roshan1923/BillBrain/internal/models"
	"github.com/Roshan1923/BillBrain/internal/report"
	"github.com/Roshan1923/BillBrain/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReceiptHandler owns receipt CRUD and the filtered listing.
type ReceiptHandler struct {
	DB       *gorm.DB
	Engine   *report.Engine
	PageSize int
}

func NewReceiptHandler(db *gorm.DB, engine *report.Engine, pageSize int) *ReceiptHandler {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &ReceiptHandler{DB: db, Engine: engine, PageSize: pageSize}
}

// receiptWithImageFlag adds has_image to a receipt whose payload was
// dropped from the projection.
type receiptWithImageFlag struct {
	models.Receipt
	HasImage bool `json:"has_image"`
}

// ---------- list ----------

// List applies the combinable filters and returns one page plus the match
// count of the whole filtered set.
func (h *ReceiptHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	f := report.Filter{
		Section:    c.Query("section"),
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
	}
	if v := c.Query("amount_min"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid amount_min")
			return
		}
		f.AmountMin = &min
	}
	if v := c.Query("amount_max"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid amount_max")
			return
		}
		f.AmountMax = &max
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.PageSize)))

	receipts, total, err := h.Engine.ListReceipts(user.UserID, f, skip, limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "List receipts failed")
		return
	}
	if receipts == nil {
		receipts = []models.Receipt{}
	}

	c.JSON(http.StatusOK, gin.H{
		"receipts": receipts,
		"total":    total,
	})
}

// ---------- create ----------

type createReceiptReq struct {
	MerchantName  string        `json:"merchant_name" binding:"required"`
	Date          string        `json:"date" binding:"required"`
	Total         float64       `json:"total"`
	Tax           float64       `json:"tax"`
	Items         []models.Item `json:"items"`
	PaymentMethod string        `json:"payment_method"`
	Section       string        `json:"section" binding:"required"`
	CategoryID    string        `json:"category_id" binding:"required"`
	Notes         string        `json:"notes"`
	ImageBase64   string        `json:"image_base64"`
}

func (h *ReceiptHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req createReceiptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := util.ValidateDate(req.Date); err != nil {
		util.Error(c, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}
	if err := util.ValidateSection(req.Section); err != nil {
		util.Error(c, http.StatusBadRequest, "Section must be personal or business")
		return
	}
	if util.ValidateAmount(req.Total) != nil || util.ValidateAmount(req.Tax) != nil {
		util.Error(c, http.StatusBadRequest, "Total and tax must be non-negative amounts")
		return
	}

	items := req.Items
	if items == nil {
		items = []models.Item{}
	}

	receipt := models.Receipt{
		ReceiptID:     util.NewID("rcpt"),
		UserID:        user.UserID,
		MerchantName:  req.MerchantName,
		Date:          req.Date,
		Total:         req.Total,
		Tax:           req.Tax,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		Section:       req.Section,
		CategoryID:    req.CategoryID,
		Notes:         req.Notes,
		ImageBase64:   req.ImageBase64,
	}
	if err := h.DB.Create(&receipt).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Create receipt failed")
		return
	}

	hasImage := receipt.ImageBase64 != ""
	receipt.ImageBase64 = ""
	c.JSON(http.StatusOK, receiptWithImageFlag{Receipt: receipt, HasImage: hasImage})
}

// ---------- single fetch ----------

// Get is the only projection that returns the embedded image payload.
func (h *ReceiptHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var receipt models.Receipt
	err := h.DB.First(&receipt, "receipt_id = ? AND user_id = ?", c.Param("id"), user.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "Receipt not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Receipt lookup failed")
		}
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// ---------- update ----------

type updateReceiptReq struct {
	MerchantName  *string        `json:"merchant_name"`
	Date          *string        `json:"date"`
	Total         *float64       `json:"total"`
	Tax           *float64       `json:"tax"`
	Items         *[]models.Item `json:"items"`
	PaymentMethod *string        `json:"payment_method"`
	Section       *string        `json:"section"`
	CategoryID    *string        `json:"category_id"`
	Notes         *string        `json:"notes"`
}

func (r *updateReceiptReq) empty() bool {
	return r.MerchantName == nil && r.Date == nil && r.Total == nil && r.Tax == nil &&
		r.Items == nil && r.PaymentMethod == nil && r.Section == nil &&
		r.CategoryID == nil && r.Notes == nil
}

func (h *ReceiptHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req updateReceiptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.empty() {
		util.Error(c, http.StatusBadRequest, "No fields to update")
		return
	}
	if req.Date != nil {
		if err := util.ValidateDate(*req.Date); err != nil {
			util.Error(c, http.StatusBadRequest, "Date must be YYYY-MM-DD")
			return
		}
	}
	if req.Section != nil {
		if err := util.ValidateSection(*req.Section); err != nil {
			util.Error(c, http.StatusBadRequest, "Section must be personal or business")
			return
		}
	}
	if (req.Total != nil && util.ValidateAmount(*req.Total) != nil) ||
		(req.Tax != nil && util.ValidateAmount(*req.Tax) != nil) {
		util.Error(c, http.StatusBadRequest, "Total and tax must be non-negative amounts")
		return
	}

	var receipt models.Receipt
	err := h.DB.First(&receipt, "receipt_id = ? AND user_id = ?", c.Param("id"), user.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "Receipt not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Receipt lookup failed")
		}
		return
	}

	if req.MerchantName != nil {
		receipt.MerchantName = *req.MerchantName
	}
	if req.Date != nil {
		receipt.Date = *req.Date
	}
	if req.Total != nil {
		receipt.Total = *req.Total
	}
	if req.Tax != nil {
		receipt.Tax = *req.Tax
	}
	if req.Items != nil {
		receipt.Items = *req.Items
	}
	if req.PaymentMethod != nil {
		receipt.PaymentMethod = *req.PaymentMethod
	}
	if req.Section != nil {
		receipt.Section = *req.Section
	}
	if req.CategoryID != nil {
		receipt.CategoryID = *req.CategoryID
	}
	if req.Notes != nil {
		receipt.Notes = *req.Notes
	}

	if err := h.DB.Save(&receipt).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Update receipt failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt updated"})
}

// ---------- delete ----------

func (h *ReceiptHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	res := h.DB.Delete(&models.Receipt{}, "receipt_id = ? AND user_id = ?", c.Param("id"), user.UserID)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "Delete receipt failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "Receipt not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted"})
}
