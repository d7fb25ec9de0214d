package handler

import (
	"errors"
	"net/http"

	"github.com/Roshan1923/BillBrain/internal/models"
	"github.com/Roshan1923/BillBrain/internal/ocr"
	"github.com/Roshan1923/BillBrain/internal/util"

	"github.com/gin-gonic/gin"
)

// OCRHandler delegates receipt-image extraction to the external service.
type OCRHandler struct {
	Extractor ocr.Extractor
}

func NewOCRHandler(extractor ocr.Extractor) *OCRHandler {
	return &OCRHandler{Extractor: extractor}
}

type scanReq struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// Scan extracts structured fields from a receipt image. Malformed upstream
// output degrades to an empty result with an advisory error field instead of
// failing the request.
func (h *OCRHandler) Scan(c *gin.Context) {
	var req scanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.Extractor == nil {
		util.Error(c, http.StatusInternalServerError, "OCR service not configured")
		return
	}

	fields, err := h.Extractor.Extract(c.Request.Context(), req.ImageBase64)
	if err != nil {
		if errors.Is(err, ocr.ErrUnparsable) {
			c.JSON(http.StatusOK, gin.H{
				"merchant_name":  "",
				"date":           "",
				"total":          0,
				"tax":            0,
				"items":          []models.Item{},
				"payment_method": "",
				"error":          "Could not parse receipt. Please enter details manually.",
			})
			return
		}
		util.Error(c, http.StatusInternalServerError, "OCR processing failed")
		return
	}

	c.JSON(http.StatusOK, fields)
}
