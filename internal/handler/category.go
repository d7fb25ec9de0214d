package handler

import (
	"net/http"

	"github.com/Roshan1923/BillBrain/internal/middleware"
	"github.com/Roshan1923/BillBrain/internal/models"
	"github.com/Roshan1923/BillBrain/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler owns the user-scoped category CRUD.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	cats := make([]models.Category, 0)
	if err := h.DB.Where("user_id = ?", user.UserID).Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "List categories failed")
		return
	}
	c.JSON(http.StatusOK, cats)
}

type createCategoryReq struct {
	Name    string `json:"name" binding:"required,max=64"`
	Section string `json:"section" binding:"required,oneof=personal business"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	cat := models.Category{
		CategoryID: util.NewID("cat"),
		UserID:     user.UserID,
		Name:       req.Name,
		Section:    req.Section,
		IsDefault:  false,
	}
	if err := h.DB.Create(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Create category failed")
		return
	}
	c.JSON(http.StatusOK, cat)
}

type updateCategoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req updateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.DB.Model(&models.Category{}).
		Where("category_id = ? AND user_id = ?", c.Param("id"), user.UserID).
		Update("name", req.Name)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "Update category failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

// Delete refuses to remove a category that receipts still reference and
// reports the blocking count back instead; the caller decides what to do.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	categoryID := c.Param("id")

	var receiptCount int64
	if err := h.DB.Model(&models.Receipt{}).
		Where("category_id = ? AND user_id = ?", categoryID, user.UserID).
		Count(&receiptCount).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Count receipts failed")
		return
	}
	if receiptCount > 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":       "Warning: receipts use this category",
			"receipt_count": receiptCount,
			"deleted":       false,
		})
		return
	}

	res := h.DB.Delete(&models.Category{}, "category_id = ? AND user_id = ?", categoryID, user.UserID)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "Delete category failed")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted", "deleted": true})
}
