package handler

import (
	"net/http"

	"github.com/Roshan1923/BillBrain/internal/middleware"
	"github.com/Roshan1923/BillBrain/internal/models"
	"github.com/Roshan1923/BillBrain/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMe returns the authenticated user, credential already stripped by the
// auth middleware.
func GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, user)
}

type settingsReq struct {
	Currency *string `json:"currency"`
	Theme    *string `json:"theme"`
}

// UpdateSettings applies partial display-preference updates and returns the
// refreshed user.
func UpdateSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req settingsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		updates := map[string]any{}
		if req.Currency != nil {
			updates["currency"] = *req.Currency
		}
		if req.Theme != nil {
			updates["theme"] = *req.Theme
		}

		if len(updates) > 0 {
			if err := db.Model(&models.User{}).
				Where("user_id = ?", user.UserID).
				Updates(updates).Error; err != nil {
				util.Error(c, http.StatusInternalServerError, "Update settings failed")
				return
			}
		}

		var updated models.User
		if err := db.First(&updated, "user_id = ?", user.UserID).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "User lookup failed")
			return
		}
		updated.PasswordHash = ""
		c.JSON(http.StatusOK, updated)
	}
}
