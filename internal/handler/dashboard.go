package handler

import (
	"net/http"

	"github.com/Roshan1923/BillBrain/internal/middleware"
	"github.com/Roshan1923/BillBrain/internal/report"
	"github.com/Roshan1923/BillBrain/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the composed dashboard summary.
type DashboardHandler struct {
	Assembler *report.Assembler
}

func NewDashboardHandler(assembler *report.Assembler) *DashboardHandler {
	return &DashboardHandler{Assembler: assembler}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	summary, err := h.Assembler.DashboardSummary(user.UserID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Dashboard summary failed")
		return
	}
	c.JSON(http.StatusOK, summary)
}
