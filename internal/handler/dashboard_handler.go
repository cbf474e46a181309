package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/dto"
	"github.com/noah-isme/sma-admin-console/internal/models"
)

type dashboardSummarizer interface {
	Summary(ctx context.Context, user *models.SessionUser) (*dto.DashboardResponse, error)
}

// DashboardHandler renders the landing page.
type DashboardHandler struct {
	service dashboardSummarizer
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc dashboardSummarizer) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Page renders the dashboard counters.
func (h *DashboardHandler) Page(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), currentUser(c))
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "dashboard", gin.H{"Title": "Dashboard", "Summary": summary})
}
