package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/dto"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

type reportService interface {
	Fetch(ctx context.Context, kind models.ReportKind, filter models.ReportFilter) (*models.ReportTable, error)
	CreateExport(ctx context.Context, req dto.ExportRequest, user *models.SessionUser) (*dto.ReportJobResponse, error)
	GetStatus(ctx context.Context, id string, user *models.SessionUser) (*dto.ReportStatusResponse, error)
	ListJobs(ctx context.Context, user *models.SessionUser) ([]dto.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler serves report tables, export jobs and downloads.
type ReportHandler struct {
	service        reportService
	exportsEnabled bool
	defaults       models.ReportFilter
}

// NewReportHandler constructs a report handler. Export routes answer 404 when
// exportsEnabled is false.
func NewReportHandler(svc reportService, exportsEnabled bool, defaults models.ReportFilter) *ReportHandler {
	return &ReportHandler{service: svc, exportsEnabled: exportsEnabled, defaults: defaults}
}

// Index renders the report picker.
func (h *ReportHandler) Index(c *gin.Context) {
	renderPage(c, http.StatusOK, "reports/index", gin.H{
		"Title":          "Reports",
		"Kinds":          models.ReportKinds,
		"Kind":           models.ReportKindGrades,
		"Filter":         h.defaults,
		"ExportsEnabled": h.exportsEnabled,
	})
}

// View renders one report as a table. The kind comes from the path or ?kind=.
func (h *ReportHandler) View(c *gin.Context) {
	kind := models.ReportKind(c.Param("kind"))
	if kind == "" {
		kind = models.ReportKind(c.Query("kind"))
	}
	var filter models.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		renderError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report filter"))
		return
	}
	table, err := h.service.Fetch(c.Request.Context(), kind, filter)
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "reports/view", gin.H{
		"Title":          table.Title,
		"Table":          table,
		"Kind":           kind,
		"Filter":         filter,
		"ExportsEnabled": h.exportsEnabled,
	})
}

// Export queues an export and sends the user to their job list.
func (h *ReportHandler) Export(c *gin.Context) {
	if !h.exportsEnabled {
		renderError(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	var req dto.ExportRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.CreateExport(c.Request.Context(), req, currentUser(c))
	}
	if err != nil {
		redirectWithError(c, "/reports", err)
		return
	}
	redirectWithSuccess(c, "/reports/exports", "Export queued. Refresh to see its progress.")
}

// Jobs renders the user's export jobs.
func (h *ReportHandler) Jobs(c *gin.Context) {
	if !h.exportsEnabled {
		renderError(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	jobs, err := h.service.ListJobs(c.Request.Context(), currentUser(c))
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "reports/exports", gin.H{"Title": "My exports", "Jobs": jobs})
}

// Download streams a finished export identified by its signed token.
func (h *ReportHandler) Download(c *gin.Context) {
	if !h.exportsEnabled {
		renderError(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	download, err := h.service.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		renderError(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		renderError(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), service.ContentType(download.Format), download.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Filename),
	})
}

// APICreateExport godoc
// @Summary Queue a report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export request"
// @Success 202 {object} response.Envelope{data=dto.ReportJobResponse}
// @Failure 400 {object} response.Envelope
// @Router /reports/exports [post]
func (h *ReportHandler) APICreateExport(c *gin.Context) {
	if !h.exportsEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.service.CreateExport(c.Request.Context(), req, currentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// APIExportStatus godoc
// @Summary Export job status
// @Tags Reports
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} response.Envelope{data=dto.ReportStatusResponse}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/exports/{jobId} [get]
func (h *ReportHandler) APIExportStatus(c *gin.Context) {
	if !h.exportsEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	status, err := h.service.GetStatus(c.Request.Context(), c.Param("jobId"), currentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
