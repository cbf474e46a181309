package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

type subjectService interface {
	All(ctx context.Context) ([]models.Subject, bool, error)
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, req service.SubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, id string, req service.SubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
}

// SubjectHandler serves the subject pages and the cached subject list API.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List renders the filtered subject table.
func (h *SubjectHandler) List(c *gin.Context) {
	filter := subjectFilter(c)
	subjects, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "subjects/list", gin.H{
		"Title":      "Subjects",
		"Subjects":   subjects,
		"Pagination": pagination,
		"Filter":     filter,
	})
}

// New renders an empty subject form.
func (h *SubjectHandler) New(c *gin.Context) {
	renderPage(c, http.StatusOK, "subjects/form", gin.H{"Title": "New subject", "Action": "/subjects", "Form": service.SubjectRequest{Units: 3}})
}

// Create submits a new subject.
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.SubjectRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), req)
	}
	if err != nil {
		renderForm(c, "subjects/form", err, gin.H{"Title": "New subject", "Action": "/subjects", "Form": req})
		return
	}
	redirectWithSuccess(c, "/subjects", "Subject created.")
}

// Edit renders the form for an existing subject.
func (h *SubjectHandler) Edit(c *gin.Context) {
	subject, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		redirectWithError(c, "/subjects", err)
		return
	}
	form := service.SubjectRequest{
		Code:        subject.Code,
		SubjectName: subject.SubjectName,
		Units:       subject.Units,
		Department:  subject.Department,
		YearLevel:   subject.YearLevel,
		Semester:    subject.Semester,
	}
	renderPage(c, http.StatusOK, "subjects/form", gin.H{"Title": "Edit subject", "Action": "/subjects/" + subject.ID, "Form": form})
}

// Update submits subject changes.
func (h *SubjectHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req service.SubjectRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), id, req)
	}
	if err != nil {
		renderForm(c, "subjects/form", err, gin.H{"Title": "Edit subject", "Action": "/subjects/" + id, "Form": req})
		return
	}
	redirectWithSuccess(c, "/subjects", "Subject updated.")
}

// Delete removes a subject.
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/subjects", err)
		return
	}
	redirectWithSuccess(c, "/subjects", "Subject deleted.")
}

// APIList godoc
// @Summary List subjects
// @Description Filtered page of the cached subject list
// @Tags Subjects
// @Produce json
// @Param department query string false "Filter by department"
// @Param year_level query int false "Filter by year level"
// @Param semester query string false "Filter by semester"
// @Param search query string false "Search code or name"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) APIList(c *gin.Context) {
	// Warms the cache and reports whether this request hit it.
	_, hit, err := h.service.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	subjects, pagination, err := h.service.List(c.Request.Context(), subjectFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, subjects, pagination, middleware.ExtractMeta(c))
}

func subjectFilter(c *gin.Context) models.SubjectFilter {
	return models.SubjectFilter{
		ListOptions: listOptions(c),
		Department:  c.Query("department"),
		YearLevel:   queryInt(c, "year_level", 0),
		Semester:    c.Query("semester"),
	}
}
