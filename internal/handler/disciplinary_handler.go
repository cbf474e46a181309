package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
)

var severities = []int{1, 2, 3, 4, 5}

// DisciplinaryHandler serves disciplinary record pages.
type DisciplinaryHandler struct {
	service *service.DisciplinaryService
}

// NewDisciplinaryHandler constructs a disciplinary handler.
func NewDisciplinaryHandler(svc *service.DisciplinaryService) *DisciplinaryHandler {
	return &DisciplinaryHandler{service: svc}
}

// List renders records filtered by student number and minimum severity.
func (h *DisciplinaryHandler) List(c *gin.Context) {
	filter := models.DisciplinaryFilter{
		ListOptions:   listOptions(c),
		StudentNumber: c.Query("student_number"),
		MinSeverity:   queryInt(c, "min_severity", 0),
	}
	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "disciplinary/list", gin.H{
		"Title":      "Disciplinary records",
		"Records":    records,
		"Pagination": pagination,
		"Filter":     filter,
		"Severities": severities,
	})
}

// New renders an empty record form. The logged-in user is recorded as the reporter.
func (h *DisciplinaryHandler) New(c *gin.Context) {
	form := service.DisciplinaryRequest{StudentNumber: c.Query("student_number"), Severity: models.MinSeverity}
	if user := currentUser(c); user != nil && user.UserType == models.UserTypeTeacher {
		form.TeacherID = user.ID
	}
	renderPage(c, http.StatusOK, "disciplinary/form", h.formData("New record", "/disciplinary", form))
}

// Create submits a new record.
func (h *DisciplinaryHandler) Create(c *gin.Context) {
	var req service.DisciplinaryRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), req)
	}
	if err != nil {
		renderForm(c, "disciplinary/form", err, h.formData("New record", "/disciplinary", req))
		return
	}
	redirectWithSuccess(c, "/disciplinary?student_number="+url.QueryEscape(req.StudentNumber), "Record created.")
}

// Edit renders the form for an existing record.
func (h *DisciplinaryHandler) Edit(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		redirectWithError(c, "/disciplinary", err)
		return
	}
	form := service.DisciplinaryRequest{
		StudentNumber: record.StudentNumber,
		TeacherID:     record.TeacherID,
		Violation:     record.Violation,
		Sanction:      record.Sanction,
		Severity:      record.Severity,
		Remarks:       record.Remarks,
		Date:          record.Date.String(),
	}
	renderPage(c, http.StatusOK, "disciplinary/form", h.formData("Edit record", "/disciplinary/"+record.ID, form))
}

// Update submits record changes.
func (h *DisciplinaryHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req service.DisciplinaryRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), id, req)
	}
	if err != nil {
		renderForm(c, "disciplinary/form", err, h.formData("Edit record", "/disciplinary/"+id, req))
		return
	}
	redirectWithSuccess(c, "/disciplinary?student_number="+url.QueryEscape(req.StudentNumber), "Record updated.")
}

// Delete removes a record.
func (h *DisciplinaryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/disciplinary", err)
		return
	}
	redirectWithSuccess(c, "/disciplinary", "Record deleted.")
}

// Summary renders a student's record count, highest severity and latest date.
func (h *DisciplinaryHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("studentNumber"))
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "disciplinary/summary", gin.H{"Title": "Disciplinary summary", "Summary": summary})
}

func (h *DisciplinaryHandler) formData(title, action string, form service.DisciplinaryRequest) gin.H {
	return gin.H{"Title": title, "Action": action, "Form": form, "Severities": severities}
}
