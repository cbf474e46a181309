package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
)

// StudentHandler serves the student pages.
type StudentHandler struct {
	service  *service.StudentService
	accounts *service.AccountService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc *service.StudentService, accounts *service.AccountService) *StudentHandler {
	return &StudentHandler{service: svc, accounts: accounts}
}

// List renders the filtered student table.
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		ListOptions: listOptions(c),
		Department:  c.Query("department"),
		YearLevel:   queryInt(c, "year_level", 0),
		Course:      c.Query("course"),
	}
	students, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "students/list", gin.H{
		"Title":      "Students",
		"Students":   students,
		"Pagination": pagination,
		"Filter":     filter,
	})
}

// New renders an empty student form.
func (h *StudentHandler) New(c *gin.Context) {
	h.renderForm(c, "New student", "/students", service.StudentRequest{YearLevel: 1}, nil)
}

// Create submits a new student.
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), req)
	}
	if err != nil {
		h.renderForm(c, "New student", "/students", req, err)
		return
	}
	redirectWithSuccess(c, "/students", "Student created.")
}

// Edit renders the form for an existing student.
func (h *StudentHandler) Edit(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		redirectWithError(c, "/students", err)
		return
	}
	h.renderForm(c, "Edit student", "/students/"+student.ID, service.StudentRequest{
		StudentNumber: student.StudentNumber,
		Department:    student.Department,
		YearLevel:     student.YearLevel,
		Course:        student.Course,
		AccountID:     student.Account.ID,
	}, nil)
}

// Update submits student changes.
func (h *StudentHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req service.StudentRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), id, req)
	}
	if err != nil {
		h.renderForm(c, "Edit student", "/students/"+id, req, err)
		return
	}
	redirectWithSuccess(c, "/students", "Student updated.")
}

// Delete removes a student.
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/students", err)
		return
	}
	redirectWithSuccess(c, "/students", "Student deleted.")
}

func (h *StudentHandler) renderForm(c *gin.Context, title, action string, form service.StudentRequest, formErr error) {
	accounts, err := h.accounts.OfType(c.Request.Context(), models.UserTypeStudent)
	if err != nil {
		renderError(c, err)
		return
	}
	data := gin.H{"Title": title, "Action": action, "Form": form, "Accounts": accounts}
	if formErr != nil {
		renderForm(c, "students/form", formErr, data)
		return
	}
	renderPage(c, http.StatusOK, "students/form", data)
}
