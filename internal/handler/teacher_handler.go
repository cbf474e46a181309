package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
)

// TeacherHandler serves the teacher pages and their subject assignments.
type TeacherHandler struct {
	service  *service.TeacherService
	accounts *service.AccountService
	subjects *service.SubjectService
}

// NewTeacherHandler constructs a teacher handler.
func NewTeacherHandler(svc *service.TeacherService, accounts *service.AccountService, subjects *service.SubjectService) *TeacherHandler {
	return &TeacherHandler{service: svc, accounts: accounts, subjects: subjects}
}

// List renders the filtered teacher table.
func (h *TeacherHandler) List(c *gin.Context) {
	filter := models.TeacherFilter{
		ListOptions: listOptions(c),
		Department:  c.Query("department"),
		SubjectID:   c.Query("subject_id"),
	}
	teachers, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		renderError(c, err)
		return
	}
	subjects, _, err := h.subjects.All(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "teachers/list", gin.H{
		"Title":      "Teachers",
		"Teachers":   teachers,
		"Subjects":   subjects,
		"Pagination": pagination,
		"Filter":     filter,
	})
}

// New renders an empty teacher form.
func (h *TeacherHandler) New(c *gin.Context) {
	h.renderForm(c, "New teacher", "/teachers", service.TeacherRequest{}, nil)
}

// Create submits a new teacher.
func (h *TeacherHandler) Create(c *gin.Context) {
	var req service.TeacherRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), req)
	}
	if err != nil {
		h.renderForm(c, "New teacher", "/teachers", req, err)
		return
	}
	redirectWithSuccess(c, "/teachers", "Teacher created.")
}

// Edit renders the form for an existing teacher.
func (h *TeacherHandler) Edit(c *gin.Context) {
	teacher, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		redirectWithError(c, "/teachers", err)
		return
	}
	h.renderForm(c, "Edit teacher", "/teachers/"+teacher.ID, service.TeacherRequest{
		TeacherUID:  teacher.TeacherUID,
		AccountID:   teacher.Account.ID,
		Departments: strings.Join(teacher.Departments, ", "),
	}, nil)
}

// Update submits teacher changes.
func (h *TeacherHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req service.TeacherRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), id, req)
	}
	if err != nil {
		h.renderForm(c, "Edit teacher", "/teachers/"+id, req, err)
		return
	}
	redirectWithSuccess(c, "/teachers", "Teacher updated.")
}

// Delete removes a teacher.
func (h *TeacherHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/teachers", err)
		return
	}
	redirectWithSuccess(c, "/teachers", "Teacher deleted.")
}

// Subjects renders a teacher's assignments with the assign form.
func (h *TeacherHandler) Subjects(c *gin.Context) {
	h.renderSubjects(c, c.Param("id"), service.AssignSubjectRequest{}, nil)
}

// AssignSubject attaches a subject with its official slot.
func (h *TeacherHandler) AssignSubject(c *gin.Context) {
	id := c.Param("id")
	var req service.AssignSubjectRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.AssignSubject(c.Request.Context(), id, req)
	}
	if err != nil {
		h.renderSubjects(c, id, req, err)
		return
	}
	redirectWithSuccess(c, "/teachers/"+id+"/subjects", "Subject assigned.")
}

// UnassignSubject removes a subject assignment.
func (h *TeacherHandler) UnassignSubject(c *gin.Context) {
	id := c.Param("id")
	target := "/teachers/" + id + "/subjects"
	if err := h.service.UnassignSubject(c.Request.Context(), id, c.Param("subjectId")); err != nil {
		redirectWithError(c, target, err)
		return
	}
	redirectWithSuccess(c, target, "Subject removed.")
}

func (h *TeacherHandler) renderForm(c *gin.Context, title, action string, form service.TeacherRequest, formErr error) {
	accounts, err := h.accounts.OfType(c.Request.Context(), models.UserTypeTeacher)
	if err != nil {
		renderError(c, err)
		return
	}
	data := gin.H{"Title": title, "Action": action, "Form": form, "Accounts": accounts}
	if formErr != nil {
		renderForm(c, "teachers/form", formErr, data)
		return
	}
	renderPage(c, http.StatusOK, "teachers/form", data)
}

func (h *TeacherHandler) renderSubjects(c *gin.Context, id string, form service.AssignSubjectRequest, formErr error) {
	ctx := c.Request.Context()
	teacher, err := h.service.Get(ctx, id)
	if err != nil {
		redirectWithError(c, "/teachers", err)
		return
	}
	subjects, _, err := h.subjects.All(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	// Unpopulated assignment refs are resolved from the cached subject list.
	index := make(map[string]models.Subject, len(subjects))
	for _, s := range subjects {
		index[s.ID] = s
	}
	for i, a := range teacher.Subjects {
		if sub, ok := index[a.Subject.ID]; ok && !a.Subject.Populated() {
			sub := sub
			teacher.Subjects[i].Subject.Value = &sub
		}
	}
	data := gin.H{"Title": teacher.DisplayName(), "Teacher": teacher, "Subjects": subjects, "Form": form}
	if formErr != nil {
		renderForm(c, "teachers/subjects", formErr, data)
		return
	}
	renderPage(c, http.StatusOK, "teachers/subjects", data)
}
