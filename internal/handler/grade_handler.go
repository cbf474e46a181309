package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

type gradeService interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Grade, error)
	Create(ctx context.Context, req service.GradeRequest) (*models.Grade, error)
	Update(ctx context.Context, id string, req service.GradeRequest) (*models.Grade, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, studentID string) (*models.GradeSummary, error)
}

type studentDirectory interface {
	All(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
}

type teacherPicker interface {
	All(ctx context.Context) ([]models.Teacher, error)
}

// GradeHandler serves grade pages and GPA summaries.
type GradeHandler struct {
	service  gradeService
	students studentDirectory
	subjects subjectPicker
	teachers teacherPicker
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(svc gradeService, students studentDirectory, subjects subjectPicker, teachers teacherPicker) *GradeHandler {
	return &GradeHandler{service: svc, students: students, subjects: subjects, teachers: teachers}
}

// List renders grades filtered by student or subject.
func (h *GradeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	filter := models.GradeFilter{
		ListOptions: listOptions(c),
		StudentID:   c.Query("student_id"),
		SubjectID:   c.Query("subject_id"),
		TeacherID:   c.Query("teacher_id"),
	}
	grades, pagination, err := h.service.List(ctx, filter)
	if err != nil {
		renderError(c, err)
		return
	}
	students, subjects, err := h.pickers(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	studentIndex := make(map[string]models.Student, len(students))
	for _, s := range students {
		studentIndex[s.ID] = s
	}
	subjectIndex := make(map[string]models.Subject, len(subjects))
	for _, s := range subjects {
		subjectIndex[s.ID] = s
	}
	renderPage(c, http.StatusOK, "grades/list", gin.H{
		"Title":        "Grades",
		"Grades":       grades,
		"Pagination":   pagination,
		"Filter":       filter,
		"Students":     students,
		"Subjects":     subjects,
		"StudentIndex": studentIndex,
		"SubjectIndex": subjectIndex,
	})
}

// New renders an empty grade form.
func (h *GradeHandler) New(c *gin.Context) {
	h.renderForm(c, "New grade", "/grades", service.GradeRequest{
		StudentID: c.Query("student_id"),
		SubjectID: c.Query("subject_id"),
	}, nil)
}

// Create submits a new grade.
func (h *GradeHandler) Create(c *gin.Context) {
	var req service.GradeRequest
	err := bindGradeForm(c, &req)
	if err == nil {
		_, err = h.service.Create(c.Request.Context(), req)
	}
	if err != nil {
		h.renderForm(c, "New grade", "/grades", req, err)
		return
	}
	redirectWithSuccess(c, "/grades?student_id="+req.StudentID, "Grade recorded.")
}

// Edit renders the form for an existing grade.
func (h *GradeHandler) Edit(c *gin.Context) {
	grade, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		redirectWithError(c, "/grades", err)
		return
	}
	percent := grade.Percent
	form := service.GradeRequest{
		StudentID: grade.Student.ID,
		SubjectID: grade.Subject.ID,
		TeacherID: grade.Teacher.ID,
		Percent:   &percent,
	}
	if !grade.GradedDate.IsZero() {
		form.GradedDate = grade.GradedDate.String()
	}
	h.renderForm(c, "Edit grade", "/grades/"+grade.ID, form, nil)
}

// Update submits grade changes.
func (h *GradeHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req service.GradeRequest
	err := bindGradeForm(c, &req)
	if err == nil {
		_, err = h.service.Update(c.Request.Context(), id, req)
	}
	if err != nil {
		h.renderForm(c, "Edit grade", "/grades/"+id, req, err)
		return
	}
	redirectWithSuccess(c, "/grades?student_id="+req.StudentID, "Grade updated.")
}

// Delete removes a grade.
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/grades", err)
		return
	}
	redirectWithSuccess(c, "/grades", "Grade deleted.")
}

// Summary renders a student's GPA.
func (h *GradeHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	studentID := c.Param("id")
	student, err := h.students.Get(ctx, studentID)
	if err != nil {
		renderError(c, err)
		return
	}
	summary, err := h.service.Summary(ctx, studentID)
	if err != nil {
		renderError(c, err)
		return
	}
	renderPage(c, http.StatusOK, "grades/summary", gin.H{
		"Title":     "GPA",
		"Student":   student,
		"StudentID": studentID,
		"Summary":   summary,
	})
}

// APISummary godoc
// @Summary Student GPA summary
// @Description Unit-weighted GWA on the 1.00-5.00 scale, average percent and pass counts
// @Tags Grades
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope{data=models.GradeSummary}
// @Failure 502 {object} response.Envelope
// @Router /students/{id}/gpa [get]
func (h *GradeHandler) APISummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

func (h *GradeHandler) pickers(ctx context.Context) ([]models.Student, []models.Subject, error) {
	students, err := h.students.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	subjects, _, err := h.subjects.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	return students, subjects, nil
}

// bindGradeForm binds the grade form. gin turns a blank number field into a pointer to
// 0, so a blank percent is reset to nil and fails the required check.
func bindGradeForm(c *gin.Context, req *service.GradeRequest) error {
	if err := bindForm(c, req); err != nil {
		return err
	}
	if strings.TrimSpace(c.PostForm("percent")) == "" {
		req.Percent = nil
	}
	return nil
}

func (h *GradeHandler) renderForm(c *gin.Context, title, action string, form service.GradeRequest, formErr error) {
	ctx := c.Request.Context()
	students, subjects, err := h.pickers(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	teachers, err := h.teachers.All(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	data := gin.H{
		"Title":    title,
		"Action":   action,
		"Form":     form,
		"Students": students,
		"Subjects": subjects,
		"Teachers": teachers,
	}
	if formErr != nil {
		renderForm(c, "grades/form", formErr, data)
		return
	}
	renderPage(c, http.StatusOK, "grades/form", data)
}
