package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/dto"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
	Get(ctx context.Context, id string) (*models.Schedule, error)
	Create(ctx context.Context, req service.CreateScheduleRequest) (*models.Schedule, error)
	Delete(ctx context.Context, id string) error
	AddEntry(ctx context.Context, scheduleID string, req service.AddEntryRequest) (*models.Schedule, error)
	RemoveEntry(ctx context.Context, scheduleID, entryID string) error
	AssignmentView(ctx context.Context, scheduleID, entryID, teacherID string) (*dto.AssignTeacherView, error)
	Assign(ctx context.Context, scheduleID, entryID string, req service.AssignTeacherRequest) (*models.Schedule, *dto.AssignTeacherView, error)
	EditView(ctx context.Context, scheduleID, entryID string) (*dto.EntryEditView, error)
	UpdateEntry(ctx context.Context, scheduleID, entryID string, req service.EditEntryRequest) (*models.EntryUpdateResult, error)
}

type studentPicker interface {
	All(ctx context.Context) ([]models.Student, error)
}

type subjectPicker interface {
	All(ctx context.Context) ([]models.Subject, bool, error)
}

// ScheduleDefaults preselects the term on new schedules.
type ScheduleDefaults struct {
	AcadYear string
	Semester string
}

// ScheduleHandler serves schedule pages: entries, teacher assignment and slot edits.
type ScheduleHandler struct {
	service  scheduleService
	students studentPicker
	subjects subjectPicker
	defaults ScheduleDefaults
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc scheduleService, students studentPicker, subjects subjectPicker, defaults ScheduleDefaults) *ScheduleHandler {
	return &ScheduleHandler{service: svc, students: students, subjects: subjects, defaults: defaults}
}

// List renders a student's schedules.
func (h *ScheduleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	filter := models.ScheduleFilter{
		StudentID: c.Query("student_id"),
		AcadYear:  c.Query("acad_year"),
		Semester:  c.Query("semester"),
	}
	students, err := h.students.All(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	var schedules []models.Schedule
	if filter.StudentID != "" {
		schedules, err = h.service.List(ctx, filter)
		if err != nil {
			renderError(c, err)
			return
		}
	}
	renderPage(c, http.StatusOK, "schedules/list", gin.H{
		"Title":     "Schedules",
		"Students":  students,
		"Schedules": schedules,
		"Filter":    filter,
	})
}

// New renders the create-schedule form.
func (h *ScheduleHandler) New(c *gin.Context) {
	h.renderCreateForm(c, service.CreateScheduleRequest{
		StudentID: c.Query("student_id"),
		AcadYear:  h.defaults.AcadYear,
		Semester:  h.defaults.Semester,
	}, nil)
}

// Create opens a schedule.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	err := bindForm(c, &req)
	var schedule *models.Schedule
	if err == nil {
		schedule, err = h.service.Create(c.Request.Context(), req)
	}
	if err != nil {
		h.renderCreateForm(c, req, err)
		return
	}
	redirectWithSuccess(c, "/schedules/"+schedule.ID, "Schedule created.")
}

// Delete removes a schedule.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		redirectWithError(c, "/schedules", err)
		return
	}
	redirectWithSuccess(c, "/schedules?student_id="+c.PostForm("student_id"), "Schedule deleted.")
}

// Show renders a schedule with its entries.
func (h *ScheduleHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	schedule, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	subjects, _, err := h.subjects.All(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	index := make(map[string]models.Subject, len(subjects))
	for _, s := range subjects {
		index[s.ID] = s
	}
	renderPage(c, http.StatusOK, "schedules/show", gin.H{
		"Title":       "Schedule",
		"Schedule":    schedule,
		"Subjects":    index,
		"SubjectList": subjects,
	})
}

// AddEntry adds a subject to the schedule.
func (h *ScheduleHandler) AddEntry(c *gin.Context) {
	id := c.Param("id")
	target := "/schedules/" + id
	var req service.AddEntryRequest
	err := bindForm(c, &req)
	if err == nil {
		_, err = h.service.AddEntry(c.Request.Context(), id, req)
	}
	if err != nil {
		redirectWithError(c, target, err)
		return
	}
	redirectWithSuccess(c, target, "Subject added.")
}

// RemoveEntry drops a subject from the schedule.
func (h *ScheduleHandler) RemoveEntry(c *gin.Context) {
	id := c.Param("id")
	target := "/schedules/" + id
	if err := h.service.RemoveEntry(c.Request.Context(), id, c.Param("entryId")); err != nil {
		redirectWithError(c, target, err)
		return
	}
	redirectWithSuccess(c, target, "Subject removed.")
}

// AssignForm renders the assign-teacher form. Selecting a teacher reloads the page with
// ?teacher= so the slot fields are filled from that teacher's assignment.
func (h *ScheduleHandler) AssignForm(c *gin.Context) {
	view, err := h.service.AssignmentView(c.Request.Context(), c.Param("id"), c.Param("entryId"), c.Query("teacher"))
	if err != nil {
		redirectWithError(c, "/schedules/"+c.Param("id"), err)
		return
	}
	renderPage(c, http.StatusOK, "schedules/assign", gin.H{"Title": "Assign teacher", "View": view})
}

// Assign submits the assignment. Without confirmation a warned assignment re-renders
// the form asking for it.
func (h *ScheduleHandler) Assign(c *gin.Context) {
	id, entryID := c.Param("id"), c.Param("entryId")
	var req service.AssignTeacherRequest
	if err := bindForm(c, &req); err != nil {
		redirectWithError(c, c.Request.URL.Path, err)
		return
	}
	_, view, err := h.service.Assign(c.Request.Context(), id, entryID, req)
	if err != nil {
		if view == nil {
			redirectWithError(c, "/schedules/"+id+"/entries/"+entryID+"/assign", err)
			return
		}
		renderForm(c, "schedules/assign", err, gin.H{"Title": "Assign teacher", "View": view})
		return
	}
	redirectWithSuccess(c, "/schedules/"+id, "Teacher assigned.")
}

// EditForm renders the edit-entry form.
func (h *ScheduleHandler) EditForm(c *gin.Context) {
	view, err := h.service.EditView(c.Request.Context(), c.Param("id"), c.Param("entryId"))
	if err != nil {
		redirectWithError(c, "/schedules/"+c.Param("id"), err)
		return
	}
	renderPage(c, http.StatusOK, "schedules/edit", gin.H{"Title": "Edit entry", "View": view})
}

// UpdateEntry submits an edited slot. A mismatch re-renders the form with the
// teacher's official values and the useTeacher/overrideTeacher choice.
func (h *ScheduleHandler) UpdateEntry(c *gin.Context) {
	ctx := c.Request.Context()
	id, entryID := c.Param("id"), c.Param("entryId")
	var req service.EditEntryRequest
	err := bindForm(c, &req)
	var result *models.EntryUpdateResult
	if err == nil {
		result, err = h.service.UpdateEntry(ctx, id, entryID, req)
	}
	if err != nil {
		view, viewErr := h.service.EditView(ctx, id, entryID)
		if viewErr != nil {
			redirectWithError(c, "/schedules/"+id, err)
			return
		}
		view.Day, view.Time, view.Room = req.Day, req.Time, req.Room
		renderForm(c, "schedules/edit", err, gin.H{"Title": "Edit entry", "View": view})
		return
	}
	if result.Mismatch != nil {
		view, viewErr := h.service.EditView(ctx, id, entryID)
		if viewErr != nil {
			redirectWithError(c, "/schedules/"+id, viewErr)
			return
		}
		view.Day, view.Time, view.Room = req.Day, req.Time, req.Room
		view.Mismatch = result.Mismatch
		renderPage(c, http.StatusConflict, "schedules/edit", gin.H{"Title": "Edit entry", "View": view})
		return
	}
	redirectWithSuccess(c, "/schedules/"+id, "Schedule entry updated.")
}

// APIAssignmentView godoc
// @Summary Teacher auto-fill view model
// @Description Teachers handling the entry's subject, the selected teacher's slot, seats left and student conflicts
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Param entryId path string true "Entry ID"
// @Param teacher query string false "Selected teacher ID"
// @Success 200 {object} response.Envelope{data=dto.AssignTeacherView}
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id}/entries/{entryId}/assignment [get]
func (h *ScheduleHandler) APIAssignmentView(c *gin.Context) {
	view, err := h.service.AssignmentView(c.Request.Context(), c.Param("id"), c.Param("entryId"), c.Query("teacher"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

func (h *ScheduleHandler) renderCreateForm(c *gin.Context, form service.CreateScheduleRequest, formErr error) {
	students, err := h.students.All(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	data := gin.H{"Title": "New schedule", "Form": form, "Students": students}
	if formErr != nil {
		renderForm(c, "schedules/form", formErr, data)
		return
	}
	renderPage(c, http.StatusOK, "schedules/form", data)
}
