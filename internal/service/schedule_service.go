package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/dto"
	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id string) error
	AddEntry(ctx context.Context, scheduleID string, entry models.ScheduleEntry) (*models.Schedule, error)
	RemoveEntry(ctx context.Context, scheduleID, entryID string) error
	AssignTeacher(ctx context.Context, scheduleID, entryID string, assignment models.EntryAssignment) (*models.Schedule, error)
	UpdateEntry(ctx context.Context, scheduleID, entryID string, update models.EntryUpdate) (*models.EntryUpdateResult, error)
}

type subjectTeachers interface {
	ForSubject(ctx context.Context, subjectID string) ([]models.Teacher, error)
}

type subjectLookup interface {
	Lookup(ctx context.Context) (map[string]models.Subject, error)
}

// CreateScheduleRequest opens a schedule for a student and term.
type CreateScheduleRequest struct {
	StudentID string `form:"student_id" json:"student_id" validate:"required"`
	AcadYear  string `form:"acad_year" json:"acad_year" validate:"required"`
	Semester  string `form:"semester" json:"semester" validate:"required"`
}

// AddEntryRequest adds a subject to a schedule. CourseCode defaults to the subject code.
type AddEntryRequest struct {
	SubjectID  string `form:"subject_id" json:"subject_id" validate:"required"`
	CourseCode string `form:"course_code" json:"course_code"`
}

// AssignTeacherRequest submits the assign-teacher form. Empty day, time or room take
// the teacher's official values.
type AssignTeacherRequest struct {
	TeacherID string `form:"teacher_id" json:"teacher_id" validate:"required"`
	Day       string `form:"day" json:"day"`
	Time      string `form:"time" json:"time"`
	Room      string `form:"room" json:"room"`
	Confirm   bool   `form:"confirm" json:"confirm"`
}

// EditEntryRequest submits an edited slot, with Mode set when resolving a mismatch.
type EditEntryRequest struct {
	Day  string           `form:"day" json:"day" validate:"required"`
	Time string           `form:"time" json:"time" validate:"required"`
	Room string           `form:"room" json:"room" validate:"required"`
	Mode models.EntryMode `form:"mode" json:"mode"`
}

// ScheduleService holds the schedule view-model logic: teacher auto-fill, seat
// counting, the student conflict check and mismatch resolution.
type ScheduleService struct {
	repo      scheduleRepository
	teachers  subjectTeachers
	subjects  subjectLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(repo scheduleRepository, teachers subjectTeachers, subjects subjectLookup, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, teachers: teachers, subjects: subjects, validator: validate, logger: logger}
}

// List returns a student's schedules, newest term first.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	schedules, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, upstreamError(err, "", "failed to list schedules")
	}
	sortItems(schedules, models.ListOptions{SortOrder: "desc"}, map[string]func(a, b models.Schedule) bool{
		"term": func(a, b models.Schedule) bool {
			if a.AcadYear != b.AcadYear {
				return a.AcadYear < b.AcadYear
			}
			return a.Semester < b.Semester
		},
	}, "term")
	return schedules, nil
}

// Get returns a schedule by id.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "schedule not found", "failed to load schedule")
	}
	return schedule, nil
}

// Create opens a schedule. A student has at most one schedule per term.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	req.AcadYear = strings.TrimSpace(req.AcadYear)
	req.Semester = strings.TrimSpace(req.Semester)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid schedule payload")
	}
	existing, err := s.repo.List(ctx, models.ScheduleFilter{StudentID: req.StudentID, AcadYear: req.AcadYear, Semester: req.Semester})
	if err != nil {
		return nil, upstreamError(err, "", "failed to check existing schedules")
	}
	for _, sch := range existing {
		if sch.Student.ID == req.StudentID && sch.AcadYear == req.AcadYear && strings.EqualFold(sch.Semester, req.Semester) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already has a schedule for this term")
		}
	}
	schedule := &models.Schedule{
		Student:  models.RefTo[models.Student](req.StudentID),
		AcadYear: req.AcadYear,
		Semester: req.Semester,
		Entries:  []models.ScheduleEntry{},
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, upstreamError(err, "", "failed to create schedule")
	}
	return schedule, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "schedule not found", "failed to delete schedule")
	}
	return nil
}

// AddEntry adds a subject to a schedule. A subject appears at most once per schedule.
func (s *ScheduleService) AddEntry(ctx context.Context, scheduleID string, req AddEntryRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid schedule entry")
	}
	schedule, err := s.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	for _, e := range schedule.Entries {
		if e.Subject.ID == req.SubjectID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject already in schedule")
		}
	}
	courseCode := strings.TrimSpace(req.CourseCode)
	if courseCode == "" {
		subjects, err := s.subjects.Lookup(ctx)
		if err != nil {
			return nil, err
		}
		subject, ok := subjects[req.SubjectID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
		}
		courseCode = subject.Code
	}
	updated, err := s.repo.AddEntry(ctx, scheduleID, models.ScheduleEntry{
		CourseCode: courseCode,
		Subject:    models.RefTo[models.Subject](req.SubjectID),
	})
	if err != nil {
		return nil, upstreamError(err, "schedule not found", "failed to add schedule entry")
	}
	return updated, nil
}

// RemoveEntry deletes an entry.
func (s *ScheduleService) RemoveEntry(ctx context.Context, scheduleID, entryID string) error {
	if err := s.repo.RemoveEntry(ctx, scheduleID, entryID); err != nil {
		return upstreamError(err, "schedule entry not found", "failed to remove schedule entry")
	}
	return nil
}

// AssignmentView builds the assign-teacher form. Teachers are limited to those handling
// the entry's subject. When a teacher is selected (teacherID, or else the entry's
// current teacher) their official slot is copied into the form, remaining seats are
// computed, and other entries of the schedule meeting at the same day and time are
// reported as conflicts.
func (s *ScheduleService) AssignmentView(ctx context.Context, scheduleID, entryID, teacherID string) (*dto.AssignTeacherView, error) {
	schedule, entry, err := s.loadEntry(ctx, scheduleID, entryID)
	if err != nil {
		return nil, err
	}
	return s.buildAssignmentView(ctx, schedule, entry, teacherID)
}

func (s *ScheduleService) buildAssignmentView(ctx context.Context, schedule *models.Schedule, entry models.ScheduleEntry, teacherID string) (*dto.AssignTeacherView, error) {
	teachers, err := s.teachers.ForSubject(ctx, entry.Subject.ID)
	if err != nil {
		return nil, err
	}

	view := &dto.AssignTeacherView{
		ScheduleID: schedule.ID,
		Entry:      entry,
		Teachers:   make([]dto.TeacherOption, 0, len(teachers)),
		Conflicts:  []models.ScheduleEntry{},
	}
	if entry.Subject.Value != nil {
		view.SubjectCode = entry.Subject.Value.Code
		view.SubjectName = entry.Subject.Value.SubjectName
	} else if subjects, err := s.subjects.Lookup(ctx); err == nil {
		view.SubjectCode = subjects[entry.Subject.ID].Code
		view.SubjectName = subjects[entry.Subject.ID].SubjectName
	}
	if view.SubjectCode == "" {
		view.SubjectCode = entry.CourseCode
	}

	selectedID := teacherID
	if selectedID == "" {
		selectedID = entry.Teacher.ID
	}
	for _, t := range teachers {
		assignment, _ := t.AssignmentFor(entry.Subject.ID)
		option := dto.TeacherOption{
			ID:          t.ID,
			Name:        t.DisplayName(),
			TeacherUID:  t.TeacherUID,
			Day:         assignment.Day,
			Time:        assignment.Time,
			Room:        assignment.Room,
			Slots:       assignment.Slots,
			NumStudents: assignment.NumStudents,
			Remaining:   assignment.Remaining(),
			Full:        assignment.Full(),
			Selected:    t.ID == selectedID,
		}
		if option.Selected {
			view.Form = dto.AssignmentForm{
				TeacherID: t.ID,
				Day:       option.Day,
				Time:      option.Time,
				Room:      option.Room,
				Slots:     option.Slots,
				Remaining: option.Remaining,
			}
			view.ClassFull = option.Full
		}
		view.Teachers = append(view.Teachers, option)
	}
	if teacherID != "" && !view.HasSelection() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher does not handle this subject")
	}
	if view.HasSelection() {
		view.Conflicts = nonNil(schedule.Conflicts(entry.ID, view.Form.Day, view.Form.Time))
	}
	view.NeedsConfirmation = view.ClassFull || len(view.Conflicts) > 0
	return view, nil
}

// Assign submits the teacher assignment. Warnings are advisory: when the class is full
// or the slot conflicts, the request must carry Confirm, otherwise ErrConfirmation is
// returned together with the view describing the warnings.
func (s *ScheduleService) Assign(ctx context.Context, scheduleID, entryID string, req AssignTeacherRequest) (*models.Schedule, *dto.AssignTeacherView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, validationError(err, "select a teacher")
	}
	schedule, entry, err := s.loadEntry(ctx, scheduleID, entryID)
	if err != nil {
		return nil, nil, err
	}
	view, err := s.buildAssignmentView(ctx, schedule, entry, req.TeacherID)
	if err != nil {
		return nil, nil, err
	}

	assignment := models.EntryAssignment{
		TeacherID: req.TeacherID,
		Day:       valueOr(req.Day, view.Form.Day),
		Time:      valueOr(req.Time, view.Form.Time),
		Room:      valueOr(req.Room, view.Form.Room),
	}
	if assignment.Day != view.Form.Day || assignment.Time != view.Form.Time || assignment.Room != view.Form.Room {
		view.Form.Day, view.Form.Time, view.Form.Room = assignment.Day, assignment.Time, assignment.Room
		view.Conflicts = nonNil(schedule.Conflicts(entryID, assignment.Day, assignment.Time))
		view.NeedsConfirmation = view.ClassFull || len(view.Conflicts) > 0
	}

	if view.NeedsConfirmation && !req.Confirm {
		return nil, view, appErrors.Clone(appErrors.ErrConfirmation, confirmationMessage(view))
	}
	if view.NeedsConfirmation {
		s.logger.Info("teacher assigned despite warnings",
			zap.String("schedule_id", scheduleID),
			zap.String("entry_id", entryID),
			zap.Bool("class_full", view.ClassFull),
			zap.Int("conflicts", len(view.Conflicts)),
		)
	}

	updated, err := s.repo.AssignTeacher(ctx, scheduleID, entryID, assignment)
	if err != nil {
		return nil, view, upstreamError(err, "schedule entry not found", "failed to assign teacher")
	}
	return updated, view, nil
}

// UpdateEntry submits an edited slot. When the backend reports a mismatch with the
// teacher's assignment the result carries it and the caller must resubmit with a mode.
// A mismatch reported after a mode was supplied is a conflict.
func (s *ScheduleService) UpdateEntry(ctx context.Context, scheduleID, entryID string, req EditEntryRequest) (*models.EntryUpdateResult, error) {
	req.Day = strings.TrimSpace(req.Day)
	req.Time = strings.TrimSpace(req.Time)
	req.Room = strings.TrimSpace(req.Room)
	if !req.Mode.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mode must be useTeacher or overrideTeacher")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "day, time and room are required")
	}

	result, err := s.repo.UpdateEntry(ctx, scheduleID, entryID, models.EntryUpdate{
		Day:  req.Day,
		Time: req.Time,
		Room: req.Room,
		Mode: req.Mode,
	})
	if err != nil {
		return nil, upstreamError(err, "schedule entry not found", "failed to update schedule entry")
	}
	if result.Mismatch != nil && req.Mode != "" {
		return nil, appErrors.Clone(appErrors.ErrConflict, "school API still reports a mismatch")
	}
	if result.Mismatch != nil {
		s.logger.Debug("schedule entry mismatch", zap.String("schedule_id", scheduleID), zap.String("entry_id", entryID))
	}
	return result, nil
}

// EditView builds the edit-entry form prefilled with the entry's slot.
func (s *ScheduleService) EditView(ctx context.Context, scheduleID, entryID string) (*dto.EntryEditView, error) {
	schedule, entry, err := s.loadEntry(ctx, scheduleID, entryID)
	if err != nil {
		return nil, err
	}
	return &dto.EntryEditView{ScheduleID: schedule.ID, Entry: entry, Day: entry.Day, Time: entry.Time, Room: entry.Room}, nil
}

func (s *ScheduleService) loadEntry(ctx context.Context, scheduleID, entryID string) (*models.Schedule, models.ScheduleEntry, error) {
	schedule, err := s.Get(ctx, scheduleID)
	if err != nil {
		return nil, models.ScheduleEntry{}, err
	}
	entry, ok := schedule.Entry(entryID)
	if !ok {
		return nil, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
	}
	return schedule, entry, nil
}

func confirmationMessage(view *dto.AssignTeacherView) string {
	var parts []string
	if view.ClassFull {
		parts = append(parts, "the class is full")
	}
	if len(view.Conflicts) > 0 {
		parts = append(parts, "the student already has a subject at this day and time")
	}
	return "please confirm: " + strings.Join(parts, " and ")
}

func valueOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
