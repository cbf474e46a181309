package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
	AddSubject(ctx context.Context, teacherID string, assignment models.TeacherAssignment) (*models.Teacher, error)
	RemoveSubject(ctx context.Context, teacherID, subjectID string) error
}

// TeacherRequest captures the editable fields of a teacher. Departments is a comma
// separated list in forms.
type TeacherRequest struct {
	TeacherUID  string `form:"teacher_uid" json:"teacher_uid" validate:"required"`
	AccountID   string `form:"account_id" json:"account_id" validate:"required"`
	Departments string `form:"departments" json:"departments"`
}

// AssignSubjectRequest attaches a subject with its official meeting slot.
type AssignSubjectRequest struct {
	SubjectID string `form:"subject_id" json:"subject_id" validate:"required"`
	Day       string `form:"day" json:"day" validate:"required"`
	Time      string `form:"time" json:"time" validate:"required"`
	Room      string `form:"room" json:"room" validate:"required"`
	Slots     int    `form:"slots" json:"slots" validate:"required,min=1"`
}

// TeacherService manages teachers and their subject assignments.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the service.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

var teacherSorts = map[string]func(a, b models.Teacher) bool{
	"teacher_uid": func(a, b models.Teacher) bool { return a.TeacherUID < b.TeacherUID },
	"name":        func(a, b models.Teacher) bool { return lessFold(a.DisplayName(), b.DisplayName()) },
	"subjects":    func(a, b models.Teacher) bool { return len(a.Subjects) < len(b.Subjects) },
}

// List returns a filtered, sorted page of teachers.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, upstreamError(err, "", "failed to list teachers")
	}
	teachers = filterItems(teachers, func(t models.Teacher) bool {
		if filter.Department != "" && !t.InDepartment(filter.Department) {
			return false
		}
		if filter.SubjectID != "" {
			if _, ok := t.AssignmentFor(filter.SubjectID); !ok {
				return false
			}
		}
		return matchesSearch(filter.Search, t.TeacherUID, t.DisplayName(), strings.Join(t.Departments, " "))
	})
	sortItems(teachers, filter.ListOptions, teacherSorts, "name")
	page, pagination := paginate(teachers, filter.ListOptions)
	return page, pagination, nil
}

// All returns every teacher, unpaginated, for pickers.
func (s *TeacherService) All(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.repo.List(ctx, models.TeacherFilter{})
	if err != nil {
		return nil, upstreamError(err, "", "failed to list teachers")
	}
	sortItems(teachers, models.ListOptions{}, teacherSorts, "name")
	return teachers, nil
}

// ForSubject returns every teacher whose assignments include the subject.
func (s *TeacherService) ForSubject(ctx context.Context, subjectID string) ([]models.Teacher, error) {
	teachers, err := s.repo.List(ctx, models.TeacherFilter{SubjectID: subjectID})
	if err != nil {
		return nil, upstreamError(err, "", "failed to list teachers")
	}
	teachers = filterItems(teachers, func(t models.Teacher) bool {
		_, ok := t.AssignmentFor(subjectID)
		return ok
	})
	sortItems(teachers, models.ListOptions{}, teacherSorts, "name")
	return teachers, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "teacher not found", "failed to load teacher")
	}
	return teacher, nil
}

// Create adds a teacher.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	teacher := &models.Teacher{
		TeacherUID:  strings.TrimSpace(req.TeacherUID),
		Account:     models.RefTo[models.Account](req.AccountID),
		Departments: splitList(req.Departments),
		Subjects:    []models.TeacherAssignment{},
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, upstreamError(err, "", "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.String("teacher_id", teacher.ID))
	return teacher, nil
}

// Update modifies a teacher's identity and departments. Assignments are untouched.
func (s *TeacherService) Update(ctx context.Context, id string, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher.TeacherUID = strings.TrimSpace(req.TeacherUID)
	teacher.Account = models.RefTo[models.Account](req.AccountID)
	teacher.Departments = splitList(req.Departments)
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, upstreamError(err, "teacher not found", "failed to update teacher")
	}
	return teacher, nil
}

// Delete removes a teacher.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "teacher not found", "failed to delete teacher")
	}
	return nil
}

// AssignSubject attaches a subject. A teacher handles each subject at most once.
func (s *TeacherService) AssignSubject(ctx context.Context, teacherID string, req AssignSubjectRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid subject assignment")
	}
	teacher, err := s.Get(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if _, exists := teacher.AssignmentFor(req.SubjectID); exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher already handles this subject")
	}
	updated, err := s.repo.AddSubject(ctx, teacherID, models.TeacherAssignment{
		Subject: models.RefTo[models.Subject](req.SubjectID),
		Day:     strings.TrimSpace(req.Day),
		Time:    strings.TrimSpace(req.Time),
		Room:    strings.TrimSpace(req.Room),
		Slots:   req.Slots,
	})
	if err != nil {
		return nil, upstreamError(err, "teacher not found", "failed to assign subject")
	}
	return updated, nil
}

// UnassignSubject detaches a subject.
func (s *TeacherService) UnassignSubject(ctx context.Context, teacherID, subjectID string) error {
	if err := s.repo.RemoveSubject(ctx, teacherID, subjectID); err != nil {
		return upstreamError(err, "assignment not found", "failed to remove subject")
	}
	return nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
