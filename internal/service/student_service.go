package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentRequest captures the editable fields of a student.
type StudentRequest struct {
	StudentNumber string `form:"student_number" json:"student_number" validate:"required"`
	Department    string `form:"department" json:"department" validate:"required"`
	YearLevel     int    `form:"year_level" json:"year_level" validate:"required,min=1,max=6"`
	Course        string `form:"course" json:"course" validate:"required"`
	AccountID     string `form:"account_id" json:"account_id" validate:"required"`
}

// StudentService handles student records.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

var studentSorts = map[string]func(a, b models.Student) bool{
	"student_number": func(a, b models.Student) bool { return a.StudentNumber < b.StudentNumber },
	"name":           func(a, b models.Student) bool { return lessFold(a.DisplayName(), b.DisplayName()) },
	"department":     func(a, b models.Student) bool { return lessFold(a.Department, b.Department) },
	"year_level":     func(a, b models.Student) bool { return a.YearLevel < b.YearLevel },
	"course":         func(a, b models.Student) bool { return lessFold(a.Course, b.Course) },
}

// List returns a filtered, sorted page of students.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, upstreamError(err, "", "failed to list students")
	}
	students = filterItems(students, func(st models.Student) bool {
		if filter.Department != "" && !strings.EqualFold(st.Department, filter.Department) {
			return false
		}
		if filter.YearLevel > 0 && st.YearLevel != filter.YearLevel {
			return false
		}
		if filter.Course != "" && !strings.EqualFold(st.Course, filter.Course) {
			return false
		}
		return matchesSearch(filter.Search, st.StudentNumber, st.DisplayName(), st.Course)
	})
	sortItems(students, filter.ListOptions, studentSorts, "student_number")
	page, pagination := paginate(students, filter.ListOptions)
	return page, pagination, nil
}

// All returns every student, unpaginated, for pickers.
func (s *StudentService) All(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx, models.StudentFilter{})
	if err != nil {
		return nil, upstreamError(err, "", "failed to list students")
	}
	sortItems(students, models.ListOptions{}, studentSorts, "student_number")
	return students, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Create adds a student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	student, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, upstreamError(err, "", "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("student_number", student.StudentNumber))
	return student, nil
}

// Update modifies a student.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	student, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	student.ID = id
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, upstreamError(err, "student not found", "failed to update student")
	}
	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "student not found", "failed to delete student")
	}
	return nil
}

func (s *StudentService) fromRequest(req StudentRequest) (*models.Student, error) {
	req.StudentNumber = strings.TrimSpace(req.StudentNumber)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	return &models.Student{
		StudentNumber: req.StudentNumber,
		Department:    strings.TrimSpace(req.Department),
		YearLevel:     req.YearLevel,
		Course:        strings.TrimSpace(req.Course),
		Account:       models.RefTo[models.Account](req.AccountID),
	}, nil
}

