package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	FindByID(ctx context.Context, id string) (*models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id string) error
}

// GradeRequest captures grade fields. GradedDate is YYYY-MM-DD and defaults to today.
type GradeRequest struct {
	StudentID  string   `form:"student_id" json:"student_id" validate:"required"`
	SubjectID  string   `form:"subject_id" json:"subject_id" validate:"required"`
	TeacherID  string   `form:"teacher_id" json:"teacher_id"`
	Percent    *float64 `form:"percent" json:"percent" validate:"required,min=0,max=100"`
	GradedDate string   `form:"graded_date" json:"graded_date" validate:"omitempty,datetime=2006-01-02"`
}

// GradeService manages grades and computes GPA summaries.
type GradeService struct {
	repo      gradeRepository
	subjects  subjectLookup
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGradeService constructs the service.
func NewGradeService(repo gradeRepository, subjects subjectLookup, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, subjects: subjects, validator: validate, logger: logger, now: time.Now}
}

var gradeSorts = map[string]func(a, b models.Grade) bool{
	"percent":     func(a, b models.Grade) bool { return a.Percent < b.Percent },
	"graded_date": func(a, b models.Grade) bool { return a.GradedDate.Before(b.GradedDate.Time) },
	"subject":     func(a, b models.Grade) bool { return a.Subject.ID < b.Subject.ID },
}

// List returns a filtered, sorted page of grades.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, *models.Pagination, error) {
	grades, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, upstreamError(err, "", "failed to list grades")
	}
	grades = filterItems(grades, func(g models.Grade) bool {
		if filter.StudentID != "" && g.Student.ID != filter.StudentID {
			return false
		}
		if filter.SubjectID != "" && g.Subject.ID != filter.SubjectID {
			return false
		}
		return filter.TeacherID == "" || g.Teacher.ID == filter.TeacherID
	})
	if filter.SortBy == "" {
		filter.SortBy, filter.SortOrder = "graded_date", "desc"
	}
	sortItems(grades, filter.ListOptions, gradeSorts, "graded_date")
	page, pagination := paginate(grades, filter.ListOptions)
	return page, pagination, nil
}

// Get returns a grade.
func (s *GradeService) Get(ctx context.Context, id string) (*models.Grade, error) {
	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "grade not found", "failed to load grade")
	}
	return grade, nil
}

// Create records a grade.
func (s *GradeService) Create(ctx context.Context, req GradeRequest) (*models.Grade, error) {
	grade, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, upstreamError(err, "", "failed to create grade")
	}
	return grade, nil
}

// Update modifies a grade.
func (s *GradeService) Update(ctx context.Context, id string, req GradeRequest) (*models.Grade, error) {
	grade, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	grade.ID = id
	if err := s.repo.Update(ctx, grade); err != nil {
		return nil, upstreamError(err, "grade not found", "failed to update grade")
	}
	return grade, nil
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "grade not found", "failed to delete grade")
	}
	return nil
}

// Summary computes a student's GWA: the unit-weighted mean of grade points. Subjects
// with unknown or zero units weigh 1.
func (s *GradeService) Summary(ctx context.Context, studentID string) (*models.GradeSummary, error) {
	grades, err := s.repo.List(ctx, models.GradeFilter{StudentID: studentID})
	if err != nil {
		return nil, upstreamError(err, "", "failed to list grades")
	}
	var subjects map[string]models.Subject
	if s.subjects != nil {
		if subjects, err = s.subjects.Lookup(ctx); err != nil {
			s.logger.Warn("subject lookup failed, weighting grades equally", zap.Error(err))
		}
	}

	summary := &models.GradeSummary{StudentID: studentID, Lines: make([]models.GradeLine, 0, len(grades))}
	var weightedPoints, totalPercent float64
	var totalWeight int
	for _, g := range grades {
		if g.Student.ID != "" && g.Student.ID != studentID {
			continue
		}
		subject := subjects[g.Subject.ID]
		if g.Subject.Value != nil {
			subject = *g.Subject.Value
		}
		line := models.GradeLine{
			GradeID:     g.ID,
			SubjectID:   g.Subject.ID,
			SubjectCode: subject.Code,
			SubjectName: subject.SubjectName,
			Units:       subject.Units,
			Percent:     g.Percent,
			GradePoint:  GradePoint(g.Percent),
			Passed:      g.Passed(),
		}
		weight := line.Units
		if weight <= 0 {
			weight = 1
		}
		weightedPoints += line.GradePoint * float64(weight)
		totalWeight += weight
		totalPercent += g.Percent
		summary.TotalUnits += line.Units
		if line.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Lines = append(summary.Lines, line)
	}
	sortItems(summary.Lines, models.ListOptions{}, map[string]func(a, b models.GradeLine) bool{
		"code": func(a, b models.GradeLine) bool { return a.SubjectCode < b.SubjectCode },
	}, "code")

	if totalWeight > 0 {
		summary.GWA = round2(weightedPoints / float64(totalWeight))
		summary.AveragePercent = round2(totalPercent / float64(len(summary.Lines)))
	}
	return summary, nil
}

// GradePoint converts a percent to the 1.00 (highest) to 5.00 (failed) scale.
func GradePoint(percent float64) float64 {
	switch {
	case percent >= 97:
		return 1.00
	case percent >= 94:
		return 1.25
	case percent >= 91:
		return 1.50
	case percent >= 88:
		return 1.75
	case percent >= 85:
		return 2.00
	case percent >= 82:
		return 2.25
	case percent >= 79:
		return 2.50
	case percent >= 76:
		return 2.75
	case percent >= models.PassingPercent:
		return 3.00
	default:
		return 5.00
	}
}

func (s *GradeService) fromRequest(req GradeRequest) (*models.Grade, error) {
	req.GradedDate = strings.TrimSpace(req.GradedDate)
	if req.Percent == nil {
		return nil, validationError(s.validator.Struct(req), "percent is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "percent must be between 0 and 100")
	}
	graded := models.NewDate(s.now())
	if req.GradedDate != "" {
		parsed, err := models.ParseDate(req.GradedDate)
		if err != nil {
			return nil, validationError(err, "invalid graded date")
		}
		graded = parsed
	}
	return &models.Grade{
		Student:    models.RefTo[models.Student](req.StudentID),
		Subject:    models.RefTo[models.Subject](req.SubjectID),
		Teacher:    models.RefTo[models.Teacher](req.TeacherID),
		Percent:    *req.Percent,
		GradedDate: graded,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
