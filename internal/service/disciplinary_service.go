package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

type disciplinaryRepository interface {
	List(ctx context.Context, filter models.DisciplinaryFilter) ([]models.DisciplinaryRecord, error)
	FindByID(ctx context.Context, id string) (*models.DisciplinaryRecord, error)
	Create(ctx context.Context, record *models.DisciplinaryRecord) error
	Update(ctx context.Context, record *models.DisciplinaryRecord) error
	Delete(ctx context.Context, id string) error
}

// DisciplinaryRequest captures record fields.
type DisciplinaryRequest struct {
	StudentNumber string `form:"student_number" json:"student_number" validate:"required"`
	TeacherID     string `form:"teacher_id" json:"teacher_id"`
	Violation     string `form:"violation" json:"violation" validate:"required"`
	Sanction      string `form:"sanction" json:"sanction"`
	Severity      int    `form:"severity" json:"severity" validate:"required,min=1,max=5"`
	Remarks       string `form:"remarks" json:"remarks"`
	Date          string `form:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// DisciplinaryService manages disciplinary records.
type DisciplinaryService struct {
	repo      disciplinaryRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewDisciplinaryService constructs the service.
func NewDisciplinaryService(repo disciplinaryRepository, validate *validator.Validate, logger *zap.Logger) *DisciplinaryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisciplinaryService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

var disciplinarySorts = map[string]func(a, b models.DisciplinaryRecord) bool{
	"date":           func(a, b models.DisciplinaryRecord) bool { return a.Date.Before(b.Date.Time) },
	"severity":       func(a, b models.DisciplinaryRecord) bool { return a.Severity < b.Severity },
	"student_number": func(a, b models.DisciplinaryRecord) bool { return a.StudentNumber < b.StudentNumber },
}

// List returns a filtered, sorted page of records. Newest first by default.
func (s *DisciplinaryService) List(ctx context.Context, filter models.DisciplinaryFilter) ([]models.DisciplinaryRecord, *models.Pagination, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, upstreamError(err, "", "failed to list disciplinary records")
	}
	records = filterItems(records, func(r models.DisciplinaryRecord) bool {
		if filter.StudentNumber != "" && r.StudentNumber != filter.StudentNumber {
			return false
		}
		if filter.MinSeverity > 0 && r.Severity < filter.MinSeverity {
			return false
		}
		return matchesSearch(filter.Search, r.StudentNumber, r.Violation, r.Sanction, r.Remarks)
	})
	if filter.SortBy == "" {
		filter.SortBy, filter.SortOrder = "date", "desc"
	}
	sortItems(records, filter.ListOptions, disciplinarySorts, "date")
	page, pagination := paginate(records, filter.ListOptions)
	return page, pagination, nil
}

// Recent returns the n newest records.
func (s *DisciplinaryService) Recent(ctx context.Context, n int) ([]models.DisciplinaryRecord, error) {
	records, _, err := s.List(ctx, models.DisciplinaryFilter{ListOptions: models.ListOptions{PageSize: n}})
	return records, err
}

// Get returns a record.
func (s *DisciplinaryService) Get(ctx context.Context, id string) (*models.DisciplinaryRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "disciplinary record not found", "failed to load disciplinary record")
	}
	return record, nil
}

// Create logs a violation.
func (s *DisciplinaryService) Create(ctx context.Context, req DisciplinaryRequest) (*models.DisciplinaryRecord, error) {
	record, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, upstreamError(err, "", "failed to create disciplinary record")
	}
	s.logger.Info("disciplinary record created", zap.String("student_number", record.StudentNumber), zap.Int("severity", record.Severity))
	return record, nil
}

// Update modifies a record.
func (s *DisciplinaryService) Update(ctx context.Context, id string, req DisciplinaryRequest) (*models.DisciplinaryRecord, error) {
	record, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	record.ID = id
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, upstreamError(err, "disciplinary record not found", "failed to update disciplinary record")
	}
	return record, nil
}

// Delete removes a record.
func (s *DisciplinaryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "disciplinary record not found", "failed to delete disciplinary record")
	}
	return nil
}

// Summary aggregates a student's records.
func (s *DisciplinaryService) Summary(ctx context.Context, studentNumber string) (*models.DisciplinarySummary, error) {
	records, err := s.repo.List(ctx, models.DisciplinaryFilter{StudentNumber: studentNumber})
	if err != nil {
		return nil, upstreamError(err, "", "failed to list disciplinary records")
	}
	summary := &models.DisciplinarySummary{StudentNumber: studentNumber}
	for _, r := range records {
		if r.StudentNumber != studentNumber {
			continue
		}
		summary.Count++
		if r.Severity > summary.MaxSeverity {
			summary.MaxSeverity = r.Severity
		}
		if r.Date.After(summary.LatestDate.Time) {
			summary.LatestDate = r.Date
		}
	}
	return summary, nil
}

func (s *DisciplinaryService) fromRequest(req DisciplinaryRequest) (*models.DisciplinaryRecord, error) {
	req.StudentNumber = strings.TrimSpace(req.StudentNumber)
	req.Date = strings.TrimSpace(req.Date)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "severity must be between 1 and 5")
	}
	date := models.NewDate(s.now())
	if req.Date != "" {
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			return nil, validationError(err, "invalid date")
		}
		date = parsed
	}
	return &models.DisciplinaryRecord{
		StudentNumber: req.StudentNumber,
		TeacherID:     strings.TrimSpace(req.TeacherID),
		Violation:     strings.TrimSpace(req.Violation),
		Sanction:      strings.TrimSpace(req.Sanction),
		Severity:      req.Severity,
		Remarks:       strings.TrimSpace(req.Remarks),
		Date:          date,
	}, nil
}
