package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

const subjectCacheKey = "subjects:all"

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// SubjectRequest captures subject fields.
type SubjectRequest struct {
	Code        string `form:"code" json:"code" validate:"required"`
	SubjectName string `form:"subject_name" json:"subject_name" validate:"required"`
	Units       int    `form:"units" json:"units" validate:"min=0,max=10"`
	Department  string `form:"department" json:"department" validate:"required"`
	YearLevel   int    `form:"year_level" json:"year_level" validate:"min=0,max=6"`
	Semester    string `form:"semester" json:"semester" validate:"required"`
}

// SubjectService handles subjects. The full subject list is read through the cache and
// every write invalidates it.
type SubjectService struct {
	repo      subjectRepository
	cache     *CacheService
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, cache *CacheService, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, cache: cache, ttl: ttl, validator: validate, logger: logger}
}

var subjectSorts = map[string]func(a, b models.Subject) bool{
	"code":         func(a, b models.Subject) bool { return a.Code < b.Code },
	"subject_name": func(a, b models.Subject) bool { return lessFold(a.SubjectName, b.SubjectName) },
	"units":        func(a, b models.Subject) bool { return a.Units < b.Units },
	"department":   func(a, b models.Subject) bool { return lessFold(a.Department, b.Department) },
	"year_level":   func(a, b models.Subject) bool { return a.YearLevel < b.YearLevel },
}

// All returns every subject sorted by code. The boolean reports a cache hit.
func (s *SubjectService) All(ctx context.Context) ([]models.Subject, bool, error) {
	subjects, hit, err := remember(ctx, s.cache, subjectCacheKey, s.ttl, func(ctx context.Context) ([]models.Subject, error) {
		subjects, err := s.repo.List(ctx, models.SubjectFilter{})
		if err != nil {
			return nil, err
		}
		sortItems(subjects, models.ListOptions{}, subjectSorts, "code")
		return subjects, nil
	})
	if err != nil {
		return nil, false, upstreamError(err, "", "failed to list subjects")
	}
	return subjects, hit, nil
}

// List filters, sorts and paginates the cached subject list.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	all, _, err := s.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	subjects := filterItems(all, func(sub models.Subject) bool {
		if filter.Department != "" && !strings.EqualFold(sub.Department, filter.Department) {
			return false
		}
		if filter.YearLevel > 0 && sub.YearLevel != filter.YearLevel {
			return false
		}
		if filter.Semester != "" && !strings.EqualFold(sub.Semester, filter.Semester) {
			return false
		}
		return matchesSearch(filter.Search, sub.Code, sub.SubjectName)
	})
	sortItems(subjects, filter.ListOptions, subjectSorts, "code")
	page, pagination := paginate(subjects, filter.ListOptions)
	return page, pagination, nil
}

// Lookup indexes the cached subjects by id.
func (s *SubjectService) Lookup(ctx context.Context) (map[string]models.Subject, error) {
	all, _, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.Subject, len(all))
	for _, sub := range all {
		index[sub.ID] = sub
	}
	return index, nil
}

// Get returns subject by identifier.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "subject not found", "failed to load subject")
	}
	return subject, nil
}

// Create adds a subject, rejecting duplicate codes found in the cached list.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	subject, err := s.fromRequest(ctx, "", req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, upstreamError(err, "", "failed to create subject")
	}
	s.cache.Invalidate(ctx, subjectCacheKey)
	return subject, nil
}

// Update modifies an existing subject.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	subject, err := s.fromRequest(ctx, id, req)
	if err != nil {
		return nil, err
	}
	subject.ID = id
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, upstreamError(err, "subject not found", "failed to update subject")
	}
	s.cache.Invalidate(ctx, subjectCacheKey)
	return subject, nil
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "subject not found", "failed to delete subject")
	}
	s.cache.Invalidate(ctx, subjectCacheKey)
	return nil
}

func (s *SubjectService) fromRequest(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid subject payload")
	}
	all, _, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range all {
		if existing.ID != id && strings.EqualFold(existing.Code, req.Code) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject code already exists")
		}
	}
	return &models.Subject{
		Code:        req.Code,
		SubjectName: strings.TrimSpace(req.SubjectName),
		Units:       req.Units,
		Department:  strings.TrimSpace(req.Department),
		YearLevel:   req.YearLevel,
		Semester:    strings.TrimSpace(req.Semester),
	}, nil
}
