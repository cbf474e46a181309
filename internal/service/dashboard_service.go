package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/dto"
	"github.com/noah-isme/sma-admin-console/internal/models"
)

const recentRecordsLimit = 5

type accountLister interface {
	List(ctx context.Context, filter models.AccountFilter) ([]models.Account, error)
}

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

type teacherLister interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
}

type subjectCatalog interface {
	All(ctx context.Context) ([]models.Subject, bool, error)
}

type recentRecords interface {
	Recent(ctx context.Context, n int) ([]models.DisciplinaryRecord, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Accounts     accountLister
	Students     studentLister
	Teachers     teacherLister
	Subjects     subjectCatalog
	Disciplinary recentRecords
	Cache        *CacheService
	Metrics      *MetricsService
	CacheTTL     time.Duration
	Logger       *zap.Logger
}

// DashboardService composes the landing page counters.
type DashboardService struct {
	accounts     accountLister
	students     studentLister
	teachers     teacherLister
	subjects     subjectCatalog
	disciplinary recentRecords
	cache        *CacheService
	metrics      *MetricsService
	ttl          time.Duration
	logger       *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DashboardService{
		accounts:     params.Accounts,
		students:     params.Students,
		teachers:     params.Teachers,
		subjects:     params.Subjects,
		disciplinary: params.Disciplinary,
		cache:        params.Cache,
		metrics:      params.Metrics,
		ttl:          ttl,
		logger:       logger,
	}
}

// Summary returns counts for user's dashboard. Admins also get a system metrics snapshot.
func (s *DashboardService) Summary(ctx context.Context, user *models.SessionUser) (*dto.DashboardResponse, error) {
	role := models.UserType("")
	if user != nil {
		role = user.UserType
	}
	summary, hit, err := remember(ctx, s.cache, "dashboard:"+string(role), s.ttl, s.build)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("dashboard summary", zap.Bool("cache_hit", hit))
	if user != nil && user.IsAdmin() && s.metrics != nil {
		snapshot := s.metrics.Snapshot()
		summary.System = &snapshot
	}
	return &summary, nil
}

func (s *DashboardService) build(ctx context.Context) (dto.DashboardResponse, error) {
	resp := dto.DashboardResponse{AccountsByType: make(map[models.UserType]int, len(models.UserTypes))}
	for _, t := range models.UserTypes {
		resp.AccountsByType[t] = 0
	}

	accounts, err := s.accounts.List(ctx, models.AccountFilter{})
	if err != nil {
		return resp, upstreamError(err, "", "failed to load accounts")
	}
	for _, account := range accounts {
		resp.AccountsByType[account.UserType]++
	}
	resp.TotalAccounts = len(accounts)

	students, err := s.students.List(ctx, models.StudentFilter{})
	if err != nil {
		return resp, upstreamError(err, "", "failed to load students")
	}
	resp.Students = len(students)

	teachers, err := s.teachers.List(ctx, models.TeacherFilter{})
	if err != nil {
		return resp, upstreamError(err, "", "failed to load teachers")
	}
	resp.Teachers = len(teachers)

	subjects, _, err := s.subjects.All(ctx)
	if err != nil {
		return resp, err
	}
	resp.Subjects = len(subjects)

	recent, err := s.disciplinary.Recent(ctx, recentRecordsLimit)
	if err != nil {
		return resp, err
	}
	resp.RecentRecords = nonNil(recent)
	return resp, nil
}
