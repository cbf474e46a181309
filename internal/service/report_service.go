package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/dto"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/repository"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/jobs"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListByCreator(ctx context.Context, createdBy string) ([]models.ReportJob, error)
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// ReportServiceConfig governs cleanup.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// ReportService fetches report tables and manages export jobs.
type ReportService struct {
	reports   reportFetcher
	repo      reportJobStore
	queue     jobDispatcher
	exporter  *ExportService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(reports reportFetcher, repo reportJobStore, queue jobDispatcher, exporter *ExportService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = time.Hour
	}
	return &ReportService{
		reports:   reports,
		repo:      repo,
		queue:     queue,
		exporter:  exporter,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Fetch returns a report table for display.
func (s *ReportService) Fetch(ctx context.Context, kind models.ReportKind, filter models.ReportFilter) (*models.ReportTable, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report")
	}
	table, err := s.reports.Fetch(ctx, kind, filter)
	if err != nil {
		return nil, upstreamError(err, "report not found", "failed to load report")
	}
	return table, nil
}

// CreateExport queues an export on behalf of user.
func (s *ReportService) CreateExport(ctx context.Context, req dto.ExportRequest, user *models.SessionUser) (*dto.ReportJobResponse, error) {
	if user == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "choose a report and a csv or pdf format")
	}
	if !req.Kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report")
	}
	job := &models.ReportJob{
		Kind:      req.Kind,
		Format:    req.Format,
		Filter:    req.Filter(),
		Status:    models.ReportStatusQueued,
		CreatedBy: user.ID,
		Token:     user.Token,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Kind)}); err != nil {
		failed := models.ReportStatusFailed
		msg := "failed to enqueue job"
		now := s.now().UTC()
		progress := 100
		_ = s.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &failed,
			Progress:     &progress,
			ErrorMessage: &msg,
			FinishedAt:   &now,
		})
		s.metrics.RecordExportJob(job.Kind, failed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	s.metrics.RecordExportJob(job.Kind, models.ReportStatusQueued)
	s.logger.Info("export queued", zap.String("job_id", job.ID), zap.String("kind", string(job.Kind)), zap.String("format", string(job.Format)))
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus returns job metadata. Only the creator or an admin may see a job.
func (s *ReportService) GetStatus(ctx context.Context, id string, user *models.SessionUser) (*dto.ReportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "export job not found", "failed to load export job")
	}
	if user == nil || (job.CreatedBy != user.ID && !user.IsAdmin()) {
		return nil, appErrors.ErrForbidden
	}
	return s.statusResponse(*job), nil
}

// ListJobs returns the user's jobs, newest first.
func (s *ReportService) ListJobs(ctx context.Context, user *models.SessionUser) ([]dto.ReportStatusResponse, error) {
	if user == nil {
		return nil, appErrors.ErrUnauthorized
	}
	list, err := s.repo.ListByCreator(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list export jobs")
	}
	out := make([]dto.ReportStatusResponse, 0, len(list))
	for _, job := range list {
		out = append(out, *s.statusResponse(job))
	}
	return out, nil
}

// ResolveDownload validates token and opens the stored export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, upstreamError(err, "export no longer available", "failed to load export job")
	}
	if job.DownloadToken != token {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "download link does not match export")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export no longer available")
	}
	return &ReportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// StartCleanup runs a goroutine that purges expired exports until ctx is done.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

// CleanupExpired drops jobs finished more than ResultTTL ago and deletes their files.
func (s *ReportService) CleanupExpired(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	expired, err := s.repo.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("export cleanup list failed", zap.Error(err))
		return
	}
	for _, job := range expired {
		if job.ResultPath == "" {
			continue
		}
		if err := s.exporter.Delete(job.ResultPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("export cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("export filesystem cleanup failed", zap.Error(err))
	}
}

func (s *ReportService) statusResponse(job models.ReportJob) *dto.ReportStatusResponse {
	resp := &dto.ReportStatusResponse{
		ID:        job.ID,
		Kind:      job.Kind,
		Format:    job.Format,
		Status:    job.Status,
		Progress:  job.Progress,
		CreatedAt: job.CreatedAt,
		ExpiresAt: job.ExpiresAt,
		Error:     job.ErrorMessage,
	}
	if job.Status == models.ReportStatusFinished && job.DownloadToken != "" {
		resp.DownloadURL = s.exporter.DownloadURL(job.DownloadToken)
	}
	return resp
}

// ReportWorker bridges queue jobs to ExportService.
type ReportWorker struct {
	repo       reportJobStore
	exporter   exportGenerator
	metrics    *MetricsService
	logger     *zap.Logger
	maxRetries int
}

// NewReportWorker constructs a worker. maxRetries must match the queue's.
func NewReportWorker(repo reportJobStore, exporter exportGenerator, metrics *MetricsService, maxRetries int, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ReportWorker{
		repo:       repo,
		exporter:   exporter,
		metrics:    metrics,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// Handle processes a queue job using the creator's access token.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ReportStatusProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:   &processing,
		Progress: &progress,
	}); err != nil {
		return err
	}

	result, err := w.exporter.Generate(apiclient.WithToken(ctx, record.Token), record)
	if err != nil {
		msg := err.Error()
		if job.Attempt >= w.maxRetries {
			failed := models.ReportStatusFailed
			progress = 100
			now := time.Now().UTC()
			if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
				Status:       &failed,
				Progress:     &progress,
				ErrorMessage: &msg,
				FinishedAt:   &now,
			}); updateErr != nil {
				w.logger.Warn("failed to mark export failed", zap.String("job_id", job.ID), zap.Error(updateErr))
			}
			w.metrics.RecordExportJob(record.Kind, failed)
		} else {
			queued := models.ReportStatusQueued
			reset := 0
			if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
				Status:       &queued,
				Progress:     &reset,
				ErrorMessage: &msg,
			}); updateErr != nil {
				w.logger.Warn("failed to requeue export", zap.String("job_id", job.ID), zap.Error(updateErr))
			}
		}
		return err
	}

	finished := models.ReportStatusFinished
	progress = 100
	now := time.Now().UTC()
	cleared := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:        &finished,
		Progress:      &progress,
		ResultPath:    &result.RelativePath,
		DownloadToken: &result.Token,
		ExpiresAt:     &result.ExpiresAt,
		ErrorMessage:  &cleared,
		FinishedAt:    &now,
	}); err != nil {
		w.logger.Warn("failed to mark export finished", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}
	w.metrics.RecordExportJob(record.Kind, finished)
	return nil
}
