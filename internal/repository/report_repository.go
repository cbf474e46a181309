package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// ReportRepository keeps export job metadata in memory. Jobs live only as long as
// their files, so they are not persisted across restarts.
type ReportRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.ReportJob
}

// NewReportRepository constructs the repository.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{jobs: make(map[string]models.ReportJob)}
}

// Create stores a new job with generated defaults.
func (r *ReportRepository) Create(_ context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ReportStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

// GetByID returns a copy of a job.
func (r *ReportRepository) GetByID(_ context.Context, id string) (*models.ReportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	return &job, nil
}

// UpdateReportJobParams defines the mutable fields.
type UpdateReportJobParams struct {
	Status        *models.ReportStatus
	Progress      *int
	ResultPath    *string
	DownloadToken *string
	ExpiresAt     *time.Time
	ErrorMessage  *string
	FinishedAt    *time.Time
}

// Update applies the provided changes to a job.
func (r *ReportRepository) Update(_ context.Context, id string, params UpdateReportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultPath != nil {
		job.ResultPath = *params.ResultPath
	}
	if params.DownloadToken != nil {
		job.DownloadToken = *params.DownloadToken
	}
	if params.ExpiresAt != nil {
		expires := *params.ExpiresAt
		job.ExpiresAt = &expires
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = *params.ErrorMessage
	}
	if params.FinishedAt != nil {
		finished := *params.FinishedAt
		job.FinishedAt = &finished
	}
	r.jobs[id] = job
	return nil
}

// ListByCreator returns a user's jobs, newest first.
func (r *ReportRepository) ListByCreator(_ context.Context, createdBy string) ([]models.ReportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ReportJob, 0)
	for _, job := range r.jobs {
		if job.CreatedBy == createdBy {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteFinishedBefore drops finished or failed jobs older than cutoff and returns them.
func (r *ReportRepository) DeleteFinishedBefore(_ context.Context, cutoff time.Time) ([]models.ReportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []models.ReportJob
	for id, job := range r.jobs {
		if job.FinishedAt == nil || !job.FinishedAt.Before(cutoff) {
			continue
		}
		removed = append(removed, job)
		delete(r.jobs, id)
	}
	return removed, nil
}
