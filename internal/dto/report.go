package dto

import (
	"time"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

// ExportRequest captures an export submission.
type ExportRequest struct {
	Kind       models.ReportKind   `form:"kind" json:"kind" validate:"required"`
	Format     models.ReportFormat `form:"format" json:"format" validate:"required,oneof=csv pdf"`
	AcadYear   string              `form:"acad_year" json:"acadYear"`
	Semester   string              `form:"semester" json:"semester"`
	Department string              `form:"department" json:"department"`
}

// Filter returns the report filter part of the request.
func (r ExportRequest) Filter() models.ReportFilter {
	return models.ReportFilter{AcadYear: r.AcadYear, Semester: r.Semester, Department: r.Department}
}

// ReportJobResponse is returned after enqueueing an export.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID          string              `json:"id"`
	Kind        models.ReportKind   `json:"kind"`
	Format      models.ReportFormat `json:"format"`
	Status      models.ReportStatus `json:"status"`
	Progress    int                 `json:"progress"`
	CreatedAt   time.Time           `json:"createdAt"`
	DownloadURL string              `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
	Error       string              `json:"error,omitempty"`
}
