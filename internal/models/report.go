package models

import "time"

// ReportKind enumerates the backend report endpoints.
type ReportKind string

const (
	ReportKindGrades       ReportKind = "grades"
	ReportKindDisciplinary ReportKind = "disciplinary"
	ReportKindEnrollment   ReportKind = "enrollment"
	ReportKindTeacherLoad  ReportKind = "teacher-load"
)

// ReportKinds lists the kinds in menu order.
var ReportKinds = []ReportKind{ReportKindGrades, ReportKindDisciplinary, ReportKindEnrollment, ReportKindTeacherLoad}

// Valid reports whether k is a known report.
func (k ReportKind) Valid() bool {
	for _, known := range ReportKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ReportFilter scopes a report.
type ReportFilter struct {
	AcadYear   string `json:"acad_year,omitempty" form:"acad_year"`
	Semester   string `json:"semester,omitempty" form:"semester"`
	Department string `json:"department,omitempty" form:"department"`
}

// ReportTable is a report as returned by the backend: column names and string rows.
type ReportTable struct {
	Kind    ReportKind `json:"kind"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportStatus captures background job lifecycle states.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "QUEUED"
	ReportStatusProcessing ReportStatus = "PROCESSING"
	ReportStatusFinished   ReportStatus = "FINISHED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// ReportJob is export job metadata held in memory while the file is available.
type ReportJob struct {
	ID            string       `json:"id"`
	Kind          ReportKind   `json:"kind"`
	Format        ReportFormat `json:"format"`
	Filter        ReportFilter `json:"filter"`
	Status        ReportStatus `json:"status"`
	Progress      int          `json:"progress"`
	ResultPath    string       `json:"-"`
	DownloadToken string       `json:"-"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	CreatedBy     string       `json:"created_by"`
	CreatedAt     time.Time    `json:"created_at"`
	FinishedAt    *time.Time   `json:"finished_at,omitempty"`
	ErrorMessage  string       `json:"error_message,omitempty"`
	// Token is the requesting user's access token, used by the worker.
	Token string `json:"-"`
}
