package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/export"
	"github.com/noah-isme/sma-admin-console/pkg/storage"
)

type reportFetcher interface {
	Fetch(ctx context.Context, kind models.ReportKind, filter models.ReportFilter) (*models.ReportTable, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	DownloadPrefix string
	ResultTTL      time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders report tables to files and signs download tokens.
type ExportService struct {
	reports reportFetcher
	storage fileStorage
	csv     datasetRenderer
	pdf     datasetRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers default to the pkg/export ones.
func NewExportService(reports reportFetcher, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = time.Hour
	}
	if cfg.DownloadPrefix == "" {
		cfg.DownloadPrefix = "/reports/download"
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		reports: reports,
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Generate fetches the report for job, renders it and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	table, err := s.reports.Fetch(ctx, job.Kind, job.Filter)
	if err != nil {
		return nil, err
	}
	dataset := datasetFromTable(table, job)

	var payload []byte
	switch job.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		_ = s.storage.Delete(relPath)
		return nil, err
	}
	s.logger.Debug("export stored", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("rows", len(dataset.Rows)))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          s.DownloadURL(token),
		Format:       job.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// DownloadURL builds the console link for token.
func (s *ExportService) DownloadURL(token string) string {
	return strings.TrimRight(s.cfg.DownloadPrefix, "/") + "/" + token
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, or the configured ResultTTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// ContentType returns the MIME type of format.
func ContentType(format models.ReportFormat) string {
	if format == models.ReportFormatPDF {
		return export.NewPDFExporter().ContentType()
	}
	return export.NewCSVExporter().ContentType()
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	parts := []string{string(job.Kind)}
	for _, part := range []string{job.Filter.AcadYear, job.Filter.Semester, job.Filter.Department} {
		if part != "" {
			parts = append(parts, sanitizeFilename(part))
		}
	}
	parts = append(parts, s.now().UTC().Format("20060102_150405"), shortID(job.ID))
	return strings.Join(parts, "_") + "." + string(job.Format)
}

func datasetFromTable(table *models.ReportTable, job *models.ReportJob) export.Dataset {
	title := table.Title
	if title == "" {
		title = reportTitle(job.Kind)
	}
	if scope := filterLabel(job.Filter); scope != "" {
		title += " (" + scope + ")"
	}
	headers := uniqueHeaders(table.Columns)
	if len(headers) == 0 {
		headers = []string{"No data"}
	}
	rows := make([]map[string]string, 0, len(table.Rows))
	for _, cells := range table.Rows {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(cells) {
				row[header] = cells[i]
			}
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: title, Headers: headers, Rows: rows}
}

// uniqueHeaders suffixes repeated column names so each maps to its own cell.
func uniqueHeaders(columns []string) []string {
	seen := make(map[string]int, len(columns))
	out := make([]string, len(columns))
	for i, col := range columns {
		seen[col]++
		if n := seen[col]; n > 1 {
			col = fmt.Sprintf("%s (%d)", col, n)
		}
		out[i] = col
	}
	return out
}

func reportTitle(kind models.ReportKind) string {
	words := strings.Split(string(kind), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ") + " Report"
}

func filterLabel(filter models.ReportFilter) string {
	var parts []string
	if filter.AcadYear != "" {
		parts = append(parts, "AY "+filter.AcadYear)
	}
	if filter.Semester != "" {
		parts = append(parts, "Sem "+filter.Semester)
	}
	if filter.Department != "" {
		parts = append(parts, filter.Department)
	}
	return strings.Join(parts, ", ")
}

func sanitizeFilename(raw string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 50 {
		return result[:50]
	}
	return result
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "job"
	}
	return id
}
