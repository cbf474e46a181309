package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/export"
	"github.com/noah-isme/sma-admin-console/pkg/storage"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) {
	return nil, errors.New("render failed")
}

func newExportFixture(t *testing.T, csv datasetRenderer) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	fetcher := &fakeReportFetcher{table: &models.ReportTable{
		Columns: []string{"Teacher", "Subject", "Subject"},
		Rows:    [][]string{{"Budi", "MATH101", "ENG101"}, {"Sari"}},
	}}
	svc := NewExportService(fetcher, store, storage.NewSignedURLSigner("secret", time.Hour), ExportConfig{DownloadPrefix: "/reports/download/"}, zap.NewNop(), csv, nil)
	return svc, dir
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, _ := newExportFixture(t, nil)
	job := &models.ReportJob{ID: "0f7c2a9e-1111", Kind: models.ReportKindTeacherLoad, Format: models.ReportFormatPDF, Filter: models.ReportFilter{AcadYear: "2024/2025"}}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, models.ReportFormatPDF, result.Format)
	assert.Contains(t, result.RelativePath, "teacher-load_2024-2025_")
	assert.Contains(t, result.RelativePath, "0f7c2a9e.pdf")
	assert.Equal(t, "/reports/download/"+result.Token, result.URL)

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, job.ID, jobID)
	assert.Equal(t, result.RelativePath, relPath)

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	defer file.Close()
	head := make([]byte, 4)
	_, err = io.ReadFull(file, head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(head))
}

func TestExportServiceRenderFailureStoresNothing(t *testing.T) {
	svc, dir := newExportFixture(t, failingRenderer{})
	job := &models.ReportJob{ID: "job-1", Kind: models.ReportKindGrades, Format: models.ReportFormatCSV}

	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	job.Format = "xlsx"
	_, err = svc.Generate(context.Background(), job)
	assert.Error(t, err)
}

func TestExportServiceCleanup(t *testing.T) {
	svc, dir := newExportFixture(t, nil)
	result, err := svc.Generate(context.Background(), &models.ReportJob{ID: "job-2", Kind: models.ReportKindGrades, Format: models.ReportFormatCSV})
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, result.RelativePath), old, old))

	removed, err := svc.Cleanup(0)
	require.NoError(t, err)
	assert.Equal(t, []string{result.RelativePath}, removed)
}

func TestDatasetFromTable(t *testing.T) {
	table := &models.ReportTable{
		Columns: []string{"Teacher", "Subject", "Subject"},
		Rows:    [][]string{{"Budi", "MATH101", "ENG101"}, {"Sari"}},
	}
	job := &models.ReportJob{Kind: models.ReportKindTeacherLoad, Filter: models.ReportFilter{AcadYear: "2024-2025", Semester: "1st", Department: "CS"}}

	dataset := datasetFromTable(table, job)
	assert.Equal(t, "Teacher Load Report (AY 2024-2025, Sem 1st, CS)", dataset.Title)
	assert.Equal(t, []string{"Teacher", "Subject", "Subject (2)"}, dataset.Headers)
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "ENG101", dataset.Rows[0]["Subject (2)"])
	assert.Equal(t, "", dataset.Rows[1]["Subject"])

	empty := datasetFromTable(&models.ReportTable{Title: "Enrollment"}, &models.ReportJob{Kind: models.ReportKindEnrollment})
	assert.Equal(t, "Enrollment", empty.Title)
	assert.Equal(t, []string{"No data"}, empty.Headers)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType(models.ReportFormatPDF))
	assert.Contains(t, ContentType(models.ReportFormatCSV), "text/csv")
}
