package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

func TestReportRepositoryLifecycle(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()

	job := &models.ReportJob{Kind: models.ReportKindGrades, Format: models.ReportFormatCSV, CreatedBy: "u1"}
	require.NoError(t, repo.Create(ctx, job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ReportStatusQueued, job.Status)

	status := models.ReportStatusFinished
	path := "grades.csv"
	finished := time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Update(ctx, job.ID, UpdateReportJobParams{Status: &status, ResultPath: &path, FinishedAt: &finished}))

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, stored.Status)
	assert.Equal(t, "grades.csv", stored.ResultPath)

	mine, err := repo.ListByCreator(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	removed, err := repo.DeleteFinishedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	_, err = repo.GetByID(ctx, job.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestReportRepositoryKeepsUnfinishedJobs(t *testing.T) {
	repo := NewReportRepository()
	require.NoError(t, repo.Create(context.Background(), &models.ReportJob{ID: "queued"}))
	removed, err := repo.DeleteFinishedBefore(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestReportDataRepositoryTableShape(t *testing.T) {
	client, req := newUpstream(t, http.StatusOK, `{"title":"Teacher load","columns":["Teacher","Units"],"rows":[["Ana",12],["Ben",null]]}`)
	table, err := NewReportDataRepository(client).Fetch(context.Background(), models.ReportKindTeacherLoad, models.ReportFilter{Semester: "1st"})
	require.NoError(t, err)
	assert.Equal(t, "/reports/teacher-load", req.Path)
	assert.Equal(t, "semester=1st", req.Query)
	assert.Equal(t, models.ReportKindTeacherLoad, table.Kind)
	assert.Equal(t, []string{"Teacher", "Units"}, table.Columns)
	assert.Equal(t, [][]string{{"Ana", "12"}, {"Ben", ""}}, table.Rows)
}

func TestReportDataRepositoryRecordShape(t *testing.T) {
	client, _ := newUpstream(t, http.StatusOK, `{"data":[{"student":{"name":"Ana"},"percent":91.5,"passed":true},{"student":"s2","percent":70}]}`)
	table, err := NewReportDataRepository(client).Fetch(context.Background(), models.ReportKindGrades, models.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"passed", "percent", "student"}, table.Columns)
	assert.Equal(t, []string{"yes", "91.5", "Ana"}, table.Rows[0])
	assert.Equal(t, []string{"", "70", "s2"}, table.Rows[1])
}
