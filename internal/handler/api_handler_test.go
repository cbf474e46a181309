package handler

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/dto"
	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type fakeSubjectService struct {
	subjectService
	subjects []models.Subject
	hit      bool
	filter   models.SubjectFilter
}

func (f *fakeSubjectService) All(context.Context) ([]models.Subject, bool, error) {
	return f.subjects, f.hit, nil
}

func (f *fakeSubjectService) List(_ context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	f.filter = filter
	return f.subjects, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(f.subjects)}, nil
}

func TestSubjectAPIListReportsCacheHit(t *testing.T) {
	svc := &fakeSubjectService{subjects: []models.Subject{{ID: "s1", Code: "CS101", Department: "CS"}}, hit: true}
	h := NewSubjectHandler(svc)
	r := newTestEngine(teacherUser)
	r.GET("/api/subjects", middleware.WithResponseMeta(), h.APIList)

	rec := get(r, "/api/subjects?department=CS&year_level=2&page=1&page_size=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var subjects []models.Subject
	env := envelope(t, rec, &subjects)
	require.Len(t, subjects, 1)
	assert.Equal(t, "CS101", subjects[0].Code)
	assert.Equal(t, true, env.Meta["cache_hit"])
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 5, env.Pagination.PageSize)
	assert.Equal(t, "CS", svc.filter.Department)
	assert.Equal(t, 2, svc.filter.YearLevel)
}

func TestSubjectListPageHidesWriteLinksFromTeachers(t *testing.T) {
	svc := &fakeSubjectService{subjects: []models.Subject{{ID: "s1", Code: "CS101"}}}
	h := NewSubjectHandler(svc)
	r := newTestEngine(teacherUser)
	r.GET("/subjects", h.List)

	rec := get(r, "/subjects?search=cs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CS101")
	assert.NotContains(t, rec.Body.String(), "/subjects/new")
	assert.Equal(t, "cs", svc.filter.Search)
}

type fakeGradeService struct {
	gradeService
	summary *models.GradeSummary
	err     error
}

func (f *fakeGradeService) Summary(context.Context, string) (*models.GradeSummary, error) {
	return f.summary, f.err
}

func TestGradeAPISummary(t *testing.T) {
	svc := &fakeGradeService{summary: &models.GradeSummary{StudentID: "st1", TotalUnits: 6, GWA: 1.75, Passed: 2}}
	h := NewGradeHandler(svc, fakeStudents{}, fakeSubjects{}, nil)
	r := newTestEngine(teacherUser)
	r.GET("/api/students/:id/gpa", h.APISummary)

	rec := get(r, "/api/students/st1/gpa")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary models.GradeSummary
	envelope(t, rec, &summary)
	assert.Equal(t, "st1", summary.StudentID)
	assert.InDelta(t, 1.75, summary.GWA, 0.0001)
}

func TestGradeAPISummaryUpstreamError(t *testing.T) {
	svc := &fakeGradeService{err: appErrors.Clone(appErrors.ErrUpstream, "failed to load grades")}
	h := NewGradeHandler(svc, fakeStudents{}, fakeSubjects{}, nil)
	r := newTestEngine(teacherUser)
	r.GET("/api/students/:id/gpa", h.APISummary)

	rec := get(r, "/api/students/st1/gpa")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	env := envelope(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrUpstream.Code, env.Error.Code)
}

func TestGradeSummaryPage(t *testing.T) {
	svc := &fakeGradeService{summary: &models.GradeSummary{
		StudentID: "st1",
		Lines:     []models.GradeLine{{SubjectCode: "MATH101", Units: 3, Percent: 91, GradePoint: 1.5, Passed: true}},
		GWA:       1.5,
	}}
	students := fakeStudents{students: []models.Student{{ID: "st1", StudentNumber: "2024-001"}}}
	h := NewGradeHandler(svc, students, fakeSubjects{}, nil)
	r := newTestEngine(teacherUser)
	r.GET("/students/:id/gpa", h.Summary)

	rec := get(r, "/students/st1/gpa")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2024-001")
	assert.Contains(t, rec.Body.String(), "1.50")
}

type fakeReportService struct {
	reportService
	status   *dto.ReportStatusResponse
	statusFn func(id string, user *models.SessionUser) error
	created  *dto.ExportRequest
	download *service.ReportDownload
	jobs     []dto.ReportStatusResponse
}

func (f *fakeReportService) GetStatus(_ context.Context, id string, user *models.SessionUser) (*dto.ReportStatusResponse, error) {
	if f.statusFn != nil {
		if err := f.statusFn(id, user); err != nil {
			return nil, err
		}
	}
	return f.status, nil
}

func (f *fakeReportService) CreateExport(_ context.Context, req dto.ExportRequest, _ *models.SessionUser) (*dto.ReportJobResponse, error) {
	f.created = &req
	return &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued}, nil
}

func (f *fakeReportService) ListJobs(context.Context, *models.SessionUser) ([]dto.ReportStatusResponse, error) {
	return f.jobs, nil
}

func (f *fakeReportService) ResolveDownload(context.Context, string) (*service.ReportDownload, error) {
	if f.download == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "download link expired")
	}
	return f.download, nil
}

func TestReportExportStatus(t *testing.T) {
	svc := &fakeReportService{
		status: &dto.ReportStatusResponse{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100, DownloadURL: "/reports/download/abc"},
		statusFn: func(id string, user *models.SessionUser) error {
			if user.ID != adminUser.ID {
				return appErrors.ErrForbidden
			}
			return nil
		},
	}
	h := NewReportHandler(svc, true, models.ReportFilter{})
	r := newTestEngine(adminUser)
	r.GET("/api/reports/exports/:jobId", h.APIExportStatus)

	rec := get(r, "/api/reports/exports/job-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var status dto.ReportStatusResponse
	envelope(t, rec, &status)
	assert.Equal(t, models.ReportStatusFinished, status.Status)
	assert.Equal(t, "/reports/download/abc", status.DownloadURL)

	other := newTestEngine(teacherUser)
	other.GET("/api/reports/exports/:jobId", h.APIExportStatus)
	assert.Equal(t, http.StatusForbidden, get(other, "/api/reports/exports/job-1").Code)
}

func TestReportAPICreateExport(t *testing.T) {
	svc := &fakeReportService{}
	h := NewReportHandler(svc, true, models.ReportFilter{})
	r := newTestEngine(teacherUser)
	r.POST("/api/reports/exports", h.APICreateExport)

	rec := postJSON(r, "/api/reports/exports", `{"kind":"grades","format":"pdf","acadYear":"2024-2025"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	var job dto.ReportJobResponse
	envelope(t, rec, &job)
	assert.Equal(t, "job-1", job.ID)
	require.NotNil(t, svc.created)
	assert.Equal(t, models.ReportFormatPDF, svc.created.Format)
	assert.Equal(t, "2024-2025", svc.created.AcadYear)
}

func TestReportExportsDisabled(t *testing.T) {
	h := NewReportHandler(&fakeReportService{}, false, models.ReportFilter{})
	r := newTestEngine(adminUser)
	r.POST("/api/reports/exports", h.APICreateExport)
	r.GET("/reports/exports", h.Jobs)

	assert.Equal(t, http.StatusNotFound, postJSON(r, "/api/reports/exports", `{"kind":"grades","format":"csv"}`).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/reports/exports").Code)
}

func TestReportExportFormRedirectsToJobs(t *testing.T) {
	svc := &fakeReportService{}
	h := NewReportHandler(svc, true, models.ReportFilter{})
	r := newTestEngine(adminUser)
	r.POST("/reports/exports", h.Export)

	rec := postForm(r, "/reports/exports", url.Values{"kind": {"disciplinary"}, "format": {"csv"}, "department": {"CS"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/reports/exports", rec.Header().Get("Location"))
	require.NotNil(t, svc.created)
	assert.Equal(t, models.ReportKindDisciplinary, svc.created.Kind)
	assert.Equal(t, "CS", svc.created.Department)
}

func TestReportDownloadStreamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	svc := &fakeReportService{download: &service.ReportDownload{
		File:      file,
		Filename:  "grades.csv",
		Format:    models.ReportFormatCSV,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	h := NewReportHandler(svc, true, models.ReportFilter{})
	r := newTestEngine(adminUser)
	r.GET("/reports/download/:token", h.Download)

	rec := get(r, "/reports/download/tok")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a,b\n1,2\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="grades.csv"`)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
}

func TestReportDownloadExpiredToken(t *testing.T) {
	h := NewReportHandler(&fakeReportService{}, true, models.ReportFilter{})
	r := newTestEngine(adminUser)
	r.GET("/reports/download/:token", h.Download)

	rec := get(r, "/reports/download/stale")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "download link expired")
}

type fakeDashboard struct {
	summary *dto.DashboardResponse
	user    *models.SessionUser
}

func (f *fakeDashboard) Summary(_ context.Context, user *models.SessionUser) (*dto.DashboardResponse, error) {
	f.user = user
	return f.summary, nil
}

func TestDashboardPage(t *testing.T) {
	svc := &fakeDashboard{summary: &dto.DashboardResponse{
		AccountsByType: map[models.UserType]int{models.UserTypeAdmin: 1, models.UserTypeTeacher: 4},
		TotalAccounts:  5,
		Students:       120,
		Teachers:       4,
		Subjects:       18,
		System:         &models.SystemMetrics{RequestsTotal: 42, CacheHitRatio: 0.5},
	}}
	h := NewDashboardHandler(svc)
	r := newTestEngine(adminUser)
	r.GET("/", h.Page)

	rec := get(r, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<td>120</td>")
	assert.Contains(t, body, "<td>42</td>")
	assert.Contains(t, body, "0.50")
	assert.Contains(t, body, "No records.")
	assert.Equal(t, adminUser, svc.user)
}
