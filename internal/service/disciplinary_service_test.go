package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type mockDisciplinaryRepo struct {
	records []models.DisciplinaryRecord
	created []models.DisciplinaryRecord
}

func (m *mockDisciplinaryRepo) List(ctx context.Context, filter models.DisciplinaryFilter) ([]models.DisciplinaryRecord, error) {
	return append([]models.DisciplinaryRecord(nil), m.records...), nil
}

func (m *mockDisciplinaryRepo) FindByID(ctx context.Context, id string) (*models.DisciplinaryRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "")
}

func (m *mockDisciplinaryRepo) Create(ctx context.Context, record *models.DisciplinaryRecord) error {
	record.ID = "d-new"
	m.created = append(m.created, *record)
	return nil
}

func (m *mockDisciplinaryRepo) Update(ctx context.Context, record *models.DisciplinaryRecord) error {
	return nil
}

func (m *mockDisciplinaryRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func mustDate(t *testing.T, raw string) models.Date {
	t.Helper()
	d, err := models.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func disciplinaryFixture(t *testing.T) *mockDisciplinaryRepo {
	return &mockDisciplinaryRepo{records: []models.DisciplinaryRecord{
		{ID: "d1", StudentNumber: "2024-001", Violation: "Late", Severity: 1, Date: mustDate(t, "2024-01-10")},
		{ID: "d2", StudentNumber: "2024-001", Violation: "Cheating", Severity: 4, Date: mustDate(t, "2024-03-02")},
		{ID: "d3", StudentNumber: "2024-002", Violation: "Vandalism", Severity: 5, Date: mustDate(t, "2024-02-20")},
	}}
}

func TestDisciplinaryServiceListFilters(t *testing.T) {
	svc := NewDisciplinaryService(disciplinaryFixture(t), validator.New(), zap.NewNop())

	records, pagination, err := svc.List(context.Background(), models.DisciplinaryFilter{MinSeverity: 4})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "d2", records[0].ID)
	assert.Equal(t, "d3", records[1].ID)
	assert.Equal(t, 2, pagination.TotalCount)

	records, _, err = svc.List(context.Background(), models.DisciplinaryFilter{StudentNumber: "2024-001", ListOptions: models.ListOptions{Search: "late"}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "d1", records[0].ID)
}

func TestDisciplinaryServiceRecent(t *testing.T) {
	svc := NewDisciplinaryService(disciplinaryFixture(t), validator.New(), zap.NewNop())

	records, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "d2", records[0].ID)
	assert.Equal(t, "d3", records[1].ID)
}

func TestDisciplinaryServiceSummary(t *testing.T) {
	svc := NewDisciplinaryService(disciplinaryFixture(t), validator.New(), zap.NewNop())

	summary, err := svc.Summary(context.Background(), "2024-001")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 4, summary.MaxSeverity)
	assert.Equal(t, "2024-03-02", summary.LatestDate.String())
}

func TestDisciplinaryServiceCreateValidatesSeverity(t *testing.T) {
	repo := &mockDisciplinaryRepo{}
	svc := NewDisciplinaryService(repo, validator.New(), zap.NewNop())

	for _, severity := range []int{0, 6} {
		_, err := svc.Create(context.Background(), DisciplinaryRequest{StudentNumber: "2024-001", Violation: "Late", Severity: severity})
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
	}

	record, err := svc.Create(context.Background(), DisciplinaryRequest{StudentNumber: " 2024-001 ", Violation: "Late", Severity: 5, Date: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "2024-001", record.StudentNumber)
	assert.Equal(t, "2024-05-01", record.Date.String())
	assert.Len(t, repo.created, 1)
}
