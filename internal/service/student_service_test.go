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

type mockStudentRepo struct {
	students []models.Student
	created  []models.Student
	err      error
}

func (m *mockStudentRepo) List(context.Context, models.StudentFilter) ([]models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Student(nil), m.students...), nil
}

func (m *mockStudentRepo) FindByID(_ context.Context, id string) (*models.Student, error) {
	for i := range m.students {
		if m.students[i].ID == id {
			return &m.students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "")
}

func (m *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = "stu-new"
	m.created = append(m.created, *student)
	return nil
}

func (m *mockStudentRepo) Update(context.Context, *models.Student) error { return nil }

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	if _, err := m.FindByID(context.Background(), id); err != nil {
		return err
	}
	return nil
}

func studentFixture() *mockStudentRepo {
	ana := models.Account{ID: "a1", Name: "Ana"}
	return &mockStudentRepo{students: []models.Student{
		{ID: "s3", StudentNumber: "2024-003", Department: "CS", YearLevel: 2, Course: "BSCS"},
		{ID: "s1", StudentNumber: "2024-001", Department: "cs", YearLevel: 1, Course: "BSCS", Account: models.Ref[models.Account]{ID: "a1", Value: &ana}},
		{ID: "s2", StudentNumber: "2024-002", Department: "IT", YearLevel: 1, Course: "BSIT"},
	}}
}

func TestStudentServiceListFilters(t *testing.T) {
	svc := NewStudentService(studentFixture(), validator.New(), zap.NewNop())

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{Department: "CS"})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "2024-001", students[0].StudentNumber)
	assert.Equal(t, 2, pagination.TotalCount)

	students, _, err = svc.List(context.Background(), models.StudentFilter{YearLevel: 1, Course: "bsit"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s2", students[0].ID)

	students, _, err = svc.List(context.Background(), models.StudentFilter{ListOptions: models.ListOptions{Search: "ana"}})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
}

func TestStudentServiceListUpstreamFailure(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{err: appErrors.Clone(appErrors.ErrUpstream, "backend down")}, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), models.StudentFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstream))
}

func TestStudentServiceCreateValidates(t *testing.T) {
	repo := studentFixture()
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), StudentRequest{StudentNumber: "2024-010", Department: "CS", Course: "BSCS", AccountID: "a9"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.created)

	student, err := svc.Create(context.Background(), StudentRequest{StudentNumber: " 2024-010 ", Department: "CS", YearLevel: 1, Course: "BSCS", AccountID: "a9"})
	require.NoError(t, err)
	assert.Equal(t, "stu-new", student.ID)
	assert.Equal(t, "2024-010", student.StudentNumber)
	assert.Equal(t, "a9", student.Account.ID)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	svc := NewStudentService(studentFixture(), validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "student not found", appErr.Message)

	assert.Error(t, svc.Delete(context.Background(), "missing"))
}
