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

type mockTeacherRepo struct {
	teachers   []models.Teacher
	added      []models.TeacherAssignment
	removed    []string
	lastFilter models.TeacherFilter
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	m.lastFilter = filter
	return append([]models.Teacher(nil), m.teachers...), nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	for _, t := range m.teachers {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "")
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.ID = "t-new"
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockTeacherRepo) AddSubject(ctx context.Context, teacherID string, assignment models.TeacherAssignment) (*models.Teacher, error) {
	m.added = append(m.added, assignment)
	t, err := m.FindByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	t.Subjects = append(t.Subjects, assignment)
	return t, nil
}

func (m *mockTeacherRepo) RemoveSubject(ctx context.Context, teacherID, subjectID string) error {
	m.removed = append(m.removed, teacherID+"/"+subjectID)
	return nil
}

func teacherFixture() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: []models.Teacher{
		{ID: "t1", TeacherUID: "T-009", Departments: []string{"Math"}, Subjects: []models.TeacherAssignment{
			{Subject: models.RefTo[models.Subject]("math"), Day: "Mon", Time: "08:00", Room: "R1", Slots: 30},
		}},
		{ID: "t2", TeacherUID: "T-001", Departments: []string{"Science", "Math"}},
		{ID: "t3", TeacherUID: "T-005", Departments: []string{"Science"}, Subjects: []models.TeacherAssignment{
			{Subject: models.RefTo[models.Subject]("math")},
		}},
	}}
}

func TestTeacherServiceListFiltersByDepartment(t *testing.T) {
	svc := NewTeacherService(teacherFixture(), validator.New(), zap.NewNop())

	teachers, pagination, err := svc.List(context.Background(), models.TeacherFilter{Department: "Math"})
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "T-001", teachers[0].TeacherUID)
	assert.Equal(t, 2, pagination.TotalCount)
}

func TestTeacherServiceForSubject(t *testing.T) {
	repo := teacherFixture()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	teachers, err := svc.ForSubject(context.Background(), "math")
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "t3", teachers[0].ID)
	assert.Equal(t, "t1", teachers[1].ID)
	assert.Equal(t, "math", repo.lastFilter.SubjectID)
}

func TestTeacherServiceAssignSubject(t *testing.T) {
	repo := teacherFixture()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := svc.AssignSubject(context.Background(), "t1", AssignSubjectRequest{SubjectID: "math", Day: "Tue", Time: "09:00", Room: "R2", Slots: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.AssignSubject(context.Background(), "t1", AssignSubjectRequest{SubjectID: "sci", Day: "Tue", Time: "09:00", Room: "R2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	updated, err := svc.AssignSubject(context.Background(), "t1", AssignSubjectRequest{SubjectID: "sci", Day: " Tue ", Time: "09:00", Room: "R2", Slots: 25})
	require.NoError(t, err)
	assert.Len(t, updated.Subjects, 2)
	require.Len(t, repo.added, 1)
	assert.Equal(t, "Tue", repo.added[0].Day)
	assert.Equal(t, 25, repo.added[0].Slots)
}

func TestTeacherServiceCreateSplitsDepartments(t *testing.T) {
	svc := NewTeacherService(teacherFixture(), validator.New(), zap.NewNop())

	teacher, err := svc.Create(context.Background(), TeacherRequest{TeacherUID: "T-100", AccountID: "acc9", Departments: "Math, Science,,"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "Science"}, teacher.Departments)
	assert.Equal(t, "acc9", teacher.Account.ID)
}

func TestTeacherServiceUnassignSubject(t *testing.T) {
	repo := teacherFixture()
	svc := NewTeacherService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.UnassignSubject(context.Background(), "t1", "math"))
	assert.Equal(t, []string{"t1/math"}, repo.removed)
}
