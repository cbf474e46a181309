package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

func TestStudentRepositoryList(t *testing.T) {
	client, req := newUpstream(t, http.StatusOK, `{"data":[{"_id":"s1","student_number":"2024-001","year_level":2,"account":{"_id":"a1","name":"Ana"}}]}`)
	repo := NewStudentRepository(client)

	students, err := repo.List(context.Background(), models.StudentFilter{Department: "CS", YearLevel: 2})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana", students[0].DisplayName())
	assert.Equal(t, "a1", students[0].Account.ID)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/students", req.Path)
	assert.Equal(t, "department=CS&year_level=2", req.Query)
}

func TestStudentRepositoryListEmptyBody(t *testing.T) {
	client, _ := newUpstream(t, http.StatusOK, `null`)
	students, err := NewStudentRepository(client).List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestStudentRepositoryCreate(t *testing.T) {
	client, req := newUpstream(t, http.StatusCreated, `{"_id":"new-id","student_number":"2024-002","account":"a2"}`)
	repo := NewStudentRepository(client)

	student := &models.Student{StudentNumber: "2024-002", Account: models.RefTo[models.Account]("a2"), YearLevel: 1}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, "new-id", student.ID)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "a2", req.Body["account"])
	_, hasID := req.Body["_id"]
	assert.False(t, hasID)
}

func TestStudentRepositoryUpdateAndDelete(t *testing.T) {
	client, req := newUpstream(t, http.StatusOK, `{"_id":"s1","course":"BSIT"}`)
	repo := NewStudentRepository(client)

	require.NoError(t, repo.Update(context.Background(), &models.Student{ID: "s1", Course: "BSIT"}))
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/students/s1", req.Path)

	require.NoError(t, repo.Delete(context.Background(), "s1"))
	assert.Equal(t, http.MethodDelete, req.Method)
}
