package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

func TestTeacherRepositoryListBySubject(t *testing.T) {
	client, req := newUpstream(t, http.StatusOK, `[{"_id":"t1","teacher_uid":"T-1","subjects":[{"subject_ref":{"_id":"sub1","code":"MATH"},"day":"Mon","time":"8-9","room":"R1","slots":30,"num_students":12}]}]`)
	teachers, err := NewTeacherRepository(client).List(context.Background(), models.TeacherFilter{SubjectID: "sub1"})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assignment, ok := teachers[0].AssignmentFor("sub1")
	require.True(t, ok)
	assert.Equal(t, 18, assignment.Remaining())
	assert.Equal(t, "MATH", assignment.Subject.Value.Code)
	assert.Equal(t, "subject_ref=sub1", req.Query)
}

func TestTeacherRepositorySubjectAssignments(t *testing.T) {
	client, req := newUpstream(t, http.StatusOK, `{"_id":"t1","subjects":[{"subject_ref":"sub1","slots":20}]}`)
	repo := NewTeacherRepository(client)

	teacher, err := repo.AddSubject(context.Background(), "t1", models.TeacherAssignment{Subject: models.RefTo[models.Subject]("sub1"), Slots: 20, Day: "Tue"})
	require.NoError(t, err)
	assert.Len(t, teacher.Subjects, 1)
	assert.Equal(t, "/teachers/t1/subjects", req.Path)
	assert.Equal(t, "sub1", req.Body["subject_ref"])
	assert.EqualValues(t, 20, req.Body["slots"])

	require.NoError(t, repo.RemoveSubject(context.Background(), "t1", "sub1"))
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/teachers/t1/subjects/sub1", req.Path)
}
