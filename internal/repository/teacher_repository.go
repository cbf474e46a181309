package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// TeacherRepository reads and writes teachers and their subject assignments.
type TeacherRepository struct {
	client   *apiclient.Client
	teachers resource[models.Teacher]
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(client *apiclient.Client) *TeacherRepository {
	return &TeacherRepository{client: client, teachers: newResource[models.Teacher](client, "/teachers")}
}

// List returns teachers, optionally narrowed to a department or subject.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	q := url.Values{}
	setQuery(q, "department", filter.Department)
	setQuery(q, "subject_ref", filter.SubjectID)
	return r.teachers.list(ctx, q)
}

// FindByID loads a teacher with assignments.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	return r.teachers.get(ctx, id)
}

// Create stores a teacher.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	return r.teachers.create(ctx, teacher)
}

// Update replaces a teacher.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	return r.teachers.update(ctx, teacher.ID, teacher)
}

// Delete removes a teacher.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	return r.teachers.remove(ctx, id)
}

// AddSubject attaches a subject assignment and returns the updated teacher.
func (r *TeacherRepository) AddSubject(ctx context.Context, teacherID string, assignment models.TeacherAssignment) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.client.Post(ctx, r.teachers.itemPath(teacherID, "subjects"), assignment, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// RemoveSubject detaches a subject assignment.
func (r *TeacherRepository) RemoveSubject(ctx context.Context, teacherID, subjectID string) error {
	return r.client.Delete(ctx, r.teachers.itemPath(teacherID, "subjects", subjectID))
}
