package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// GradeRepository reads and writes grades through the school API.
type GradeRepository struct {
	grades resource[models.Grade]
}

// NewGradeRepository constructs a grade repository.
func NewGradeRepository(client *apiclient.Client) *GradeRepository {
	return &GradeRepository{grades: newResource[models.Grade](client, "/grades")}
}

// List returns grades by student, subject or teacher.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	q := url.Values{}
	setQuery(q, "student_ref", filter.StudentID)
	setQuery(q, "subject_ref", filter.SubjectID)
	setQuery(q, "teacher_ref", filter.TeacherID)
	return r.grades.list(ctx, q)
}

// FindByID loads a grade.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	return r.grades.get(ctx, id)
}

// Create stores a grade.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return r.grades.create(ctx, grade)
}

// Update replaces a grade.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	return r.grades.update(ctx, grade.ID, grade)
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	return r.grades.remove(ctx, id)
}
