package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// StudentRepository reads and writes student records through the school API.
type StudentRepository struct {
	students resource[models.Student]
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(client *apiclient.Client) *StudentRepository {
	return &StudentRepository{students: newResource[models.Student](client, "/students")}
}

// List returns students matching the server-side filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	q := url.Values{}
	setQuery(q, "department", filter.Department)
	setQuery(q, "course", filter.Course)
	if filter.YearLevel > 0 {
		q.Set("year_level", strconv.Itoa(filter.YearLevel))
	}
	return r.students.list(ctx, q)
}

// FindByID loads a student.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.students.get(ctx, id)
}

// Create stores a new student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.students.create(ctx, student)
}

// Update replaces a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.students.update(ctx, student.ID, student)
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return r.students.remove(ctx, id)
}
