package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// SubjectRepository reads and writes subjects through the school API.
type SubjectRepository struct {
	subjects resource[models.Subject]
}

// NewSubjectRepository constructs a subject repository.
func NewSubjectRepository(client *apiclient.Client) *SubjectRepository {
	return &SubjectRepository{subjects: newResource[models.Subject](client, "/subjects")}
}

// List returns subjects. The unfiltered list is what the subject cache holds.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	q := url.Values{}
	setQuery(q, "department", filter.Department)
	setQuery(q, "semester", filter.Semester)
	if filter.YearLevel > 0 {
		q.Set("year_level", strconv.Itoa(filter.YearLevel))
	}
	return r.subjects.list(ctx, q)
}

// FindByID loads a subject.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	return r.subjects.get(ctx, id)
}

// Create stores a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return r.subjects.create(ctx, subject)
}

// Update replaces a subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	return r.subjects.update(ctx, subject.ID, subject)
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	return r.subjects.remove(ctx, id)
}
