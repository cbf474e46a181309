package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// DisciplinaryRepository reads and writes disciplinary records.
type DisciplinaryRepository struct {
	records resource[models.DisciplinaryRecord]
}

// NewDisciplinaryRepository constructs the repository.
func NewDisciplinaryRepository(client *apiclient.Client) *DisciplinaryRepository {
	return &DisciplinaryRepository{records: newResource[models.DisciplinaryRecord](client, "/disciplinary")}
}

// List returns records, optionally for one student.
func (r *DisciplinaryRepository) List(ctx context.Context, filter models.DisciplinaryFilter) ([]models.DisciplinaryRecord, error) {
	q := url.Values{}
	setQuery(q, "student_number", filter.StudentNumber)
	return r.records.list(ctx, q)
}

// FindByID loads a record.
func (r *DisciplinaryRepository) FindByID(ctx context.Context, id string) (*models.DisciplinaryRecord, error) {
	return r.records.get(ctx, id)
}

// Create stores a record.
func (r *DisciplinaryRepository) Create(ctx context.Context, record *models.DisciplinaryRecord) error {
	return r.records.create(ctx, record)
}

// Update replaces a record.
func (r *DisciplinaryRepository) Update(ctx context.Context, record *models.DisciplinaryRecord) error {
	return r.records.update(ctx, record.ID, record)
}

// Delete removes a record.
func (r *DisciplinaryRepository) Delete(ctx context.Context, id string) error {
	return r.records.remove(ctx, id)
}
