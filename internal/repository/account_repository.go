package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// AccountRepository reads and writes accounts through the school API.
type AccountRepository struct {
	accounts resource[models.Account]
}

// NewAccountRepository constructs an account repository.
func NewAccountRepository(client *apiclient.Client) *AccountRepository {
	return &AccountRepository{accounts: newResource[models.Account](client, "/accounts")}
}

// List returns accounts narrowed by role and department on the server.
func (r *AccountRepository) List(ctx context.Context, filter models.AccountFilter) ([]models.Account, error) {
	q := url.Values{}
	setQuery(q, "user_type", string(filter.UserType))
	setQuery(q, "department", filter.Department)
	return r.accounts.list(ctx, q)
}

// FindByID loads a single account.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.accounts.get(ctx, id)
}

// Create stores a new account.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.accounts.create(ctx, account)
}

// Update replaces an account.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.accounts.update(ctx, account.ID, account)
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	return r.accounts.remove(ctx, id)
}
