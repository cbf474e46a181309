package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

type accountRepository interface {
	List(ctx context.Context, filter models.AccountFilter) ([]models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
}

// CreateAccountRequest captures fields for creating accounts.
type CreateAccountRequest struct {
	Name       string          `form:"name" json:"name" validate:"required"`
	Email      string          `form:"email" json:"email" validate:"required,email"`
	UserType   models.UserType `form:"user_type" json:"user_type" validate:"required,oneof=Student Teacher Admin"`
	Department string          `form:"department" json:"department"`
	Password   string          `form:"password" json:"password" validate:"required,min=8"`
}

// UpdateAccountRequest modifies account fields. An empty password keeps the current one.
type UpdateAccountRequest struct {
	Name       string          `form:"name" json:"name" validate:"required"`
	Email      string          `form:"email" json:"email" validate:"required,email"`
	UserType   models.UserType `form:"user_type" json:"user_type" validate:"required,oneof=Student Teacher Admin"`
	Department string          `form:"department" json:"department"`
	Password   string          `form:"password" json:"password" validate:"omitempty,min=8"`
}

// AccountService manages login identities.
type AccountService struct {
	repo      accountRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(repo accountRepository, validate *validator.Validate, logger *zap.Logger) *AccountService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{repo: repo, validator: validate, logger: logger}
}

var accountSorts = map[string]func(a, b models.Account) bool{
	"name":       func(a, b models.Account) bool { return lessFold(a.Name, b.Name) },
	"email":      func(a, b models.Account) bool { return lessFold(a.Email, b.Email) },
	"user_type":  func(a, b models.Account) bool { return a.UserType < b.UserType },
	"department": func(a, b models.Account) bool { return lessFold(a.Department, b.Department) },
}

// List returns a filtered, sorted page of accounts.
func (s *AccountService) List(ctx context.Context, filter models.AccountFilter) ([]models.Account, *models.Pagination, error) {
	accounts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, upstreamError(err, "", "failed to list accounts")
	}
	accounts = filterItems(accounts, func(a models.Account) bool {
		if filter.UserType != "" && a.UserType != filter.UserType {
			return false
		}
		if filter.Department != "" && !strings.EqualFold(a.Department, filter.Department) {
			return false
		}
		return matchesSearch(filter.Search, a.Name, a.Email)
	})
	sortItems(accounts, filter.ListOptions, accountSorts, "name")
	page, pagination := paginate(accounts, filter.ListOptions)
	return page, pagination, nil
}

// OfType returns every account with the given role, sorted by name, for pickers.
func (s *AccountService) OfType(ctx context.Context, userType models.UserType) ([]models.Account, error) {
	accounts, err := s.repo.List(ctx, models.AccountFilter{UserType: userType})
	if err != nil {
		return nil, upstreamError(err, "", "failed to list accounts")
	}
	accounts = filterItems(accounts, func(a models.Account) bool { return a.UserType == userType })
	sortItems(accounts, models.ListOptions{}, accountSorts, "name")
	return accounts, nil
}

// Get returns an account by id.
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "account not found", "failed to load account")
	}
	return account, nil
}

// Create registers a new account.
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid account payload")
	}
	account := &models.Account{
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		UserType:   req.UserType,
		Department: strings.TrimSpace(req.Department),
		Password:   req.Password,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, upstreamError(err, "", "failed to create account")
	}
	account.Password = ""
	s.logger.Info("account created", zap.String("account_id", account.ID), zap.String("user_type", string(account.UserType)))
	return account, nil
}

// Update modifies an account.
func (s *AccountService) Update(ctx context.Context, id string, req UpdateAccountRequest) (*models.Account, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid account payload")
	}
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	account.Name = strings.TrimSpace(req.Name)
	account.Email = req.Email
	account.UserType = req.UserType
	account.Department = strings.TrimSpace(req.Department)
	account.Password = req.Password
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, upstreamError(err, "account not found", "failed to update account")
	}
	account.Password = ""
	return account, nil
}

// Delete removes an account.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "account not found", "failed to delete account")
	}
	s.logger.Info("account deleted", zap.String("account_id", id))
	return nil
}
