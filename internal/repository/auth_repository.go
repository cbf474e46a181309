package repository

import (
	"context"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// AuthRepository exchanges credentials for an access token.
type AuthRepository struct {
	client    *apiclient.Client
	loginPath string
}

// NewAuthRepository constructs the repository.
func NewAuthRepository(client *apiclient.Client, loginPath string) *AuthRepository {
	if loginPath == "" {
		loginPath = "/auth/login"
	}
	return &AuthRepository{client: client, loginPath: loginPath}
}

// Login posts credentials to the backend.
func (r *AuthRepository) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	var result models.LoginResult
	if err := r.client.Post(ctx, r.loginPath, creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
