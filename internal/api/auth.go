// Package api provides thin, typed request builders for the BORTAL REST
// resources. No business logic lives here beyond parameter shaping.
package api

import (
	"context"
	"fmt"

	"github.com/bortal/bortal-go/internal/gateway"
	"github.com/bortal/bortal-go/internal/interfaces"
	"github.com/bortal/bortal-go/internal/models"
)

// Compile-time interface check
var _ interfaces.AuthAPI = (*Auth)(nil)

// Auth wraps the auth resource family
type Auth struct {
	gw *gateway.Client
}

// NewAuth creates the auth service
func NewAuth(gw *gateway.Client) *Auth {
	return &Auth{gw: gw}
}

type authResponse struct {
	User   *models.User   `json:"user"`
	Tokens *models.Tokens `json:"tokens"`
}

// Login exchanges credentials for a user and token pair
func (a *Auth) Login(ctx context.Context, username, password string) (*models.User, *models.Tokens, error) {
	payload := map[string]string{"username": username, "password": password}

	var resp authResponse
	if err := a.gw.Post(ctx, "auth/login/", payload, &resp); err != nil {
		return nil, nil, err
	}
	if resp.User == nil || resp.Tokens == nil {
		return nil, nil, fmt.Errorf("login response missing user or tokens")
	}
	return resp.User, resp.Tokens, nil
}

// Register creates an account and returns the signed-in user and tokens
func (a *Auth) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *models.Tokens, error) {
	var resp authResponse
	if err := a.gw.Post(ctx, "auth/register/", req, &resp); err != nil {
		return nil, nil, err
	}
	if resp.User == nil || resp.Tokens == nil {
		return nil, nil, fmt.Errorf("register response missing user or tokens")
	}
	return resp.User, resp.Tokens, nil
}

// Logout invalidates the refresh token server-side
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	payload := map[string]string{"refresh_token": refreshToken}
	return a.gw.Post(ctx, "auth/logout/", payload, nil)
}

// Profile retrieves the current user's profile
func (a *Auth) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.gw.Get(ctx, "auth/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
