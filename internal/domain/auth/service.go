package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, code string, session SessionTrackingRequest) (TokenResponse, error)
	GoogleRedirectURL(state string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	IssueSSEToken(ctx context.Context, userID string) (SSETokenResponse, error)
	// EnsureBootstrapAdmin creates or refreshes the configured admin account.
	EnsureBootstrapAdmin(ctx context.Context, email, password string) error
}
