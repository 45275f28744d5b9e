package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrNotWhitelisted      = errors.New("email is not on the admin whitelist")
	ErrEmailNotVerified    = errors.New("google email is not verified")
	ErrOAuthDisabled       = errors.New("google sign-in is not configured")
	ErrUserNotFound        = errors.New("user not found")
)
