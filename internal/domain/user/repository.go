package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByDeviceID(ctx context.Context, deviceID string) (User, error)
	// Upsert inserts by email or refreshes role, name and device of the existing row.
	Upsert(ctx context.Context, u User) (User, error)
	UpdateDevice(ctx context.Context, email, deviceID string) error
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	TouchLastLogin(ctx context.Context, id string) error
	DeleteByEmailOrDevice(ctx context.Context, email, deviceID string) (int64, error)
}
