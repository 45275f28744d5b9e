package invitation

import "context"

// InviteRepository - interface for invites table
type InviteRepository interface {
	Create(ctx context.Context, inv Invite) (Invite, error)
	GetByID(ctx context.Context, id string) (Invite, error)
	GetLatestByEmail(ctx context.Context, email string) (Invite, error)
	ExistsActiveByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, status string) ([]Invite, error)
	MarkAccepted(ctx context.Context, email, deviceID string) error
	MarkEmailSent(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}
