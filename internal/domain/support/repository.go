package support

import "context"

// SupportRepository - interface for support_requests table
type SupportRepository interface {
	Create(ctx context.Context, req SupportRequest) (SupportRequest, error)
	GetByID(ctx context.Context, id string) (SupportRequest, error)
	List(ctx context.Context, status string) ([]SupportRequest, error)
	ListByDevice(ctx context.Context, deviceID string) ([]SupportRequest, error)
	Resolve(ctx context.Context, id string, adminResponse *string) (SupportRequest, error)
	Delete(ctx context.Context, id string) error
	DeleteResolved(ctx context.Context) (int64, error)
}
