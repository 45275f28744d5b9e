package support

import "context"

type SupportService interface {
	Create(ctx context.Context, deviceID string, req CreateSupportRequest) (SupportRequest, error)
	ListMine(ctx context.Context, deviceID string) ([]SupportRequest, error)
	List(ctx context.Context, status string) ([]SupportRequest, error)
	Resolve(ctx context.Context, id string, req ResolveRequest) (SupportRequest, error)
	Delete(ctx context.Context, id string) error
}
