package leave

import "context"

type LeaveService interface {
	Create(ctx context.Context, deviceID string, req CreateLeaveRequest) (LeaveRequest, error)
	ListMine(ctx context.Context, deviceID string) ([]LeaveRequest, error)
	List(ctx context.Context, filter ListLeaveFilter) ([]LeaveRequest, error)
	CountPending(ctx context.Context) (int64, error)
	Approve(ctx context.Context, id string) (ApproveResult, error)
	Reject(ctx context.Context, id string) (LeaveRequest, error)
	Delete(ctx context.Context, id string) error
}
