package leave

import "context"

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter ListLeaveFilter) ([]LeaveRequest, error)
	ListByDevice(ctx context.Context, deviceID string) ([]LeaveRequest, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Upsert(ctx context.Context, request LeaveRequest) error
	Delete(ctx context.Context, id string) error
	DeleteByDeviceID(ctx context.Context, deviceID string) (int64, error)
}
