package device

import "context"

// DeviceRequestRepository - interface for device_requests table
type DeviceRequestRepository interface {
	Create(ctx context.Context, req DeviceRequest) (DeviceRequest, error)
	GetByID(ctx context.Context, id string) (DeviceRequest, error)
	GetApprovedByDeviceID(ctx context.Context, deviceID string) (DeviceRequest, error)
	GetApprovedByEmail(ctx context.Context, email string) (DeviceRequest, error)
	ExistsActiveForDevice(ctx context.Context, deviceID string) (bool, error)
	List(ctx context.Context, status string) ([]DeviceRequest, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
	UpdateProfile(ctx context.Context, id string, name string, phone, address *string) error
	UpdatePhoto(ctx context.Context, id string, photoURL string) error
	Rebind(ctx context.Context, id string, deviceID string) error
	DeleteByEmailOrDevice(ctx context.Context, email, deviceID string) (int64, error)
	DeletePending(ctx context.Context) (int64, error)
}

// DeviceAccessRepository - interface for device_access table
type DeviceAccessRepository interface {
	Get(ctx context.Context, deviceID string) (DeviceAccess, error)
	Upsert(ctx context.Context, access DeviceAccess) error
	Delete(ctx context.Context, deviceID string) (int64, error)
	List(ctx context.Context) ([]DeviceAccess, error)
}
