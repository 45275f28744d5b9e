package device

import "context"

// AccessChecker guards every personnel write path.
type AccessChecker interface {
	// State resolves the current access state of a device.
	State(ctx context.Context, deviceID string) (AccessState, error)
	// Require returns nil only for an allowed device.
	Require(ctx context.Context, deviceID string) error
	// Invalidate drops any cached state for a device.
	Invalidate(ctx context.Context, deviceID string)
}

type DeviceService interface {
	Register(ctx context.Context, req RegisterDeviceRequest) (DeviceRequest, error)
	List(ctx context.Context, status string) ([]DeviceRequest, error)
	Approve(ctx context.Context, id string) (DeviceRequest, error)
	Reject(ctx context.Context, id string) (DeviceRequest, error)
	SetAccess(ctx context.Context, deviceID string, req SetAccessRequest) (DeviceAccess, error)
	ListAccess(ctx context.Context) ([]DeviceAccess, error)
	CheckAccess(ctx context.Context, deviceID string) (AccessResponse, error)

	GetProfile(ctx context.Context, deviceID string) (DeviceRequest, error)
	UpdateProfile(ctx context.Context, deviceID, lang string, req UpdateProfileRequest) (DeviceRequest, error)
	UpdatePhoto(ctx context.Context, deviceID, lang string, req UpdatePhotoRequest) (DeviceRequest, error)
}
