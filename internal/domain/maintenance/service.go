package maintenance

import "context"

type MaintenanceService interface {
	DeleteReportsByDevice(ctx context.Context, deviceID string) (DeleteResult, error)
	// DeleteUser removes every trace of a personnel account. Steps run
	// concurrently; failures are listed in the result and joined into err.
	DeleteUser(ctx context.Context, userID string) (DeleteResult, error)
	DeletePendingDeviceRequests(ctx context.Context) (DeleteResult, error)
	DeleteSelectedReports(ctx context.Context, ids []string) (DeleteResult, error)
	ClearResolvedSupport(ctx context.Context) (DeleteResult, error)
	Backup(ctx context.Context, deviceID string) (Backup, string, error)
	Restore(ctx context.Context, req RestoreRequest) (RestoreResult, error)
	ChangeDevice(ctx context.Context, req ChangeDeviceRequest) (ChangeDeviceResult, error)
}
