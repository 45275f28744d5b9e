package report

import "context"

// ReportRepository - interface for reports table
type ReportRepository interface {
	Create(ctx context.Context, r Report) (Report, error)
	GetByID(ctx context.Context, id string) (Report, error)
	GetOpenByDeviceAndDate(ctx context.Context, deviceID, date string) (Report, error)
	GetLatestByDeviceAndDate(ctx context.Context, deviceID, date string) (Report, error)
	// ExistsForDeviceAndDate reports whether the device has a report on date;
	// a non-empty status narrows the check to that status.
	ExistsForDeviceAndDate(ctx context.Context, deviceID, date string, status Status) (bool, error)
	// ListOpenBefore returns open reports dated before date; empty deviceID means all devices.
	ListOpenBefore(ctx context.Context, deviceID, date string) ([]Report, error)
	List(ctx context.Context, filter ReportFilter) ([]Report, int64, error)
	ListByDevice(ctx context.Context, deviceID string) ([]Report, error)
	Update(ctx context.Context, r Report) error
	Upsert(ctx context.Context, r Report) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteByDeviceID(ctx context.Context, deviceID string) (int64, error)
}
