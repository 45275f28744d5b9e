package location

import (
	"context"
	"time"
)

// PingRepository - interface for location_pings table
type PingRepository interface {
	Create(ctx context.Context, p Ping) (Ping, error)
	// ListRecent returns the newest pings first; empty deviceID means all devices.
	ListRecent(ctx context.Context, deviceID string, limit int) ([]Ping, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteByDeviceID(ctx context.Context, deviceID string) (int64, error)
}
