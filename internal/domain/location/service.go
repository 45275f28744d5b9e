package location

import (
	"context"
	"time"
)

type LocationService interface {
	Record(ctx context.Context, deviceID string, req RecordPingRequest) (Ping, error)
	Trails(ctx context.Context, q TrailQuery) ([]Trail, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
