package dashboard

import "context"

// DashboardRepository returns badge counts in a single round trip
type DashboardRepository interface {
	GetCounts(ctx context.Context, today string) (Counts, error)
}
