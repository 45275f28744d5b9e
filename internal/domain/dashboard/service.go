package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetStats aggregates reports for a period, optionally for one device
	GetStats(ctx context.Context, q StatsQuery) (Stats, error)

	// GetOverview returns stats plus badge counts, fetched concurrently
	GetOverview(ctx context.Context, q StatsQuery) (Overview, error)

	// GetMonthly returns one device's month summary
	GetMonthly(ctx context.Context, deviceID string, q MonthlyQuery) (MonthlySummary, error)
}
