package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

func (r *dashboardRepositoryImpl) GetCounts(ctx context.Context, today string) (dashboard.Counts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM device_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM support_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM invites WHERE status = 'pending'),
			(SELECT COUNT(*) FROM notifications WHERE read = false),
			(SELECT COUNT(*) FROM reports WHERE is_open AND date < $1::date)
	`
	var c dashboard.Counts
	err := q.QueryRow(ctx, query, today).Scan(
		&c.PendingLeaves,
		&c.PendingDevices,
		&c.PendingSupport,
		&c.PendingInvites,
		&c.UnreadNotifications,
		&c.StaleOpenReports,
	)
	if err != nil {
		return dashboard.Counts{}, fmt.Errorf("failed to get dashboard counts: %w", err)
	}
	return c, nil
}
