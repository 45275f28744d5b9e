package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
)

type pingRepositoryImpl struct {
	db *database.DB
}

func NewPingRepository(db *database.DB) location.PingRepository {
	return &pingRepositoryImpl{db: db}
}

func (r *pingRepositoryImpl) Create(ctx context.Context, p location.Ping) (location.Ping, error) {
	q := GetQuerier(ctx, r.db)

	var reportID *string
	if p.ReportID != "" {
		reportID = &p.ReportID
	}

	query := `
		INSERT INTO location_pings (device_id, report_id, date, latitude, longitude, accuracy, captured_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		p.DeviceID, reportID, p.Date, p.Latitude, p.Longitude, p.Accuracy, p.CapturedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return location.Ping{}, fmt.Errorf("failed to create location ping: %w", err)
	}
	return p, nil
}

func (r *pingRepositoryImpl) ListRecent(ctx context.Context, deviceID string, limit int) ([]location.Ping, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, device_id, COALESCE(report_id::text, ''), date::text,
			   latitude, longitude, accuracy, captured_at, created_at
		FROM location_pings
		WHERE ($1 = '' OR device_id = $1)
		ORDER BY captured_at DESC
		LIMIT $2
	`
	rows, err := q.Query(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list location pings: %w", err)
	}
	defer rows.Close()

	pings := make([]location.Ping, 0)
	for rows.Next() {
		var p location.Ping
		if err := rows.Scan(
			&p.ID,
			&p.DeviceID,
			&p.ReportID,
			&p.Date,
			&p.Latitude,
			&p.Longitude,
			&p.Accuracy,
			&p.CapturedAt,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location ping: %w", err)
		}
		pings = append(pings, p)
	}
	return pings, rows.Err()
}

func (r *pingRepositoryImpl) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM location_pings WHERE captured_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge location pings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pingRepositoryImpl) DeleteByDeviceID(ctx context.Context, deviceID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM location_pings WHERE device_id = $1`, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete location pings by device: %w", err)
	}
	return tag.RowsAffected(), nil
}
