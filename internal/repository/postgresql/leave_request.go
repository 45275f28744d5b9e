package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestSelect = `
	SELECT id, device_id, user_name, user_email, leave_from::text, leave_to::text,
		   leave_reason, status, processed_at, created_at, updated_at
	FROM leave_requests
`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.DeviceID,
		&lr.UserName,
		&lr.UserEmail,
		&lr.LeaveFrom,
		&lr.LeaveTo,
		&lr.LeaveReason,
		&lr.Status,
		&lr.ProcessedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	return lr, err
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (device_id, user_name, user_email, leave_from, leave_to, leave_reason, status)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7)
		RETURNING id, created_at, updated_at
	`
	if request.Status == "" {
		request.Status = leave.StatusPending
	}
	err := q.QueryRow(ctx, query,
		request.DeviceID, request.UserName, request.UserEmail,
		request.LeaveFrom, request.LeaveTo, request.LeaveReason, request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.DeviceID != "" {
		conditions = append(conditions, fmt.Sprintf("device_id = $%d", argIdx))
		args = append(args, filter.DeviceID)
	}

	query := leaveRequestSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

func (r *leaveRequestRepositoryImpl) ListByDevice(ctx context.Context, deviceID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, leaveRequestSelect+` WHERE device_id = $1 ORDER BY leave_from DESC`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests by device: %w", err)
	}
	return collectLeaveRequests(rows)
}

func (r *leaveRequestRepositoryImpl) CountByStatus(ctx context.Context, status leave.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count leave requests: %w", err)
	}
	return count, nil
}

func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, processed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		if isInvalidID(err) {
			return leave.ErrLeaveRequestNotFound
		}
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// Upsert writes a leave request under its own id, used by restore.
func (r *leaveRequestRepositoryImpl) Upsert(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, device_id, user_name, user_email, leave_from, leave_to,
			leave_reason, status, processed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5::date, $6::date, $7, $8, $9, COALESCE($10, NOW()), NOW())
		ON CONFLICT (id) DO UPDATE SET
			device_id = EXCLUDED.device_id, user_name = EXCLUDED.user_name, user_email = EXCLUDED.user_email,
			leave_from = EXCLUDED.leave_from, leave_to = EXCLUDED.leave_to,
			leave_reason = EXCLUDED.leave_reason, status = EXCLUDED.status,
			processed_at = EXCLUDED.processed_at, updated_at = NOW()
	`
	_, err := q.Exec(ctx, query,
		request.ID, request.DeviceID, request.UserName, request.UserEmail,
		request.LeaveFrom, request.LeaveTo, request.LeaveReason, request.Status,
		request.ProcessedAt, nullTime(request.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert leave request: %w", err)
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return leave.ErrLeaveRequestNotFound
		}
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) DeleteByDeviceID(ctx context.Context, deviceID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE device_id = $1`, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete leave requests by device: %w", err)
	}
	return tag.RowsAffected(), nil
}
