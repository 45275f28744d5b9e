package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/support"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const supportSelect = `
	SELECT id, device_id, user_name, user_email, topic, related_date::text, message,
		   status, admin_response, resolved_at, created_at, updated_at
	FROM support_requests
`

type supportRepositoryImpl struct {
	db *database.DB
}

func NewSupportRepository(db *database.DB) support.SupportRepository {
	return &supportRepositoryImpl{db: db}
}

func scanSupportRequest(row pgx.Row) (support.SupportRequest, error) {
	var s support.SupportRequest
	err := row.Scan(
		&s.ID,
		&s.DeviceID,
		&s.UserName,
		&s.UserEmail,
		&s.Topic,
		&s.RelatedDate,
		&s.Message,
		&s.Status,
		&s.AdminResponse,
		&s.ResolvedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *supportRepositoryImpl) querySupport(ctx context.Context, query string, args ...interface{}) ([]support.SupportRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list support requests: %w", err)
	}
	defer rows.Close()

	out := make([]support.SupportRequest, 0)
	for rows.Next() {
		s, err := scanSupportRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan support request: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *supportRepositoryImpl) Create(ctx context.Context, req support.SupportRequest) (support.SupportRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO support_requests (device_id, user_name, user_email, topic, related_date, message, status)
		VALUES ($1, $2, $3, $4, $5::date, $6, 'pending')
		RETURNING id, status, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		req.DeviceID, req.UserName, req.UserEmail, req.Topic, req.RelatedDate, req.Message,
	).Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return support.SupportRequest{}, fmt.Errorf("failed to create support request: %w", err)
	}
	return req, nil
}

func (r *supportRepositoryImpl) GetByID(ctx context.Context, id string) (support.SupportRequest, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSupportRequest(q.QueryRow(ctx, supportSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return support.SupportRequest{}, support.ErrSupportRequestNotFound
		}
		return support.SupportRequest{}, fmt.Errorf("failed to get support request: %w", err)
	}
	return s, nil
}

func (r *supportRepositoryImpl) List(ctx context.Context, status string) ([]support.SupportRequest, error) {
	return r.querySupport(ctx, supportSelect+` WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC`, status)
}

func (r *supportRepositoryImpl) ListByDevice(ctx context.Context, deviceID string) ([]support.SupportRequest, error) {
	return r.querySupport(ctx, supportSelect+` WHERE device_id = $1 ORDER BY created_at DESC`, deviceID)
}

func (r *supportRepositoryImpl) Resolve(ctx context.Context, id string, adminResponse *string) (support.SupportRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE support_requests
		SET status = 'resolved', admin_response = $2, resolved_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING id, device_id, user_name, user_email, topic, related_date::text, message,
				  status, admin_response, resolved_at, created_at, updated_at
	`
	s, err := scanSupportRequest(q.QueryRow(ctx, query, id, adminResponse))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return support.SupportRequest{}, support.ErrSupportRequestNotFound
		}
		return support.SupportRequest{}, fmt.Errorf("failed to resolve support request: %w", err)
	}
	return s, nil
}

func (r *supportRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM support_requests WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return support.ErrSupportRequestNotFound
		}
		return fmt.Errorf("failed to delete support request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return support.ErrSupportRequestNotFound
	}
	return nil
}

func (r *supportRepositoryImpl) DeleteResolved(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM support_requests WHERE status = 'resolved'`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete resolved support requests: %w", err)
	}
	return tag.RowsAffected(), nil
}
