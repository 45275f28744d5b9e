package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const deviceRequestSelect = `
	SELECT id, email, name, device_id, status, phone, address, photo_url,
		   location_consent, created_at, updated_at
	FROM device_requests
`

type deviceRequestRepositoryImpl struct {
	db *database.DB
}

func NewDeviceRequestRepository(db *database.DB) device.DeviceRequestRepository {
	return &deviceRequestRepositoryImpl{db: db}
}

func scanDeviceRequest(row pgx.Row) (device.DeviceRequest, error) {
	var d device.DeviceRequest
	err := row.Scan(
		&d.ID,
		&d.Email,
		&d.Name,
		&d.DeviceID,
		&d.Status,
		&d.Phone,
		&d.Address,
		&d.PhotoURL,
		&d.LocationConsent,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func (r *deviceRequestRepositoryImpl) getOne(ctx context.Context, where string, args ...interface{}) (device.DeviceRequest, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDeviceRequest(q.QueryRow(ctx, deviceRequestSelect+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return device.DeviceRequest{}, device.ErrDeviceRequestNotFound
		}
		return device.DeviceRequest{}, fmt.Errorf("failed to get device request: %w", err)
	}
	return d, nil
}

func (r *deviceRequestRepositoryImpl) Create(ctx context.Context, req device.DeviceRequest) (device.DeviceRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO device_requests (email, name, device_id, status, phone, address, location_consent)
		VALUES ($1, $2, $3, 'pending', $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		req.Email, req.Name, req.DeviceID, req.Phone, req.Address, req.LocationConsent,
	).Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return device.DeviceRequest{}, fmt.Errorf("failed to create device request: %w", err)
	}
	return req, nil
}

func (r *deviceRequestRepositoryImpl) GetByID(ctx context.Context, id string) (device.DeviceRequest, error) {
	return r.getOne(ctx, ` WHERE id = $1`, id)
}

func (r *deviceRequestRepositoryImpl) GetApprovedByDeviceID(ctx context.Context, deviceID string) (device.DeviceRequest, error) {
	return r.getOne(ctx, ` WHERE device_id = $1 AND status = 'approved' LIMIT 1`, deviceID)
}

func (r *deviceRequestRepositoryImpl) GetApprovedByEmail(ctx context.Context, email string) (device.DeviceRequest, error) {
	return r.getOne(ctx, ` WHERE email = $1 AND status = 'approved' ORDER BY updated_at DESC LIMIT 1`, email)
}

func (r *deviceRequestRepositoryImpl) ExistsActiveForDevice(ctx context.Context, deviceID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM device_requests WHERE device_id = $1 AND status IN ('pending', 'approved'))`, deviceID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check device request: %w", err)
	}
	return exists, nil
}

func (r *deviceRequestRepositoryImpl) List(ctx context.Context, status string) ([]device.DeviceRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, deviceRequestSelect+` WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list device requests: %w", err)
	}
	defer rows.Close()

	out := make([]device.DeviceRequest, 0)
	for rows.Next() {
		d, err := scanDeviceRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device request: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *deviceRequestRepositoryImpl) exec(ctx context.Context, action, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return device.ErrDeviceRequestNotFound
		}
		if isUniqueViolation(err, "uq_device_requests_approved_device") {
			return device.ErrDeviceAlreadyRegistered
		}
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceRequestNotFound
	}
	return nil
}

func (r *deviceRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status device.RequestStatus) error {
	return r.exec(ctx, "update device request status",
		`UPDATE device_requests SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}

func (r *deviceRequestRepositoryImpl) UpdateProfile(ctx context.Context, id string, name string, phone, address *string) error {
	return r.exec(ctx, "update profile",
		`UPDATE device_requests SET name = $2, phone = $3, address = $4, updated_at = NOW() WHERE id = $1`,
		id, name, phone, address)
}

func (r *deviceRequestRepositoryImpl) UpdatePhoto(ctx context.Context, id string, photoURL string) error {
	return r.exec(ctx, "update profile photo",
		`UPDATE device_requests SET photo_url = $2, updated_at = NOW() WHERE id = $1`, id, photoURL)
}

func (r *deviceRequestRepositoryImpl) Rebind(ctx context.Context, id string, deviceID string) error {
	return r.exec(ctx, "rebind device request",
		`UPDATE device_requests SET device_id = $2, status = 'approved', updated_at = NOW() WHERE id = $1`, id, deviceID)
}

func (r *deviceRequestRepositoryImpl) DeleteByEmailOrDevice(ctx context.Context, email, deviceID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`DELETE FROM device_requests WHERE ($1 <> '' AND email = $1) OR ($2 <> '' AND device_id = $2)`, email, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete device requests: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *deviceRequestRepositoryImpl) DeletePending(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM device_requests WHERE status = 'pending'`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending device requests: %w", err)
	}
	return tag.RowsAffected(), nil
}

type deviceAccessRepositoryImpl struct {
	db *database.DB
}

func NewDeviceAccessRepository(db *database.DB) device.DeviceAccessRepository {
	return &deviceAccessRepositoryImpl{db: db}
}

func (r *deviceAccessRepositoryImpl) Get(ctx context.Context, deviceID string) (device.DeviceAccess, error) {
	q := GetQuerier(ctx, r.db)

	var a device.DeviceAccess
	err := q.QueryRow(ctx,
		`SELECT device_id, allowed, email, updated_at FROM device_access WHERE device_id = $1`, deviceID,
	).Scan(&a.DeviceID, &a.Allowed, &a.Email, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.DeviceAccess{}, device.ErrDeviceAccessNotFound
		}
		return device.DeviceAccess{}, fmt.Errorf("failed to get device access: %w", err)
	}
	return a, nil
}

// Upsert merges: a nil email keeps the stored one.
func (r *deviceAccessRepositoryImpl) Upsert(ctx context.Context, access device.DeviceAccess) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO device_access (device_id, allowed, email, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (device_id) DO UPDATE SET
			allowed = EXCLUDED.allowed,
			email = COALESCE(EXCLUDED.email, device_access.email),
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, access.DeviceID, access.Allowed, access.Email); err != nil {
		return fmt.Errorf("failed to upsert device access: %w", err)
	}
	return nil
}

func (r *deviceAccessRepositoryImpl) Delete(ctx context.Context, deviceID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM device_access WHERE device_id = $1`, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete device access: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *deviceAccessRepositoryImpl) List(ctx context.Context) ([]device.DeviceAccess, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT device_id, allowed, email, updated_at FROM device_access ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list device access: %w", err)
	}
	defer rows.Close()

	out := make([]device.DeviceAccess, 0)
	for rows.Next() {
		var a device.DeviceAccess
		if err := rows.Scan(&a.DeviceID, &a.Allowed, &a.Email, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device access: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
