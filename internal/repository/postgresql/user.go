package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id, email, name, role, device_id, password_hash, oauth_provider, oauth_provider_id,
	last_login_at, created_at, updated_at
`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Role,
		&u.DeviceID,
		&u.PasswordHash,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `WHERE email = LOWER($1)`, email)
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *userRepositoryImpl) GetByDeviceID(ctx context.Context, deviceID string) (user.User, error) {
	return r.getOne(ctx, `WHERE device_id = $1 ORDER BY updated_at DESC LIMIT 1`, deviceID)
}

// Upsert keeps an existing password hash when the incoming one is nil.
func (r *userRepositoryImpl) Upsert(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (email, name, role, device_id, password_hash)
		VALUES (LOWER($1), $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, users.name),
			role = EXCLUDED.role,
			device_id = COALESCE(EXCLUDED.device_id, users.device_id),
			password_hash = COALESCE(EXCLUDED.password_hash, users.password_hash),
			updated_at = NOW()
		RETURNING ` + userColumns

	saved, err := scanUser(q.QueryRow(ctx, query, u.Email, u.Name, u.Role, u.DeviceID, u.PasswordHash))
	if err != nil {
		return user.User{}, fmt.Errorf("failed to upsert user: %w", err)
	}
	return saved, nil
}

func (r *userRepositoryImpl) UpdateDevice(ctx context.Context, email, deviceID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET device_id = $2, updated_at = NOW() WHERE email = LOWER($1)`, email, deviceID)
	if err != nil {
		return fmt.Errorf("failed to update user device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET oauth_provider = 'google', oauth_provider_id = $1, updated_at = NOW()
		WHERE email = LOWER($2)
		RETURNING ` + userColumns

	u, err := scanUser(q.QueryRow(ctx, query, googleID, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to link google account: %w", err)
	}
	return u, nil
}

func (r *userRepositoryImpl) TouchLastLogin(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *userRepositoryImpl) DeleteByEmailOrDevice(ctx context.Context, email, deviceID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`DELETE FROM users WHERE role = 'personal' AND (($1 <> '' AND email = LOWER($1)) OR ($2 <> '' AND device_id = $2))`,
		email, deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return tag.RowsAffected(), nil
}
