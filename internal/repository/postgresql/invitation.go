package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const inviteSelect = `
	SELECT id, email, role, status, device_id, link, email_sent, accepted_at, created_at, updated_at
	FROM invites
`

type inviteRepositoryImpl struct {
	db *database.DB
}

func NewInviteRepository(db *database.DB) invitation.InviteRepository {
	return &inviteRepositoryImpl{db: db}
}

func scanInvite(row pgx.Row) (invitation.Invite, error) {
	var inv invitation.Invite
	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.Role,
		&inv.Status,
		&inv.DeviceID,
		&inv.Link,
		&inv.EmailSent,
		&inv.AcceptedAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	return inv, err
}

func (r *inviteRepositoryImpl) Create(ctx context.Context, inv invitation.Invite) (invitation.Invite, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invites (email, role, status, link)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	if inv.Status == "" {
		inv.Status = invitation.StatusPending
	}
	err := q.QueryRow(ctx, query, inv.Email, inv.Role, inv.Status, inv.Link).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return invitation.Invite{}, fmt.Errorf("failed to create invite: %w", err)
	}
	return inv, nil
}

func (r *inviteRepositoryImpl) GetByID(ctx context.Context, id string) (invitation.Invite, error) {
	q := GetQuerier(ctx, r.db)

	inv, err := scanInvite(q.QueryRow(ctx, inviteSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return invitation.Invite{}, invitation.ErrInviteNotFound
		}
		return invitation.Invite{}, fmt.Errorf("failed to get invite by id: %w", err)
	}
	return inv, nil
}

func (r *inviteRepositoryImpl) GetLatestByEmail(ctx context.Context, email string) (invitation.Invite, error) {
	q := GetQuerier(ctx, r.db)

	inv, err := scanInvite(q.QueryRow(ctx, inviteSelect+` WHERE email = $1 ORDER BY created_at DESC LIMIT 1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invite{}, invitation.ErrInviteNotFound
		}
		return invitation.Invite{}, fmt.Errorf("failed to get invite by email: %w", err)
	}
	return inv, nil
}

func (r *inviteRepositoryImpl) ExistsActiveByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM invites WHERE email = $1 AND status IN ('pending', 'accepted'))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invite existence: %w", err)
	}
	return exists, nil
}

func (r *inviteRepositoryImpl) List(ctx context.Context, status string) ([]invitation.Invite, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, inviteSelect+` WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	invites := make([]invitation.Invite, 0)
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

// MarkAccepted flips the pending invites of email to accepted and records
// the bound device. No invite is not an error.
func (r *inviteRepositoryImpl) MarkAccepted(ctx context.Context, email, deviceID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invites
		SET status = 'accepted', device_id = $2, accepted_at = NOW(), updated_at = NOW()
		WHERE email = $1 AND status = 'pending'
	`
	if _, err := q.Exec(ctx, query, email, deviceID); err != nil {
		return fmt.Errorf("failed to mark invite accepted: %w", err)
	}
	return nil
}

func (r *inviteRepositoryImpl) MarkEmailSent(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE invites SET email_sent = TRUE, updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to mark invite email sent: %w", err)
	}
	return nil
}

func (r *inviteRepositoryImpl) UpdateStatus(ctx context.Context, id string, status invitation.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE invites SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		if isInvalidID(err) {
			return invitation.ErrInviteNotFound
		}
		return fmt.Errorf("failed to update invite status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrInviteNotFound
	}
	return nil
}

func (r *inviteRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return invitation.ErrInviteNotFound
		}
		return fmt.Errorf("failed to delete invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrInviteNotFound
	}
	return nil
}
