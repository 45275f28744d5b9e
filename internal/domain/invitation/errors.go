package invitation

import "errors"

var (
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteExists         = errors.New("email already has a pending or accepted invite or an approved device")
	ErrCannotRevokeAccepted = errors.New("cannot revoke an accepted invite")

	// Invite email action outcomes
	ErrPermissionDenied   = errors.New("caller is not allowed to send invites")
	ErrInvalidArgument    = errors.New("recipient is required")
	ErrFailedPrecondition = errors.New("mail relay is not configured")
)
