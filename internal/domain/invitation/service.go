package invitation

import "context"

type InvitationService interface {
	Create(ctx context.Context, caller Caller, req CreateInviteRequest) (Invite, error)
	List(ctx context.Context, status string) ([]Invite, error)
	Lookup(ctx context.Context, email string) (InviteLookupResponse, error)
	Revoke(ctx context.Context, id string) (Invite, error)
	Resend(ctx context.Context, caller Caller, id string) (Invite, error)
	Delete(ctx context.Context, id string) error
	// SendInviteEmail is the callable invite email action.
	SendInviteEmail(ctx context.Context, caller Caller, req SendInviteRequest) error
}
