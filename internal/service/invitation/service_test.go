package invitation

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/config"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/invitation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	configured bool
	err        error
	sent       [][2]string
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) SendInvite(to, link string) error {
	m.sent = append(m.sent, [2]string{to, link})
	return m.err
}

type memInvites struct {
	invitation.InviteRepository
	rows map[string]invitation.Invite
}

func (m *memInvites) Create(_ context.Context, inv invitation.Invite) (invitation.Invite, error) {
	inv.ID = "inv-1"
	m.rows[inv.ID] = inv
	return inv, nil
}

func (m *memInvites) ExistsActiveByEmail(_ context.Context, email string) (bool, error) {
	for _, inv := range m.rows {
		if inv.Email == email && inv.Status != invitation.StatusRevoked {
			return true, nil
		}
	}
	return false, nil
}

func (m *memInvites) GetByID(_ context.Context, id string) (invitation.Invite, error) {
	inv, ok := m.rows[id]
	if !ok {
		return invitation.Invite{}, invitation.ErrInviteNotFound
	}
	return inv, nil
}

func (m *memInvites) MarkEmailSent(_ context.Context, id string) error {
	inv := m.rows[id]
	inv.EmailSent = true
	m.rows[id] = inv
	return nil
}

func (m *memInvites) UpdateStatus(_ context.Context, id string, status invitation.Status) error {
	inv := m.rows[id]
	inv.Status = status
	m.rows[id] = inv
	return nil
}

type noApprovedDevices struct {
	device.DeviceRequestRepository
	approved map[string]bool
}

func (n *noApprovedDevices) GetApprovedByEmail(_ context.Context, email string) (device.DeviceRequest, error) {
	if n.approved[email] {
		return device.DeviceRequest{Email: email, Status: device.RequestStatusApproved}, nil
	}
	return device.DeviceRequest{}, device.ErrDeviceRequestNotFound
}

func newInviteService(mailer *fakeMailer) (*InvitationServiceImpl, *memInvites, *noApprovedDevices) {
	invites := &memInvites{rows: map[string]invitation.Invite{}}
	devices := &noApprovedDevices{approved: map[string]bool{}}
	admins := config.AdminConfig{Whitelist: []string{"chef@example.com"}}
	svc := NewInvitationService(invites, devices, mailer, admins, "https://app.example.com/", nil)
	return svc, invites, devices
}

func TestSendInviteEmail_Preconditions(t *testing.T) {
	ctx := context.Background()
	admin := invitation.Caller{Email: "someone@example.com", IsAdmin: true}

	tests := []struct {
		name    string
		caller  invitation.Caller
		req     invitation.SendInviteRequest
		mailer  *fakeMailer
		wantErr error
	}{
		{"anonymous caller", invitation.Caller{}, invitation.SendInviteRequest{To: "a@b.de"}, &fakeMailer{configured: true}, invitation.ErrPermissionDenied},
		{"non admin caller", invitation.Caller{Email: "x@example.com"}, invitation.SendInviteRequest{To: "a@b.de"}, &fakeMailer{configured: true}, invitation.ErrPermissionDenied},
		{"missing recipient", admin, invitation.SendInviteRequest{To: "  "}, &fakeMailer{configured: true}, invitation.ErrInvalidArgument},
		{"relay not configured", admin, invitation.SendInviteRequest{To: "a@b.de"}, &fakeMailer{}, invitation.ErrFailedPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newInviteService(tt.mailer)
			err := svc.SendInviteEmail(ctx, tt.caller, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, tt.mailer.sent)
		})
	}
}

func TestSendInviteEmail_WhitelistedCallerSendsOnce(t *testing.T) {
	mailer := &fakeMailer{configured: true}
	svc, _, _ := newInviteService(mailer)

	err := svc.SendInviteEmail(context.Background(), invitation.Caller{Email: "Chef@Example.com"}, invitation.SendInviteRequest{To: "new@example.com"})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "new@example.com", mailer.sent[0][0])
	assert.Equal(t, "https://app.example.com", mailer.sent[0][1])
}

func TestSendInviteEmail_FailureIsNotRetried(t *testing.T) {
	mailer := &fakeMailer{configured: true, err: errors.New("relay down")}
	svc, _, _ := newInviteService(mailer)

	err := svc.SendInviteEmail(context.Background(), invitation.Caller{IsAdmin: true}, invitation.SendInviteRequest{To: "new@example.com", Link: "https://x"})
	assert.Error(t, err)
	assert.Len(t, mailer.sent, 1)
}

func TestCreate_BuildsEncodedLinkAndSends(t *testing.T) {
	mailer := &fakeMailer{configured: true}
	svc, invites, _ := newInviteService(mailer)

	inv, err := svc.Create(context.Background(), invitation.Caller{IsAdmin: true}, invitation.CreateInviteRequest{Email: " Jo+Team@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "jo+team@example.com", inv.Email)
	assert.Equal(t, invitation.RolePersonal, inv.Role)
	assert.Equal(t, "https://app.example.com/invite?email=jo%2Bteam%40example.com", inv.Link)
	assert.True(t, inv.EmailSent)
	assert.True(t, invites.rows["inv-1"].EmailSent)
	require.Len(t, mailer.sent, 1)
}

func TestCreate_RejectsExistingInviteOrDevice(t *testing.T) {
	svc, _, devices := newInviteService(&fakeMailer{})
	ctx := context.Background()
	admin := invitation.Caller{IsAdmin: true}

	_, err := svc.Create(ctx, admin, invitation.CreateInviteRequest{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, invitation.CreateInviteRequest{Email: "a@example.com"})
	assert.ErrorIs(t, err, invitation.ErrInviteExists)

	devices.approved["b@example.com"] = true
	_, err = svc.Create(ctx, admin, invitation.CreateInviteRequest{Email: "b@example.com"})
	assert.ErrorIs(t, err, invitation.ErrInviteExists)
}

func TestRevoke_AcceptedInviteIsKept(t *testing.T) {
	svc, invites, _ := newInviteService(&fakeMailer{})
	invites.rows["inv-9"] = invitation.Invite{ID: "inv-9", Status: invitation.StatusAccepted}

	_, err := svc.Revoke(context.Background(), "inv-9")
	assert.ErrorIs(t, err, invitation.ErrCannotRevokeAccepted)
	assert.Equal(t, invitation.StatusAccepted, invites.rows["inv-9"].Status)
}
