package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/config"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
)

type InvitationServiceImpl struct {
	invitation.InviteRepository
	deviceRequestRepo device.DeviceRequestRepository
	mailer            email.EmailService
	admins            config.AdminConfig
	frontendURL       string
	publisher         events.Publisher
}

func NewInvitationService(
	inviteRepo invitation.InviteRepository,
	deviceRequestRepo device.DeviceRequestRepository,
	mailer email.EmailService,
	admins config.AdminConfig,
	frontendURL string,
	publisher events.Publisher,
) *InvitationServiceImpl {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &InvitationServiceImpl{
		InviteRepository:  inviteRepo,
		deviceRequestRepo: deviceRequestRepo,
		mailer:            mailer,
		admins:            admins,
		frontendURL:       strings.TrimRight(frontendURL, "/"),
		publisher:         publisher,
	}
}

// InviteLink points the registration screen at the invited email.
func (s *InvitationServiceImpl) InviteLink(emailAddr string) string {
	return s.frontendURL + "/invite?email=" + url.QueryEscape(emailAddr)
}

func (s *InvitationServiceImpl) authorize(caller invitation.Caller) error {
	if caller.IsAdmin || (caller.Email != "" && s.admins.IsWhitelisted(caller.Email)) {
		return nil
	}
	return invitation.ErrPermissionDenied
}

// Create stores an invite and mails the link when a relay is configured. A
// failed send keeps the invite; it can be resent later.
func (s *InvitationServiceImpl) Create(ctx context.Context, caller invitation.Caller, req invitation.CreateInviteRequest) (invitation.Invite, error) {
	if err := s.authorize(caller); err != nil {
		return invitation.Invite{}, err
	}
	if err := req.Validate(); err != nil {
		return invitation.Invite{}, err
	}

	active, err := s.InviteRepository.ExistsActiveByEmail(ctx, req.Email)
	if err != nil {
		return invitation.Invite{}, err
	}
	if active {
		return invitation.Invite{}, invitation.ErrInviteExists
	}
	_, err = s.deviceRequestRepo.GetApprovedByEmail(ctx, req.Email)
	if err == nil {
		return invitation.Invite{}, invitation.ErrInviteExists
	}
	if !errors.Is(err, device.ErrDeviceRequestNotFound) {
		return invitation.Invite{}, err
	}

	created, err := s.InviteRepository.Create(ctx, invitation.Invite{
		Email:  req.Email,
		Role:   invitation.Role(req.Role),
		Status: invitation.StatusPending,
		Link:   s.InviteLink(req.Email),
	})
	if err != nil {
		return invitation.Invite{}, err
	}

	if s.mailer != nil && s.mailer.Configured() {
		if err := s.mailer.SendInvite(created.Email, created.Link); err != nil {
			slog.Warn("Failed to send invite email", "invite_id", created.ID, "error", err)
		} else if err := s.InviteRepository.MarkEmailSent(ctx, created.ID); err != nil {
			slog.Warn("Failed to mark invite email sent", "invite_id", created.ID, "error", err)
		} else {
			created.EmailSent = true
		}
	}

	change := events.NewChange(events.CollectionInvites, events.ActionCreated, created.ID, "")
	change.Data = created
	s.publisher.Publish(ctx, change)
	return created, nil
}

func (s *InvitationServiceImpl) List(ctx context.Context, status string) ([]invitation.Invite, error) {
	return s.InviteRepository.List(ctx, status)
}

// Lookup resolves the deep link of the registration screen.
func (s *InvitationServiceImpl) Lookup(ctx context.Context, emailAddr string) (invitation.InviteLookupResponse, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return invitation.InviteLookupResponse{}, invitation.ErrInvalidArgument
	}
	inv, err := s.InviteRepository.GetLatestByEmail(ctx, emailAddr)
	if err != nil {
		return invitation.InviteLookupResponse{}, err
	}
	return invitation.InviteLookupResponse{
		Email:  inv.Email,
		Role:   inv.Role,
		Status: inv.Status,
		Valid:  inv.Status == invitation.StatusPending,
	}, nil
}

func (s *InvitationServiceImpl) Revoke(ctx context.Context, id string) (invitation.Invite, error) {
	inv, err := s.InviteRepository.GetByID(ctx, id)
	if err != nil {
		return invitation.Invite{}, err
	}
	if inv.Status == invitation.StatusAccepted {
		return invitation.Invite{}, invitation.ErrCannotRevokeAccepted
	}
	if err := s.InviteRepository.UpdateStatus(ctx, id, invitation.StatusRevoked); err != nil {
		return invitation.Invite{}, err
	}
	inv.Status = invitation.StatusRevoked
	s.publisher.Publish(ctx, events.NewChange(events.CollectionInvites, events.ActionUpdated, id, ""))
	return inv, nil
}

// Resend mails the stored link of an invite again through the invite action.
func (s *InvitationServiceImpl) Resend(ctx context.Context, caller invitation.Caller, id string) (invitation.Invite, error) {
	inv, err := s.InviteRepository.GetByID(ctx, id)
	if err != nil {
		return invitation.Invite{}, err
	}
	if err := s.SendInviteEmail(ctx, caller, invitation.SendInviteRequest{To: inv.Email, Link: inv.Link}); err != nil {
		return invitation.Invite{}, err
	}
	if err := s.InviteRepository.MarkEmailSent(ctx, id); err != nil {
		return invitation.Invite{}, err
	}
	inv.EmailSent = true
	return inv, nil
}

func (s *InvitationServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.InviteRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionInvites, events.ActionDeleted, id, ""))
	return nil
}

// SendInviteEmail sends exactly one invitation email. Checks run in order:
// caller permission, recipient present, relay configured.
func (s *InvitationServiceImpl) SendInviteEmail(ctx context.Context, caller invitation.Caller, req invitation.SendInviteRequest) error {
	if err := s.authorize(caller); err != nil {
		return err
	}
	to := strings.TrimSpace(req.To)
	if to == "" {
		return invitation.ErrInvalidArgument
	}
	if s.mailer == nil || !s.mailer.Configured() {
		slog.Error("SMTP credentials missing")
		return invitation.ErrFailedPrecondition
	}

	link := strings.TrimSpace(req.Link)
	if link == "" {
		link = s.frontendURL
	}
	if err := s.mailer.SendInvite(to, link); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}
	slog.Info("Invite email sent", "to", to)
	return nil
}
