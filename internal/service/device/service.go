package device

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/repository/postgresql"
)

type DeviceServiceImpl struct {
	device.DeviceRequestRepository
	accessRepo    device.DeviceAccessRepository
	access        device.AccessChecker
	inviteRepo    invitation.InviteRepository
	userRepo      user.UserRepository
	notifications notification.Service
	tx            postgresql.Transactor
	publisher     events.Publisher
}

func NewDeviceService(
	requestRepo device.DeviceRequestRepository,
	accessRepo device.DeviceAccessRepository,
	access device.AccessChecker,
	inviteRepo invitation.InviteRepository,
	userRepo user.UserRepository,
	notifications notification.Service,
	tx postgresql.Transactor,
	publisher events.Publisher,
) *DeviceServiceImpl {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &DeviceServiceImpl{
		DeviceRequestRepository: requestRepo,
		accessRepo:              accessRepo,
		access:                  access,
		inviteRepo:              inviteRepo,
		userRepo:                userRepo,
		notifications:           notifications,
		tx:                      tx,
		publisher:               publisher,
	}
}

func (s *DeviceServiceImpl) publishRequest(ctx context.Context, action events.Action, req device.DeviceRequest) {
	change := events.NewChange(events.CollectionDeviceRequests, action, req.ID, req.DeviceID)
	change.Data = req
	s.publisher.Publish(ctx, change)
}

// Register files a pending binding request for a device. A device can hold
// only one pending or approved request at a time.
func (s *DeviceServiceImpl) Register(ctx context.Context, req device.RegisterDeviceRequest) (device.DeviceRequest, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceRequest{}, err
	}

	exists, err := s.DeviceRequestRepository.ExistsActiveForDevice(ctx, req.DeviceID)
	if err != nil {
		return device.DeviceRequest{}, err
	}
	if exists {
		return device.DeviceRequest{}, device.ErrDeviceAlreadyRegistered
	}

	created, err := s.DeviceRequestRepository.Create(ctx, device.DeviceRequest{
		Email:           req.Email,
		Name:            req.Name,
		DeviceID:        req.DeviceID,
		Status:          device.RequestStatusPending,
		Phone:           req.Phone,
		Address:         req.Address,
		LocationConsent: req.LocationConsent,
	})
	if err != nil {
		return device.DeviceRequest{}, err
	}

	s.publishRequest(ctx, events.ActionCreated, created)
	return created, nil
}

func (s *DeviceServiceImpl) List(ctx context.Context, status string) ([]device.DeviceRequest, error) {
	if status != "" && !device.RequestStatus(status).Valid() {
		var errs validator.ValidationErrors
		errs.Add("status", "status must be one of pending, approved, rejected")
		return nil, errs.OrNil()
	}
	return s.DeviceRequestRepository.List(ctx, status)
}

// Approve binds the device: write access is granted, the invite for the
// email is accepted and a personnel identity row is created.
func (s *DeviceServiceImpl) Approve(ctx context.Context, id string) (device.DeviceRequest, error) {
	var approved device.DeviceRequest

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.DeviceRequestRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if req.Status != device.RequestStatusPending {
			return device.ErrDeviceRequestProcessed
		}

		bound, err := s.DeviceRequestRepository.GetApprovedByEmail(txCtx, req.Email)
		switch {
		case err == nil && bound.DeviceID != req.DeviceID:
			return device.ErrEmailAlreadyBound
		case err != nil && !errors.Is(err, device.ErrDeviceRequestNotFound):
			return err
		}

		email := req.Email
		if err := s.accessRepo.Upsert(txCtx, device.DeviceAccess{DeviceID: req.DeviceID, Allowed: true, Email: &email}); err != nil {
			return err
		}
		if err := s.DeviceRequestRepository.UpdateStatus(txCtx, id, device.RequestStatusApproved); err != nil {
			return err
		}
		if err := s.inviteRepo.MarkAccepted(txCtx, req.Email, req.DeviceID); err != nil {
			return err
		}

		deviceID := req.DeviceID
		identity := user.User{Email: req.Email, Role: user.RolePersonal, DeviceID: &deviceID}
		if req.Name != "" {
			name := req.Name
			identity.Name = &name
		}
		if _, err := s.userRepo.Upsert(txCtx, identity); err != nil {
			return err
		}

		req.Status = device.RequestStatusApproved
		approved = req
		return nil
	})
	if err != nil {
		return device.DeviceRequest{}, err
	}

	s.access.Invalidate(ctx, approved.DeviceID)
	s.publishRequest(ctx, events.ActionUpdated, approved)
	s.publisher.Publish(ctx, events.NewChange(events.CollectionDeviceAccess, events.ActionUpdated, approved.DeviceID, approved.DeviceID))

	slog.Info("Device request approved", "device_request_id", id, "device_id", approved.DeviceID)
	return approved, nil
}

func (s *DeviceServiceImpl) Reject(ctx context.Context, id string) (device.DeviceRequest, error) {
	req, err := s.DeviceRequestRepository.GetByID(ctx, id)
	if err != nil {
		return device.DeviceRequest{}, err
	}
	if req.Status != device.RequestStatusPending {
		return device.DeviceRequest{}, device.ErrDeviceRequestProcessed
	}
	if err := s.DeviceRequestRepository.UpdateStatus(ctx, id, device.RequestStatusRejected); err != nil {
		return device.DeviceRequest{}, err
	}

	req.Status = device.RequestStatusRejected
	s.publishRequest(ctx, events.ActionUpdated, req)
	return req, nil
}

// SetAccess toggles the write gate of a device. The bound email is kept
// unless the request names a new one.
func (s *DeviceServiceImpl) SetAccess(ctx context.Context, deviceID string, req device.SetAccessRequest) (device.DeviceAccess, error) {
	if deviceID == "" {
		return device.DeviceAccess{}, device.ErrDeviceIDRequired
	}

	access := device.DeviceAccess{DeviceID: deviceID, Allowed: req.Allowed, Email: req.Email}
	if access.Email == nil {
		existing, err := s.accessRepo.Get(ctx, deviceID)
		switch {
		case err == nil:
			access.Email = existing.Email
		case !errors.Is(err, device.ErrDeviceAccessNotFound):
			return device.DeviceAccess{}, err
		}
	}

	if err := s.accessRepo.Upsert(ctx, access); err != nil {
		return device.DeviceAccess{}, err
	}
	s.access.Invalidate(ctx, deviceID)

	change := events.NewChange(events.CollectionDeviceAccess, events.ActionUpdated, deviceID, deviceID)
	change.Data = access
	s.publisher.Publish(ctx, change)
	return access, nil
}

func (s *DeviceServiceImpl) ListAccess(ctx context.Context) ([]device.DeviceAccess, error) {
	return s.accessRepo.List(ctx)
}

func (s *DeviceServiceImpl) CheckAccess(ctx context.Context, deviceID string) (device.AccessResponse, error) {
	state, err := s.access.State(ctx, deviceID)
	if err != nil {
		return device.AccessResponse{}, err
	}
	return device.AccessResponse{
		DeviceID: deviceID,
		State:    state,
		Allowed:  state == device.AccessAllowed,
	}, nil
}

func (s *DeviceServiceImpl) GetProfile(ctx context.Context, deviceID string) (device.DeviceRequest, error) {
	if deviceID == "" {
		return device.DeviceRequest{}, device.ErrDeviceIDRequired
	}
	profile, err := s.DeviceRequestRepository.GetApprovedByDeviceID(ctx, deviceID)
	if errors.Is(err, device.ErrDeviceRequestNotFound) {
		return device.DeviceRequest{}, device.ErrProfileNotFound
	}
	return profile, err
}

func displayName(req device.DeviceRequest) string {
	if req.Name != "" {
		return req.Name
	}
	return req.Email
}

func (s *DeviceServiceImpl) notify(ctx context.Context, profile device.DeviceRequest, kind notification.NotificationType, changes []string, message string) {
	if s.notifications == nil {
		return
	}
	requestID := profile.ID
	err := s.notifications.QueueNotification(ctx, notification.CreateNotificationRequest{
		Type:            kind,
		DeviceRequestID: &requestID,
		DeviceID:        profile.DeviceID,
		UserName:        profile.Name,
		UserEmail:       profile.Email,
		Changes:         changes,
		Message:         message,
	})
	if err != nil {
		slog.Warn("Failed to queue notification", "type", kind, "device_id", profile.DeviceID, "error", err)
	}
}

// UpdateProfile edits the owning device's contact data and notifies admins
// in the caller's language.
func (s *DeviceServiceImpl) UpdateProfile(ctx context.Context, deviceID, lang string, req device.UpdateProfileRequest) (device.DeviceRequest, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceRequest{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return device.DeviceRequest{}, err
	}

	profile, err := s.GetProfile(ctx, deviceID)
	if err != nil {
		return device.DeviceRequest{}, err
	}
	if err := s.DeviceRequestRepository.UpdateProfile(ctx, profile.ID, req.Name, req.Phone, req.Address); err != nil {
		return device.DeviceRequest{}, err
	}

	profile.Name = req.Name
	profile.Phone = req.Phone
	profile.Address = req.Address

	if _, err := s.userRepo.Upsert(ctx, user.User{Email: profile.Email, Name: &req.Name, Role: user.RolePersonal, DeviceID: &profile.DeviceID}); err != nil {
		slog.Warn("Failed to sync user name", "email", profile.Email, "error", err)
	}

	s.notify(ctx, profile, notification.TypeProfileUpdate, []string{"name", "phone", "address"},
		i18n.Pick(i18n.Parse(lang),
			req.Name+" hat Profilinformationen aktualisiert",
			req.Name+" قام بتحديث معلومات الملف الشخصي",
		))
	s.publishRequest(ctx, events.ActionUpdated, profile)
	return profile, nil
}

func (s *DeviceServiceImpl) UpdatePhoto(ctx context.Context, deviceID, lang string, req device.UpdatePhotoRequest) (device.DeviceRequest, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceRequest{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return device.DeviceRequest{}, err
	}

	profile, err := s.GetProfile(ctx, deviceID)
	if err != nil {
		return device.DeviceRequest{}, err
	}
	if err := s.DeviceRequestRepository.UpdatePhoto(ctx, profile.ID, req.PhotoURL); err != nil {
		return device.DeviceRequest{}, err
	}
	profile.PhotoURL = &req.PhotoURL

	name := displayName(profile)
	s.notify(ctx, profile, notification.TypePhotoUpdate, []string{"photoURL"},
		i18n.Pick(i18n.Parse(lang),
			name+" hat das Profilfoto aktualisiert",
			name+" قام بتحديث صورة الملف الشخصي",
		))
	s.publishRequest(ctx, events.ActionUpdated, profile)
	return profile, nil
}
