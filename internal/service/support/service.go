package support

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/support"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
)

type SupportServiceImpl struct {
	support.SupportRepository
	deviceRequestRepo device.DeviceRequestRepository
	access            device.AccessChecker
	publisher         events.Publisher
}

func NewSupportService(
	repo support.SupportRepository,
	deviceRequestRepo device.DeviceRequestRepository,
	access device.AccessChecker,
	publisher events.Publisher,
) *SupportServiceImpl {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &SupportServiceImpl{
		SupportRepository: repo,
		deviceRequestRepo: deviceRequestRepo,
		access:            access,
		publisher:         publisher,
	}
}

func (s *SupportServiceImpl) Create(ctx context.Context, deviceID string, req support.CreateSupportRequest) (support.SupportRequest, error) {
	if err := req.Validate(); err != nil {
		return support.SupportRequest{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return support.SupportRequest{}, err
	}

	newRequest := support.SupportRequest{
		DeviceID: deviceID,
		Topic:    support.Topic(req.Topic),
		Message:  req.Message,
		Status:   support.StatusPending,
	}
	if req.RelatedDate != nil && *req.RelatedDate != "" {
		newRequest.RelatedDate = req.RelatedDate
	}
	profile, err := s.deviceRequestRepo.GetApprovedByDeviceID(ctx, deviceID)
	switch {
	case err == nil:
		newRequest.UserName = profile.Name
		newRequest.UserEmail = profile.Email
	case !errors.Is(err, device.ErrDeviceRequestNotFound):
		return support.SupportRequest{}, fmt.Errorf("failed to load device profile: %w", err)
	}

	created, err := s.SupportRepository.Create(ctx, newRequest)
	if err != nil {
		return support.SupportRequest{}, err
	}

	change := events.NewChange(events.CollectionSupportRequests, events.ActionCreated, created.ID, deviceID)
	change.Data = created
	s.publisher.Publish(ctx, change)
	return created, nil
}

func (s *SupportServiceImpl) ListMine(ctx context.Context, deviceID string) ([]support.SupportRequest, error) {
	if deviceID == "" {
		return nil, device.ErrDeviceIDRequired
	}
	return s.SupportRepository.ListByDevice(ctx, deviceID)
}

func (s *SupportServiceImpl) List(ctx context.Context, status string) ([]support.SupportRequest, error) {
	return s.SupportRepository.List(ctx, status)
}

func (s *SupportServiceImpl) Resolve(ctx context.Context, id string, req support.ResolveRequest) (support.SupportRequest, error) {
	if err := req.Validate(); err != nil {
		return support.SupportRequest{}, err
	}
	current, err := s.SupportRepository.GetByID(ctx, id)
	if err != nil {
		return support.SupportRequest{}, err
	}
	if current.Status == support.StatusResolved {
		return support.SupportRequest{}, support.ErrAlreadyResolved
	}

	resolved, err := s.SupportRepository.Resolve(ctx, id, req.AdminResponse)
	if err != nil {
		return support.SupportRequest{}, err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionSupportRequests, events.ActionUpdated, id, resolved.DeviceID))
	return resolved, nil
}

func (s *SupportServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.SupportRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionSupportRequests, events.ActionDeleted, id, ""))
	return nil
}
