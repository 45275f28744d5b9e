package support

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/support"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSupport struct {
	support.SupportRepository
	rows map[string]support.SupportRequest
}

func (m *memSupport) Create(_ context.Context, r support.SupportRequest) (support.SupportRequest, error) {
	r.ID = "sup-1"
	m.rows[r.ID] = r
	return r, nil
}

func (m *memSupport) GetByID(_ context.Context, id string) (support.SupportRequest, error) {
	r, ok := m.rows[id]
	if !ok {
		return support.SupportRequest{}, support.ErrSupportRequestNotFound
	}
	return r, nil
}

func (m *memSupport) Resolve(_ context.Context, id string, response *string) (support.SupportRequest, error) {
	r := m.rows[id]
	r.Status = support.StatusResolved
	r.AdminResponse = response
	m.rows[id] = r
	return r, nil
}

type profiles struct {
	device.DeviceRequestRepository
}

func (profiles) GetApprovedByDeviceID(_ context.Context, deviceID string) (device.DeviceRequest, error) {
	if deviceID == "dev-1" {
		return device.DeviceRequest{DeviceID: deviceID, Name: "Amira", Email: "amira@example.com"}, nil
	}
	return device.DeviceRequest{}, device.ErrDeviceRequestNotFound
}

type allowOnly struct {
	device.AccessChecker
	allowed string
}

func (a allowOnly) Require(_ context.Context, deviceID string) error {
	if deviceID == a.allowed {
		return nil
	}
	return device.ErrDeviceNotRegistered
}

func TestCreate_NormalizesTopicAndCopiesProfile(t *testing.T) {
	repo := &memSupport{rows: map[string]support.SupportRequest{}}
	svc := NewSupportService(repo, profiles{}, allowOnly{allowed: "dev-1"}, nil)

	got, err := svc.Create(context.Background(), "dev-1", support.CreateSupportRequest{Topic: "wrongReport", Message: "Falsche Endzeit am Montag"})
	require.NoError(t, err)
	assert.Equal(t, support.TopicWrongReport, got.Topic)
	assert.Equal(t, support.StatusPending, got.Status)
	assert.Equal(t, "Amira", got.UserName)
	assert.Nil(t, got.RelatedDate)
}

func TestCreate_UnregisteredDevice(t *testing.T) {
	repo := &memSupport{rows: map[string]support.SupportRequest{}}
	svc := NewSupportService(repo, profiles{}, allowOnly{allowed: "dev-1"}, nil)

	_, err := svc.Create(context.Background(), "dev-x", support.CreateSupportRequest{Topic: "other", Message: "Hallo"})
	assert.ErrorIs(t, err, device.ErrDeviceNotRegistered)
	assert.Empty(t, repo.rows)
}

func TestResolve_OnlyOnce(t *testing.T) {
	repo := &memSupport{rows: map[string]support.SupportRequest{
		"sup-1": {ID: "sup-1", Status: support.StatusPending},
	}}
	svc := NewSupportService(repo, profiles{}, allowOnly{}, nil)
	answer := "Erledigt"

	got, err := svc.Resolve(context.Background(), "sup-1", support.ResolveRequest{AdminResponse: &answer})
	require.NoError(t, err)
	assert.Equal(t, support.StatusResolved, got.Status)

	_, err = svc.Resolve(context.Background(), "sup-1", support.ResolveRequest{})
	assert.ErrorIs(t, err, support.ErrAlreadyResolved)
}
