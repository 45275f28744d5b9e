package leave

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inlineTx struct{ calls int }

func (t *inlineTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeLeaveRepo struct {
	leave.LeaveRequestRepository
	requests map[string]leave.LeaveRequest
	created  []leave.LeaveRequest
}

func (f *fakeLeaveRepo) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.ID = "lr-new"
	f.created = append(f.created, r)
	return r, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeLeaveRepo) UpdateStatus(_ context.Context, id string, status leave.Status) error {
	r := f.requests[id]
	r.Status = status
	f.requests[id] = r
	return nil
}

func (f *fakeLeaveRepo) CountByStatus(context.Context, leave.Status) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeReportRepo struct {
	report.ReportRepository
	existing map[string]report.Status
	created  []report.Report
}

func (f *fakeReportRepo) ExistsForDeviceAndDate(_ context.Context, deviceID, date string, status report.Status) (bool, error) {
	got, ok := f.existing[deviceID+"/"+date]
	if !ok {
		return false, nil
	}
	return status == "" || got == status, nil
}

func (f *fakeReportRepo) Create(_ context.Context, r report.Report) (report.Report, error) {
	f.created = append(f.created, r)
	return r, nil
}

type fakeDeviceRequests struct {
	device.DeviceRequestRepository
	approved map[string]device.DeviceRequest
}

func (f *fakeDeviceRequests) GetApprovedByDeviceID(_ context.Context, deviceID string) (device.DeviceRequest, error) {
	r, ok := f.approved[deviceID]
	if !ok {
		return device.DeviceRequest{}, device.ErrDeviceRequestNotFound
	}
	return r, nil
}

type fakeAccess struct {
	device.AccessChecker
	states map[string]device.AccessState
}

func (f *fakeAccess) Require(_ context.Context, deviceID string) error {
	return f.states[deviceID].Err()
}

type recordingPublisher struct{ changes []events.Change }

func (p *recordingPublisher) Publish(_ context.Context, c events.Change) {
	p.changes = append(p.changes, c)
}

func newTestService(requests map[string]leave.LeaveRequest) (*LeaveServiceImpl, *fakeLeaveRepo, *fakeReportRepo, *recordingPublisher) {
	leaveRepo := &fakeLeaveRepo{requests: requests}
	reportRepo := &fakeReportRepo{existing: map[string]report.Status{}}
	deviceRequests := &fakeDeviceRequests{approved: map[string]device.DeviceRequest{
		"dev-1": {DeviceID: "dev-1", Name: "Amira", Email: "amira@example.com", Status: device.RequestStatusApproved},
	}}
	access := &fakeAccess{states: map[string]device.AccessState{
		"dev-1":     device.AccessAllowed,
		"dev-block": device.AccessDenied,
	}}
	pub := &recordingPublisher{}
	svc := NewLeaveService(leaveRepo, reportRepo, deviceRequests, access, &inlineTx{}, pub)
	return svc, leaveRepo, reportRepo, pub
}

func TestApprove_CreatesOneLeaveReportPerDay(t *testing.T) {
	svc, leaveRepo, reportRepo, _ := newTestService(map[string]leave.LeaveRequest{
		"lr-1": {ID: "lr-1", DeviceID: "dev-1", UserName: "Amira", LeaveFrom: "2025-01-10", LeaveTo: "2025-01-12", Status: leave.StatusPending},
	})

	result, err := svc.Approve(context.Background(), "lr-1")
	require.NoError(t, err)

	assert.Equal(t, 3, result.ReportsCreated)
	assert.Equal(t, 0, result.DaysSkipped)
	assert.Equal(t, leave.StatusApproved, result.LeaveRequest.Status)
	assert.NotNil(t, result.LeaveRequest.ProcessedAt)
	assert.Equal(t, leave.StatusApproved, leaveRepo.requests["lr-1"].Status)

	require.Len(t, reportRepo.created, 3)
	for i, date := range []string{"2025-01-10", "2025-01-11", "2025-01-12"} {
		r := reportRepo.created[i]
		assert.Equal(t, date, r.Date)
		assert.Equal(t, report.StatusLeave, r.Status)
		assert.Zero(t, r.TotalHours)
		assert.Nil(t, r.StartTime)
		assert.Nil(t, r.EndTime)
		require.NotNil(t, r.UserName)
		assert.Equal(t, "Amira", *r.UserName)
	}
}

func TestApprove_CoversDaysWithWorkOrOffReports(t *testing.T) {
	svc, _, reportRepo, _ := newTestService(map[string]leave.LeaveRequest{
		"lr-1": {ID: "lr-1", DeviceID: "dev-1", LeaveFrom: "2025-01-10", LeaveTo: "2025-01-12", Status: leave.StatusPending},
	})
	reportRepo.existing["dev-1/2025-01-10"] = report.StatusWork
	reportRepo.existing["dev-1/2025-01-11"] = report.StatusOff

	result, err := svc.Approve(context.Background(), "lr-1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.ReportsCreated)
	assert.Equal(t, 0, result.DaysSkipped)
	require.Len(t, reportRepo.created, 3)
	assert.Equal(t, "2025-01-11", reportRepo.created[1].Date)
}

func TestApprove_SkipsDaysAlreadyOnLeave(t *testing.T) {
	svc, _, reportRepo, _ := newTestService(map[string]leave.LeaveRequest{
		"lr-1": {ID: "lr-1", DeviceID: "dev-1", LeaveFrom: "2025-01-10", LeaveTo: "2025-01-12", Status: leave.StatusPending},
	})
	reportRepo.existing["dev-1/2025-01-11"] = report.StatusLeave

	result, err := svc.Approve(context.Background(), "lr-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.ReportsCreated)
	assert.Equal(t, 1, result.DaysSkipped)
}

func TestApprove_OnlyPending(t *testing.T) {
	svc, _, reportRepo, _ := newTestService(map[string]leave.LeaveRequest{
		"lr-1": {ID: "lr-1", DeviceID: "dev-1", LeaveFrom: "2025-01-10", LeaveTo: "2025-01-10", Status: leave.StatusRejected},
	})

	_, err := svc.Approve(context.Background(), "lr-1")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.Empty(t, reportRepo.created)

	_, err = svc.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestReject_MarksRejected(t *testing.T) {
	svc, leaveRepo, reportRepo, pub := newTestService(map[string]leave.LeaveRequest{
		"lr-1": {ID: "lr-1", DeviceID: "dev-1", LeaveFrom: "2025-01-10", LeaveTo: "2025-01-10", Status: leave.StatusPending},
	})

	got, err := svc.Reject(context.Background(), "lr-1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, got.Status)
	assert.Equal(t, leave.StatusRejected, leaveRepo.requests["lr-1"].Status)
	assert.Empty(t, reportRepo.created)
	require.Len(t, pub.changes, 1)
	assert.Equal(t, events.ActionUpdated, pub.changes[0].Action)
}

func TestCreate_SwapsReversedRangeAndCopiesProfile(t *testing.T) {
	svc, leaveRepo, _, pub := newTestService(map[string]leave.LeaveRequest{})

	got, err := svc.Create(context.Background(), "dev-1", leave.CreateLeaveRequest{LeaveFrom: "2025-03-10", LeaveTo: "2025-03-02"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", got.LeaveFrom)
	assert.Equal(t, "2025-03-10", got.LeaveTo)
	assert.Equal(t, leave.StatusPending, got.Status)
	assert.Equal(t, "Amira", got.UserName)
	assert.Equal(t, "amira@example.com", got.UserEmail)
	require.Len(t, leaveRepo.created, 1)

	require.Len(t, pub.changes, 1)
	assert.Equal(t, events.CollectionLeaveRequests, pub.changes[0].Collection)
	assert.Equal(t, int64(1), pub.changes[0].Count)
}

func TestCreate_RequiresAllowedDevice(t *testing.T) {
	svc, leaveRepo, _, _ := newTestService(map[string]leave.LeaveRequest{})
	req := leave.CreateLeaveRequest{LeaveFrom: "2025-03-01", LeaveTo: "2025-03-02"}

	_, err := svc.Create(context.Background(), "dev-block", req)
	assert.ErrorIs(t, err, device.ErrDeviceNotAllowed)

	_, err = svc.Create(context.Background(), "dev-unknown", req)
	assert.ErrorIs(t, err, device.ErrDeviceNotRegistered)
	assert.Empty(t, leaveRepo.created)
}

func TestCreate_RejectsOverlongRange(t *testing.T) {
	svc, _, _, _ := newTestService(map[string]leave.LeaveRequest{})

	_, err := svc.Create(context.Background(), "dev-1", leave.CreateLeaveRequest{LeaveFrom: "2024-01-01", LeaveTo: "2025-06-01"})
	assert.ErrorIs(t, err, leave.ErrLeaveRangeTooLong)
}
