package maintenance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/maintenance"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inlineTx struct{}

func (inlineTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memReports struct {
	report.ReportRepository
	mu       sync.Mutex
	rows     []report.Report
	upserted  []report.Report
	failWith  error
	upsertErr error
}

func (m *memReports) ListByDevice(_ context.Context, deviceID string) ([]report.Report, error) {
	var out []report.Report
	for _, r := range m.rows {
		if r.DeviceID == deviceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReports) DeleteByDeviceID(_ context.Context, deviceID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.DeviceID == deviceID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

func (m *memReports) Upsert(_ context.Context, r report.Report) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, r)
	return nil
}

type memLeaves struct {
	leave.LeaveRequestRepository
	rows     []leave.LeaveRequest
	upserted []leave.LeaveRequest
}

func (m *memLeaves) ListByDevice(context.Context, string) ([]leave.LeaveRequest, error) {
	return m.rows, nil
}

func (m *memLeaves) DeleteByDeviceID(context.Context, string) (int64, error) {
	n := int64(len(m.rows))
	m.rows = nil
	return n, nil
}

func (m *memLeaves) Upsert(_ context.Context, lr leave.LeaveRequest) error {
	m.upserted = append(m.upserted, lr)
	return nil
}

type memPings struct {
	location.PingRepository
}

func (memPings) DeleteByDeviceID(context.Context, string) (int64, error) { return 0, nil }

type memAccess struct {
	device.DeviceAccessRepository
	upserted []device.DeviceAccess
}

func (m *memAccess) Delete(context.Context, string) (int64, error) { return 1, nil }

func (m *memAccess) Upsert(_ context.Context, a device.DeviceAccess) error {
	m.upserted = append(m.upserted, a)
	return nil
}

type memRequests struct {
	device.DeviceRequestRepository
	approved device.DeviceRequest
	rebound  string
}

func (m *memRequests) GetApprovedByDeviceID(_ context.Context, deviceID string) (device.DeviceRequest, error) {
	if m.approved.DeviceID == deviceID {
		return m.approved, nil
	}
	return device.DeviceRequest{}, device.ErrDeviceRequestNotFound
}

func (m *memRequests) DeleteByEmailOrDevice(context.Context, string, string) (int64, error) {
	return 1, nil
}

func (m *memRequests) Rebind(_ context.Context, _ string, deviceID string) error {
	m.rebound = deviceID
	return nil
}

type memUsers struct {
	user.UserRepository
	u         user.User
	deleted   bool
	reboundTo string
}

func (m *memUsers) GetByID(_ context.Context, id string) (user.User, error) {
	if id != m.u.ID {
		return user.User{}, user.ErrUserNotFound
	}
	return m.u, nil
}

func (m *memUsers) DeleteByEmailOrDevice(context.Context, string, string) (int64, error) {
	m.deleted = true
	return 1, nil
}

func (m *memUsers) UpdateDevice(_ context.Context, _ string, deviceID string) error {
	m.reboundTo = deviceID
	return nil
}

type nopAccess struct {
	device.AccessChecker
	invalidated []string
}

func (n *nopAccess) Invalidate(_ context.Context, deviceID string) {
	n.invalidated = append(n.invalidated, deviceID)
}

type fixture struct {
	reports  *memReports
	leaves   *memLeaves
	access   *memAccess
	requests *memRequests
	users    *memUsers
	checker  *nopAccess
	svc      *MaintenanceServiceImpl
}

func newFixture() *fixture {
	devID := "dev-old"
	f := &fixture{
		reports:  &memReports{},
		leaves:   &memLeaves{},
		access:   &memAccess{},
		requests: &memRequests{approved: device.DeviceRequest{ID: "req-1", DeviceID: devID, Name: "Lina", Email: "lina@example.com"}},
		users:    &memUsers{u: user.User{ID: "u-1", Email: "lina@example.com", DeviceID: &devID}},
		checker:  &nopAccess{},
	}
	f.svc = NewMaintenanceService(Repositories{
		Reports:        f.reports,
		Leaves:         f.leaves,
		DeviceRequests: f.requests,
		DeviceAccess:   f.access,
		Users:          f.users,
		Pings:          memPings{},
	}, f.checker, inlineTx{}, nil, time.UTC)
	f.svc.now = func() time.Time { return time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestDeleteUser_WithoutReports(t *testing.T) {
	f := newFixture()

	result, err := f.svc.DeleteUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, result.Failed)
	assert.True(t, f.users.deleted)
	assert.Equal(t, []string{"dev-old"}, f.checker.invalidated)
}

func TestDeleteUser_CountsEveryRow(t *testing.T) {
	f := newFixture()
	f.reports.rows = []report.Report{
		{ID: "r1", DeviceID: "dev-old"},
		{ID: "r2", DeviceID: "dev-old"},
		{ID: "r3", DeviceID: "dev-other"},
	}

	result, err := f.svc.DeleteUser(context.Background(), "u-1")
	require.NoError(t, err)
	// two reports, one access row, one device request, one user
	assert.Equal(t, int64(5), result.Deleted)
	assert.Len(t, f.reports.rows, 1)
}

func TestDeleteUser_SurfacesPartialFailure(t *testing.T) {
	f := newFixture()
	boom := errors.New("connection reset")
	f.reports.failWith = boom

	result, err := f.svc.DeleteUser(context.Background(), "u-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, maintenance.ErrPartialDeletion)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"reports"}, result.Failed)
	assert.True(t, f.users.deleted, "other steps still run")
}

func TestBackup_NamesFileAfterEmail(t *testing.T) {
	f := newFixture()
	f.reports.rows = []report.Report{{ID: "r1", DeviceID: "dev-old", Date: "2025-04-01"}}

	b, name, err := f.svc.Backup(context.Background(), "dev-old")
	require.NoError(t, err)
	assert.Equal(t, "backup_lina@example.com_2025-04-02.json", name)
	assert.Equal(t, "2025-04-02T12:00:00Z", b.BackupDate)
	assert.Len(t, b.Reports, 1)
	assert.NotNil(t, b.LeaveRequests)
}

func TestBackup_Empty(t *testing.T) {
	f := newFixture()
	_, _, err := f.svc.Backup(context.Background(), "dev-old")
	assert.ErrorIs(t, err, maintenance.ErrNothingToBackup)
}

func TestRestore_RequiresReports(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Restore(context.Background(), maintenance.RestoreRequest{
		TargetDeviceID: "dev-new",
		Backup:         &maintenance.Backup{},
	})
	assert.ErrorIs(t, err, maintenance.ErrInvalidBackup)
}

func TestRestore_RebindsAndKeepsIDsStable(t *testing.T) {
	f := newFixture()
	keep := uuid.NewString()
	name := "Lina K."
	backup := &maintenance.Backup{
		Reports:       []report.Report{{ID: keep, DeviceID: "dev-old"}, {ID: "legacy-42", DeviceID: "dev-old"}},
		LeaveRequests: []leave.LeaveRequest{{ID: "lv-1", DeviceID: "dev-old", UserName: "Lina"}},
	}

	result, err := f.svc.Restore(context.Background(), maintenance.RestoreRequest{TargetDeviceID: "dev-new", Backup: backup, UserName: &name})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Reports)
	assert.Equal(t, 1, result.LeaveRequests)

	require.Len(t, f.reports.upserted, 2)
	assert.Equal(t, keep, f.reports.upserted[0].ID)
	assert.Equal(t, "dev-new", f.reports.upserted[1].DeviceID)
	assert.Equal(t, restoreID("dev-new", "legacy-42"), f.reports.upserted[1].ID)
	_, parseErr := uuid.Parse(f.reports.upserted[1].ID)
	assert.NoError(t, parseErr)

	assert.Equal(t, "Lina K.", f.leaves.upserted[0].UserName)
}

func TestChangeDevice_MovesHistory(t *testing.T) {
	f := newFixture()
	f.reports.rows = []report.Report{{ID: "legacy-1", DeviceID: "dev-old"}}

	result, err := f.svc.ChangeDevice(context.Background(), maintenance.ChangeDeviceRequest{UserID: "u-1", NewDeviceID: "dev-new"})
	require.NoError(t, err)
	assert.Equal(t, "dev-old", result.OldDeviceID)
	assert.Equal(t, 1, result.Restored.Reports)

	assert.Equal(t, "dev-new", f.requests.rebound)
	assert.Equal(t, "dev-new", f.users.reboundTo)
	require.Len(t, f.access.upserted, 1)
	assert.True(t, f.access.upserted[0].Allowed)
	assert.False(t, f.users.deleted)
	assert.ElementsMatch(t, []string{"dev-old", "dev-new"}, f.checker.invalidated)
}

func TestChangeDevice_SameDevice(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ChangeDevice(context.Background(), maintenance.ChangeDeviceRequest{UserID: "u-1", NewDeviceID: "dev-old"})
	assert.ErrorIs(t, err, maintenance.ErrSameDevice)
}

func TestChangeDevice_FailedRestoreKeepsOldHistory(t *testing.T) {
	f := newFixture()
	f.reports.rows = []report.Report{
		{ID: uuid.NewString(), DeviceID: "dev-old", Date: "2025-03-03"},
		{ID: uuid.NewString(), DeviceID: "dev-old", Date: "2025-03-04"},
	}
	f.reports.upsertErr = errors.New("restore write failed")

	_, err := f.svc.ChangeDevice(context.Background(), maintenance.ChangeDeviceRequest{UserID: "u-1", NewDeviceID: "dev-new"})
	require.Error(t, err)

	kept, _ := f.reports.ListByDevice(context.Background(), "dev-old")
	assert.Len(t, kept, 2)
	assert.Empty(t, f.reports.upserted)
	assert.Empty(t, f.access.upserted)
	assert.Empty(t, f.users.reboundTo)
	assert.Empty(t, f.requests.rebound)
}
