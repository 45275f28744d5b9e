package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/maintenance"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/support"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Repositories bundles the tables the bulk tools touch.
type Repositories struct {
	Reports        report.ReportRepository
	Leaves         leave.LeaveRequestRepository
	DeviceRequests device.DeviceRequestRepository
	DeviceAccess   device.DeviceAccessRepository
	Users          user.UserRepository
	Support        support.SupportRepository
	Pings          location.PingRepository
}

type MaintenanceServiceImpl struct {
	repos     Repositories
	access    device.AccessChecker
	tx        postgresql.Transactor
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
}

func NewMaintenanceService(repos Repositories, access device.AccessChecker, tx postgresql.Transactor, publisher events.Publisher, loc *time.Location) *MaintenanceServiceImpl {
	if publisher == nil {
		publisher = events.Nop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &MaintenanceServiceImpl{
		repos:     repos,
		access:    access,
		tx:        tx,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
	}
}

// deleteStep is one independent deletion run by runSteps.
type deleteStep struct {
	name string
	run  func(ctx context.Context) (int64, error)
}

// runSteps executes every step concurrently and waits for all of them. A
// failing step never cancels its siblings.
func runSteps(ctx context.Context, steps []deleteStep) (maintenance.DeleteResult, error) {
	var (
		mu     sync.Mutex
		result maintenance.DeleteResult
		errs   []error
		g      errgroup.Group
	)
	for _, st := range steps {
		g.Go(func() error {
			n, err := st.run(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, st.name)
				errs = append(errs, fmt.Errorf("%s: %w", st.name, err))
				return nil
			}
			result.Deleted += n
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		sort.Strings(result.Failed)
		return result, fmt.Errorf("%w: %w", maintenance.ErrPartialDeletion, errors.Join(errs...))
	}
	return result, nil
}

func (s *MaintenanceServiceImpl) deviceDataSteps(deviceID string) []deleteStep {
	return []deleteStep{
		{"reports", func(ctx context.Context) (int64, error) { return s.repos.Reports.DeleteByDeviceID(ctx, deviceID) }},
		{"leave_requests", func(ctx context.Context) (int64, error) { return s.repos.Leaves.DeleteByDeviceID(ctx, deviceID) }},
		{"location_pings", func(ctx context.Context) (int64, error) { return s.repos.Pings.DeleteByDeviceID(ctx, deviceID) }},
		{"device_access", func(ctx context.Context) (int64, error) { return s.repos.DeviceAccess.Delete(ctx, deviceID) }},
	}
}

func (s *MaintenanceServiceImpl) DeleteReportsByDevice(ctx context.Context, deviceID string) (maintenance.DeleteResult, error) {
	if deviceID == "" {
		return maintenance.DeleteResult{}, device.ErrDeviceIDRequired
	}
	n, err := s.repos.Reports.DeleteByDeviceID(ctx, deviceID)
	if err != nil {
		return maintenance.DeleteResult{Failed: []string{"reports"}}, err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionReports, events.ActionDeleted, "", deviceID))
	return maintenance.DeleteResult{Deleted: n}, nil
}

func (s *MaintenanceServiceImpl) DeleteUser(ctx context.Context, userID string) (maintenance.DeleteResult, error) {
	u, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return maintenance.DeleteResult{}, err
	}
	deviceID := valueOf(u.DeviceID)

	var steps []deleteStep
	if deviceID != "" {
		steps = append(steps, s.deviceDataSteps(deviceID)...)
	}
	steps = append(steps,
		deleteStep{"device_requests", func(ctx context.Context) (int64, error) {
			return s.repos.DeviceRequests.DeleteByEmailOrDevice(ctx, u.Email, deviceID)
		}},
		deleteStep{"user", func(ctx context.Context) (int64, error) {
			return s.repos.Users.DeleteByEmailOrDevice(ctx, u.Email, deviceID)
		}},
	)

	result, err := runSteps(ctx, steps)
	if deviceID != "" {
		s.access.Invalidate(ctx, deviceID)
	}
	if err != nil {
		slog.Error("User deletion incomplete", "user_id", userID, "failed", result.Failed, "error", err)
		return result, err
	}

	s.publisher.Publish(ctx, events.NewChange(events.CollectionUsers, events.ActionDeleted, userID, deviceID))
	slog.Info("User deleted", "user_id", userID, "device_id", deviceID, "deleted", result.Deleted)
	return result, nil
}

func (s *MaintenanceServiceImpl) DeletePendingDeviceRequests(ctx context.Context) (maintenance.DeleteResult, error) {
	n, err := s.repos.DeviceRequests.DeletePending(ctx)
	if err != nil {
		return maintenance.DeleteResult{Failed: []string{"device_requests"}}, err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionDeviceRequests, events.ActionDeleted, "", ""))
	return maintenance.DeleteResult{Deleted: n}, nil
}

func (s *MaintenanceServiceImpl) DeleteSelectedReports(ctx context.Context, ids []string) (maintenance.DeleteResult, error) {
	req := report.DeleteSelectedRequest{IDs: ids}
	if err := req.Validate(); err != nil {
		return maintenance.DeleteResult{}, err
	}
	n, err := s.repos.Reports.DeleteByIDs(ctx, ids)
	if err != nil {
		return maintenance.DeleteResult{Failed: []string{"reports"}}, err
	}
	change := events.NewChange(events.CollectionReports, events.ActionDeleted, "", "")
	change.Count = n
	s.publisher.Publish(ctx, change)
	return maintenance.DeleteResult{Deleted: n}, nil
}

func (s *MaintenanceServiceImpl) ClearResolvedSupport(ctx context.Context) (maintenance.DeleteResult, error) {
	n, err := s.repos.Support.DeleteResolved(ctx)
	if err != nil {
		return maintenance.DeleteResult{Failed: []string{"support_requests"}}, err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionSupportRequests, events.ActionDeleted, "", ""))
	return maintenance.DeleteResult{Deleted: n}, nil
}

func (s *MaintenanceServiceImpl) collect(ctx context.Context, deviceID string) (maintenance.Backup, error) {
	reports, err := s.repos.Reports.ListByDevice(ctx, deviceID)
	if err != nil {
		return maintenance.Backup{}, err
	}
	leaves, err := s.repos.Leaves.ListByDevice(ctx, deviceID)
	if err != nil {
		return maintenance.Backup{}, err
	}
	if reports == nil {
		reports = []report.Report{}
	}
	if leaves == nil {
		leaves = []leave.LeaveRequest{}
	}
	return maintenance.Backup{
		DeviceID:      deviceID,
		BackupDate:    s.now().UTC().Format(time.RFC3339),
		Reports:       reports,
		LeaveRequests: leaves,
	}, nil
}

// BackupFilename names a backup after the owner's email, falling back to the device id.
func BackupFilename(owner string, at time.Time) string {
	return fmt.Sprintf("backup_%s_%s.json", owner, at.Format(time.DateOnly))
}

func (s *MaintenanceServiceImpl) Backup(ctx context.Context, deviceID string) (maintenance.Backup, string, error) {
	if deviceID == "" {
		return maintenance.Backup{}, "", device.ErrDeviceIDRequired
	}
	b, err := s.collect(ctx, deviceID)
	if err != nil {
		return maintenance.Backup{}, "", err
	}
	if len(b.Reports) == 0 && len(b.LeaveRequests) == 0 {
		return maintenance.Backup{}, "", maintenance.ErrNothingToBackup
	}

	owner := deviceID
	profile, err := s.repos.DeviceRequests.GetApprovedByDeviceID(ctx, deviceID)
	switch {
	case err == nil && profile.Email != "":
		owner = profile.Email
	case err != nil && !errors.Is(err, device.ErrDeviceRequestNotFound):
		return maintenance.Backup{}, "", err
	}
	return b, BackupFilename(owner, s.now().In(s.loc)), nil
}

// restoreID keeps UUID ids and maps anything else onto a stable UUID so a
// backup restored twice updates the same rows.
func restoreID(deviceID, id string) string {
	if id == "" {
		return uuid.NewString()
	}
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(deviceID+"/"+id)).String()
}

func (s *MaintenanceServiceImpl) Restore(ctx context.Context, req maintenance.RestoreRequest) (maintenance.RestoreResult, error) {
	if err := req.Validate(); err != nil {
		return maintenance.RestoreResult{}, err
	}
	if req.Backup.Reports == nil {
		return maintenance.RestoreResult{}, maintenance.ErrInvalidBackup
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.restoreRows(ctx, req)
	})
	if err != nil {
		return maintenance.RestoreResult{}, err
	}

	target := req.TargetDeviceID
	result := maintenance.RestoreResult{
		DeviceID:      target,
		Reports:       len(req.Backup.Reports),
		LeaveRequests: len(req.Backup.LeaveRequests),
	}
	change := events.NewChange(events.CollectionReports, events.ActionUpdated, "", target)
	change.Count = int64(result.Reports)
	s.publisher.Publish(ctx, change)
	slog.Info("Backup restored", "device_id", target, "reports", result.Reports, "leave_requests", result.LeaveRequests)
	return result, nil
}

// restoreRows upserts the backup rows under the target device. It must run
// inside a transaction.
func (s *MaintenanceServiceImpl) restoreRows(ctx context.Context, req maintenance.RestoreRequest) error {
	target := req.TargetDeviceID
	for _, r := range req.Backup.Reports {
		r.ID = restoreID(target, r.ID)
		r.DeviceID = target
		if err := s.repos.Reports.Upsert(ctx, r); err != nil {
			return fmt.Errorf("failed to restore backup: %w", err)
		}
	}
	for _, lr := range req.Backup.LeaveRequests {
		lr.ID = restoreID(target, lr.ID)
		lr.DeviceID = target
		if req.UserName != nil && *req.UserName != "" {
			lr.UserName = *req.UserName
		}
		if req.UserEmail != nil && *req.UserEmail != "" {
			lr.UserEmail = *req.UserEmail
		}
		if err := s.repos.Leaves.Upsert(ctx, lr); err != nil {
			return fmt.Errorf("failed to restore backup: %w", err)
		}
	}
	return nil
}

// ChangeDevice moves a personnel account's history onto a new device. The
// identity row and approved device request survive and are re-bound.
func (s *MaintenanceServiceImpl) ChangeDevice(ctx context.Context, req maintenance.ChangeDeviceRequest) (maintenance.ChangeDeviceResult, error) {
	if err := req.Validate(); err != nil {
		return maintenance.ChangeDeviceResult{}, err
	}
	u, err := s.repos.Users.GetByID(ctx, req.UserID)
	if err != nil {
		return maintenance.ChangeDeviceResult{}, err
	}
	oldDevice := valueOf(u.DeviceID)
	if oldDevice == "" {
		return maintenance.ChangeDeviceResult{}, maintenance.ErrUserHasNoDevice
	}
	if oldDevice == req.NewDeviceID {
		return maintenance.ChangeDeviceResult{}, maintenance.ErrSameDevice
	}

	backup, err := s.collect(ctx, oldDevice)
	if err != nil {
		return maintenance.ChangeDeviceResult{}, fmt.Errorf("failed to back up old device: %w", err)
	}
	profile, err := s.repos.DeviceRequests.GetApprovedByDeviceID(ctx, oldDevice)
	if err != nil && !errors.Is(err, device.ErrDeviceRequestNotFound) {
		return maintenance.ChangeDeviceResult{}, err
	}

	restore := maintenance.RestoreRequest{TargetDeviceID: req.NewDeviceID, Backup: &backup}
	if profile.ID != "" {
		restore.UserName = &profile.Name
		restore.UserEmail = &profile.Email
	}

	// Restore, purge and rebind share one transaction so a failed restore
	// leaves the old device's history in place. Steps run sequentially since
	// a pgx.Tx is not safe for concurrent use.
	var deleted maintenance.DeleteResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.restoreRows(ctx, restore); err != nil {
			return err
		}
		for _, st := range s.deviceDataSteps(oldDevice) {
			n, err := st.run(ctx)
			if err != nil {
				return fmt.Errorf("failed to purge old device: %s: %w", st.name, err)
			}
			deleted.Deleted += n
		}

		email := u.Email
		if err := s.repos.DeviceAccess.Upsert(ctx, device.DeviceAccess{DeviceID: req.NewDeviceID, Allowed: true, Email: &email}); err != nil {
			return fmt.Errorf("failed to bind new device: %w", err)
		}
		if profile.ID != "" {
			if err := s.repos.DeviceRequests.Rebind(ctx, profile.ID, req.NewDeviceID); err != nil {
				return fmt.Errorf("failed to bind new device: %w", err)
			}
		}
		if err := s.repos.Users.UpdateDevice(ctx, u.Email, req.NewDeviceID); err != nil {
			return fmt.Errorf("failed to bind new device: %w", err)
		}
		return nil
	})
	s.access.Invalidate(ctx, oldDevice)
	result := maintenance.ChangeDeviceResult{OldDeviceID: oldDevice, NewDeviceID: req.NewDeviceID}
	if err != nil {
		slog.Error("Device change rolled back", "user_id", u.ID, "old_device_id", oldDevice, "error", err)
		return result, err
	}
	result.Deleted = deleted
	result.Restored = maintenance.RestoreResult{
		DeviceID:      req.NewDeviceID,
		Reports:       len(backup.Reports),
		LeaveRequests: len(backup.LeaveRequests),
	}
	s.access.Invalidate(ctx, req.NewDeviceID)

	s.publisher.Publish(ctx, events.NewChange(events.CollectionDeviceAccess, events.ActionUpdated, req.NewDeviceID, req.NewDeviceID))
	slog.Info("Device changed", "user_id", u.ID, "old_device_id", oldDevice, "new_device_id", req.NewDeviceID)
	return result, nil
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
