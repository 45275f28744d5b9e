package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/repository/postgresql"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	reportRepo        report.ReportRepository
	deviceRequestRepo device.DeviceRequestRepository
	access            device.AccessChecker
	tx                postgresql.Transactor
	publisher         events.Publisher
	now               func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRequestRepository,
	reportRepo report.ReportRepository,
	deviceRequestRepo device.DeviceRequestRepository,
	access device.AccessChecker,
	tx postgresql.Transactor,
	publisher events.Publisher,
) *LeaveServiceImpl {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRepo,
		reportRepo:             reportRepo,
		deviceRequestRepo:      deviceRequestRepo,
		access:                 access,
		tx:                     tx,
		publisher:              publisher,
		now:                    time.Now,
	}
}

// Create files a pending request for the calling device. A reversed range is
// swapped.
func (s *LeaveServiceImpl) Create(ctx context.Context, deviceID string, req leave.CreateLeaveRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return leave.LeaveRequest{}, err
	}

	from, _ := time.Parse(leave.DateLayout, req.LeaveFrom)
	to, _ := time.Parse(leave.DateLayout, req.LeaveTo)
	from, to = leave.NormalizeRange(from, to)
	if leave.DayCount(from, to) > leave.MaxRangeDays {
		return leave.LeaveRequest{}, leave.ErrLeaveRangeTooLong
	}

	newRequest := leave.LeaveRequest{
		DeviceID:    deviceID,
		LeaveFrom:   from.Format(leave.DateLayout),
		LeaveTo:     to.Format(leave.DateLayout),
		LeaveReason: req.LeaveReason,
		Status:      leave.StatusPending,
	}
	profile, err := s.deviceRequestRepo.GetApprovedByDeviceID(ctx, deviceID)
	switch {
	case err == nil:
		newRequest.UserName = profile.Name
		newRequest.UserEmail = profile.Email
	case !errors.Is(err, device.ErrDeviceRequestNotFound):
		return leave.LeaveRequest{}, fmt.Errorf("failed to load device profile: %w", err)
	}

	created, err := s.LeaveRequestRepository.Create(ctx, newRequest)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	change := events.NewChange(events.CollectionLeaveRequests, events.ActionCreated, created.ID, deviceID)
	change.Data = created
	if pending, err := s.LeaveRequestRepository.CountByStatus(ctx, leave.StatusPending); err == nil {
		change.Count = pending
	} else {
		slog.Warn("Failed to count pending leave requests", "error", err)
	}
	s.publisher.Publish(ctx, change)

	return created, nil
}

func (s *LeaveServiceImpl) ListMine(ctx context.Context, deviceID string) ([]leave.LeaveRequest, error) {
	if deviceID == "" {
		return nil, device.ErrDeviceIDRequired
	}
	return s.LeaveRequestRepository.ListByDevice(ctx, deviceID)
}

func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveRequest, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.LeaveRequestRepository.List(ctx, filter)
}

func (s *LeaveServiceImpl) CountPending(ctx context.Context) (int64, error) {
	return s.LeaveRequestRepository.CountByStatus(ctx, leave.StatusPending)
}

// Approve writes one leave report per day of the range and marks the request
// approved in a single transaction. Work and off reports on those days stay
// untouched; only days that already hold a leave report are skipped.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.ApproveResult, error) {
	var result leave.ApproveResult

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		request, err := s.LeaveRequestRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if request.Status != leave.StatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		from, err := time.Parse(leave.DateLayout, request.LeaveFrom)
		if err != nil {
			return fmt.Errorf("invalid leave_from %q: %w", request.LeaveFrom, err)
		}
		to, err := time.Parse(leave.DateLayout, request.LeaveTo)
		if err != nil {
			return fmt.Errorf("invalid leave_to %q: %w", request.LeaveTo, err)
		}
		from, to = leave.NormalizeRange(from, to)

		err = leave.EachDay(from, to, func(day time.Time) error {
			date := day.Format(leave.DateLayout)
			exists, err := s.reportRepo.ExistsForDeviceAndDate(txCtx, request.DeviceID, date, report.StatusLeave)
			if err != nil {
				return err
			}
			if exists {
				result.DaysSkipped++
				return nil
			}

			leaveReport := report.NewLeaveReport(request.DeviceID, date)
			if request.UserName != "" {
				leaveReport.UserName = &request.UserName
			}
			if request.UserEmail != "" {
				leaveReport.UserEmail = &request.UserEmail
			}
			if _, err := s.reportRepo.Create(txCtx, leaveReport); err != nil {
				return fmt.Errorf("failed to create leave report for %s: %w", date, err)
			}
			result.ReportsCreated++
			return nil
		})
		if err != nil {
			return err
		}

		if err := s.LeaveRequestRepository.UpdateStatus(txCtx, id, leave.StatusApproved); err != nil {
			return err
		}
		processedAt := s.now()
		request.Status = leave.StatusApproved
		request.ProcessedAt = &processedAt
		result.LeaveRequest = request
		return nil
	})
	if err != nil {
		return leave.ApproveResult{}, err
	}

	s.publisher.Publish(ctx, events.NewChange(events.CollectionLeaveRequests, events.ActionUpdated, id, result.LeaveRequest.DeviceID))
	if result.ReportsCreated > 0 {
		change := events.NewChange(events.CollectionReports, events.ActionCreated, "", result.LeaveRequest.DeviceID)
		change.Count = int64(result.ReportsCreated)
		s.publisher.Publish(ctx, change)
	}

	slog.Info("Leave request approved",
		"leave_request_id", id,
		"device_id", result.LeaveRequest.DeviceID,
		"reports_created", result.ReportsCreated,
		"days_skipped", result.DaysSkipped,
	)
	return result, nil
}

func (s *LeaveServiceImpl) Reject(ctx context.Context, id string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	if err := s.LeaveRequestRepository.UpdateStatus(ctx, id, leave.StatusRejected); err != nil {
		return leave.LeaveRequest{}, err
	}

	processedAt := s.now()
	request.Status = leave.StatusRejected
	request.ProcessedAt = &processedAt
	s.publisher.Publish(ctx, events.NewChange(events.CollectionLeaveRequests, events.ActionUpdated, id, request.DeviceID))
	return request, nil
}

func (s *LeaveServiceImpl) Delete(ctx context.Context, id string) error {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.LeaveRequestRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionLeaveRequests, events.ActionDeleted, id, request.DeviceID))
	return nil
}
