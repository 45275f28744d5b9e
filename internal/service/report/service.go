package report

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
)

const clockLayout = "15:04"

// DefaultHoursWithoutStart is booked when a session is closed that never
// recorded a start time.
const DefaultHoursWithoutStart = 8.0

type ReportServiceImpl struct {
	report.ReportRepository
	access    device.AccessChecker
	holidays  holiday.HolidayService
	leaves    leave.LeaveService
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
}

func NewReportService(
	reportRepo report.ReportRepository,
	access device.AccessChecker,
	holidays holiday.HolidayService,
	leaves leave.LeaveService,
	publisher events.Publisher,
	loc *time.Location,
) *ReportServiceImpl {
	if publisher == nil {
		publisher = events.Nop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ReportServiceImpl{
		ReportRepository: reportRepo,
		access:           access,
		holidays:         holidays,
		leaves:           leaves,
		publisher:        publisher,
		loc:              loc,
		now:              time.Now,
	}
}

func (s *ReportServiceImpl) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *ReportServiceImpl) today() string {
	return s.localNow().Format(leave.DateLayout)
}

func (s *ReportServiceImpl) clockNow() string {
	return s.localNow().Format(clockLayout)
}

func (s *ReportServiceImpl) toLocation(in *report.LocationInput) *report.Location {
	if in == nil {
		return nil
	}
	capturedAt := s.now().UTC()
	if in.CapturedAt != "" {
		if t, err := time.Parse(time.RFC3339, in.CapturedAt); err == nil {
			capturedAt = t.UTC()
		}
	}
	return &report.Location{
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Accuracy:   in.Accuracy,
		CapturedAt: capturedAt,
	}
}

func (s *ReportServiceImpl) publish(ctx context.Context, action events.Action, r report.Report) {
	change := events.NewChange(events.CollectionReports, action, r.ID, r.DeviceID)
	change.Data = r
	s.publisher.Publish(ctx, change)
}

// loadOwned fetches a report and checks it belongs to the calling device.
func (s *ReportServiceImpl) loadOwned(ctx context.Context, deviceID, id string) (report.Report, error) {
	r, err := s.ReportRepository.GetByID(ctx, id)
	if err != nil {
		return report.Report{}, err
	}
	if r.DeviceID != deviceID {
		return report.Report{}, report.ErrReportNotOwned
	}
	return r, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// StartWork opens today's session. A second open report for the same day is
// refused rather than created.
func (s *ReportServiceImpl) StartWork(ctx context.Context, deviceID string, req report.StartWorkRequest) (report.Report, error) {
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return report.Report{}, err
	}

	date := valueOr(req.Date, s.today())
	if err := s.holidays.EnsureNotHoliday(ctx, date); err != nil {
		return report.Report{}, err
	}

	_, err := s.ReportRepository.GetOpenByDeviceAndDate(ctx, deviceID, date)
	if err == nil {
		return report.Report{}, report.ErrReportAlreadyOpen
	}
	if !errors.Is(err, report.ErrReportNotFound) {
		return report.Report{}, err
	}

	start := valueOr(req.StartTime, s.clockNow())
	created, err := s.ReportRepository.Create(ctx, report.Report{
		Date:          date,
		DeviceID:      deviceID,
		Status:        report.StatusWork,
		StartTime:     &start,
		IsOpen:        true,
		StartLocation: s.toLocation(req.Location),
		Note:          req.Note,
	})
	if err != nil {
		return report.Report{}, err
	}

	s.publish(ctx, events.ActionCreated, created)
	return created, nil
}

// EndWork closes an open session and derives its hours. Without a recorded
// start the day is booked with the default hours.
func (s *ReportServiceImpl) EndWork(ctx context.Context, deviceID string, req report.EndWorkRequest) (report.Report, error) {
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return report.Report{}, err
	}

	r, err := s.loadOwned(ctx, deviceID, req.ReportID)
	if err != nil {
		return report.Report{}, err
	}
	if !r.IsOpen {
		return report.Report{}, report.ErrReportNotOpen
	}

	end := valueOr(req.EndTime, s.clockNow())
	manual := r.HasManualOvertime()
	normal, overtime := DefaultHoursWithoutStart, 0.0
	if r.StartTime != nil && *r.StartTime != "" {
		normal, overtime, err = report.DeriveHours(*r.StartTime, end, manual)
		if err != nil {
			return report.Report{}, err
		}
	}

	r.EndTime = &end
	r.EndLocation = s.toLocation(req.Location)
	r.IsOpen = false
	r.TotalHours = normal
	if !manual {
		r.OvertimeHours = overtime
	}
	if req.Note != nil {
		r.Note = req.Note
	}

	if err := s.ReportRepository.Update(ctx, r); err != nil {
		return report.Report{}, err
	}
	s.publish(ctx, events.ActionUpdated, r)
	return r, nil
}

// checkOvertimeStartable maps the report's session state onto the error an
// overtime start reports; nil means the report is closed.
func checkOvertimeStartable(r report.Report) error {
	switch report.DeriveState(&r) {
	case report.StateClosed:
		return nil
	case report.StateOpen:
		return report.ErrReportStillOpen
	case report.StateOvertimeOpen:
		return report.ErrOvertimeAlreadyOpen
	default:
		if r.Status != report.StatusWork {
			return report.ErrLeaveReportHours
		}
		return report.ErrOvertimeAlreadyOpen
	}
}

func (s *ReportServiceImpl) StartOvertime(ctx context.Context, deviceID string, req report.StartOvertimeRequest) (report.Report, error) {
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return report.Report{}, err
	}

	r, err := s.loadOwned(ctx, deviceID, req.ReportID)
	if err != nil {
		return report.Report{}, err
	}
	if err := checkOvertimeStartable(r); err != nil {
		return report.Report{}, err
	}

	start := valueOr(req.StartTime, s.clockNow())
	r.OvertimeStartTime = &start
	r.OvertimeEndTime = nil
	r.OvertimeStartLocation = s.toLocation(req.Location)
	r.IsOvertimeOpen = true

	if err := s.ReportRepository.Update(ctx, r); err != nil {
		return report.Report{}, err
	}
	s.publish(ctx, events.ActionUpdated, r)
	return r, nil
}

func (s *ReportServiceImpl) EndOvertime(ctx context.Context, deviceID string, req report.EndOvertimeRequest) (report.Report, error) {
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return report.Report{}, err
	}

	r, err := s.loadOwned(ctx, deviceID, req.ReportID)
	if err != nil {
		return report.Report{}, err
	}
	if !r.IsOvertimeOpen || r.OvertimeStartTime == nil {
		return report.Report{}, report.ErrOvertimeNotOpen
	}

	end := valueOr(req.EndTime, s.clockNow())
	if err := applyManualOvertime(&r, *r.OvertimeStartTime, end); err != nil {
		return report.Report{}, err
	}
	r.OvertimeEndLocation = s.toLocation(req.Location)

	if err := s.ReportRepository.Update(ctx, r); err != nil {
		return report.Report{}, err
	}
	s.publish(ctx, events.ActionUpdated, r)
	return r, nil
}

// SaveOvertime records a complete overtime pair in one step.
func (s *ReportServiceImpl) SaveOvertime(ctx context.Context, deviceID string, req report.SaveOvertimeRequest) (report.Report, error) {
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return report.Report{}, err
	}

	r, err := s.loadOwned(ctx, deviceID, req.ReportID)
	if err != nil {
		return report.Report{}, err
	}
	if r.Status != report.StatusWork {
		return report.Report{}, report.ErrLeaveReportHours
	}

	if err := applyManualOvertime(&r, req.StartTime, req.EndTime); err != nil {
		return report.Report{}, err
	}

	if err := s.ReportRepository.Update(ctx, r); err != nil {
		return report.Report{}, err
	}
	s.publish(ctx, events.ActionUpdated, r)
	return r, nil
}

// applyManualOvertime stores an explicit overtime session. The session
// replaces any automatic overtime, so normal hours are recomputed unsplit.
func applyManualOvertime(r *report.Report, start, end string) error {
	overtime, err := report.CalculateHours(start, end)
	if err != nil {
		return err
	}
	r.OvertimeStartTime = &start
	r.OvertimeEndTime = &end
	r.OvertimeHours = overtime
	r.HasOvertime = true
	r.IsOvertimeOpen = false

	if r.StartTime != nil && r.EndTime != nil && *r.StartTime != "" && *r.EndTime != "" {
		normal, _, err := report.DeriveHours(*r.StartTime, *r.EndTime, true)
		if err != nil {
			return err
		}
		r.TotalHours = normal
	}
	return nil
}

// SaveManualEntry books a whole day after the fact. A leave day becomes a
// pending single-day leave request instead of a report.
func (s *ReportServiceImpl) SaveManualEntry(ctx context.Context, deviceID string, req report.ManualEntryRequest) (report.ManualEntryResult, error) {
	if err := req.Validate(); err != nil {
		return report.ManualEntryResult{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return report.ManualEntryResult{}, err
	}
	if err := s.holidays.EnsureNotHoliday(ctx, req.Date); err != nil {
		return report.ManualEntryResult{}, err
	}

	status := report.Status(req.Status)
	if status == report.StatusLeave {
		created, err := s.leaves.Create(ctx, deviceID, leave.CreateLeaveRequest{
			LeaveFrom:   req.Date,
			LeaveTo:     req.Date,
			LeaveReason: req.LeaveReason,
		})
		if err != nil {
			return report.ManualEntryResult{}, err
		}
		return report.ManualEntryResult{LeaveRequestID: created.ID}, nil
	}

	entry := report.Report{
		Date:     req.Date,
		DeviceID: deviceID,
		Status:   status,
		Note:     req.Note,
	}
	if status == report.StatusWork {
		if req.StartTime != "" && req.EndTime != "" {
			start, end := req.StartTime, req.EndTime
			normal, overtime, err := report.DeriveHours(start, end, false)
			if err != nil {
				return report.ManualEntryResult{}, err
			}
			entry.StartTime = &start
			entry.EndTime = &end
			entry.TotalHours = normal
			entry.OvertimeHours = overtime
		}
		if req.TotalHours != nil {
			entry.TotalHours = report.ClampHours(*req.TotalHours, report.MaxManualHours)
		}
		if req.OvertimeHours != nil {
			entry.OvertimeHours = report.ClampHours(*req.OvertimeHours, report.MaxManualOvertimeHours)
		}
	}

	created, err := s.ReportRepository.Create(ctx, entry)
	if err != nil {
		return report.ManualEntryResult{}, err
	}
	s.publish(ctx, events.ActionCreated, created)
	return report.ManualEntryResult{Report: &created}, nil
}

func (s *ReportServiceImpl) GetToday(ctx context.Context, deviceID string) (report.TodayResponse, error) {
	if deviceID == "" {
		return report.TodayResponse{}, device.ErrDeviceIDRequired
	}
	today := s.today()

	resp := report.TodayResponse{Date: today, OpenBacklog: []report.Report{}}
	current, err := s.ReportRepository.GetLatestByDeviceAndDate(ctx, deviceID, today)
	switch {
	case err == nil:
		resp.Report = &current
	case !errors.Is(err, report.ErrReportNotFound):
		return report.TodayResponse{}, err
	}
	resp.State = report.DeriveState(resp.Report)
	if resp.Report != nil {
		resp.FormattedWork = report.FormatDecimalHours(resp.Report.TotalHours)
		resp.FormattedOT = report.FormatDecimalHours(resp.Report.OvertimeHours)
	} else {
		resp.FormattedWork = report.FormatDecimalHours(0)
		resp.FormattedOT = report.FormatDecimalHours(0)
	}

	if err := s.holidays.EnsureNotHoliday(ctx, today); err != nil {
		if !errors.Is(err, holiday.ErrHolidayBlocked) {
			return report.TodayResponse{}, err
		}
		resp.IsHoliday = true
	}

	backlog, err := s.ReportRepository.ListOpenBefore(ctx, deviceID, today)
	if err != nil {
		return report.TodayResponse{}, err
	}
	if backlog != nil {
		resp.OpenBacklog = backlog
	}
	return resp, nil
}

// ListOpenBacklog returns open sessions left over from previous days.
func (s *ReportServiceImpl) ListOpenBacklog(ctx context.Context, deviceID string) ([]report.Report, error) {
	if deviceID == "" {
		return nil, device.ErrDeviceIDRequired
	}
	return s.ReportRepository.ListOpenBefore(ctx, deviceID, s.today())
}

func (s *ReportServiceImpl) ListMine(ctx context.Context, deviceID string, filter report.ReportFilter) (report.ListReportResponse, error) {
	if deviceID == "" {
		return report.ListReportResponse{}, device.ErrDeviceIDRequired
	}
	filter.DeviceID = deviceID
	return s.List(ctx, filter)
}
