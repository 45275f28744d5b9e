package report

import (
	"context"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
)

func (s *ReportServiceImpl) List(ctx context.Context, filter report.ReportFilter) (report.ListReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.ListReportResponse{}, err
	}
	if filter.Limit > 0 && filter.Page == 0 {
		filter.Page = 1
	}

	reports, total, err := s.ReportRepository.List(ctx, filter)
	if err != nil {
		return report.ListReportResponse{}, err
	}
	if reports == nil {
		reports = []report.Report{}
	}

	totalPages := 1
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	return report.ListReportResponse{
		Reports:    reports,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *ReportServiceImpl) GetByID(ctx context.Context, id string) (report.Report, error) {
	return s.ReportRepository.GetByID(ctx, id)
}

func optionalClock(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	c := *v
	return &c
}

func hasValue(v *string) bool {
	return v != nil && *v != ""
}

// AdminUpdate applies an admin edit and re-derives hours. A complete
// overtime pair sets overtime to its duration and leaves normal hours
// uncapped; otherwise the 8h cap moves the excess into overtime. Clearing
// both overtime times switches back to the automatic split.
func (s *ReportServiceImpl) AdminUpdate(ctx context.Context, id string, req report.AdminUpdateReportRequest) (report.Report, error) {
	if err := req.Validate(); err != nil {
		return report.Report{}, err
	}

	r, err := s.ReportRepository.GetByID(ctx, id)
	if err != nil {
		return report.Report{}, err
	}

	if req.Date != nil {
		r.Date = *req.Date
	}
	if req.Status != nil {
		r.Status = report.Status(*req.Status)
	}
	if req.StartTime != nil {
		r.StartTime = optionalClock(req.StartTime)
	}
	if req.EndTime != nil {
		r.EndTime = optionalClock(req.EndTime)
	}
	if req.OvertimeStartTime != nil {
		r.OvertimeStartTime = optionalClock(req.OvertimeStartTime)
	}
	if req.OvertimeEndTime != nil {
		r.OvertimeEndTime = optionalClock(req.OvertimeEndTime)
	}
	if req.TotalHours != nil {
		r.TotalHours = *req.TotalHours
	}
	if req.OvertimeHours != nil {
		r.OvertimeHours = *req.OvertimeHours
	}
	if req.Note != nil {
		r.Note = req.Note
	}

	if r.Status != report.StatusWork {
		clearSession(&r)
	} else if err := rederiveHours(&r); err != nil {
		return report.Report{}, err
	}

	if err := s.ReportRepository.Update(ctx, r); err != nil {
		return report.Report{}, err
	}
	s.publish(ctx, events.ActionUpdated, r)
	return r, nil
}

// clearSession strips times and hours from a leave or off day.
func clearSession(r *report.Report) {
	r.StartTime = nil
	r.EndTime = nil
	r.OvertimeStartTime = nil
	r.OvertimeEndTime = nil
	r.TotalHours = 0
	r.OvertimeHours = 0
	r.IsOpen = false
	r.IsOvertimeOpen = false
	r.HasOvertime = false
}

func rederiveHours(r *report.Report) error {
	manual := r.HasManualOvertime()
	if manual {
		overtime, err := report.CalculateHours(*r.OvertimeStartTime, *r.OvertimeEndTime)
		if err != nil {
			return err
		}
		r.OvertimeHours = overtime
		r.HasOvertime = true
		r.IsOvertimeOpen = false
	} else if r.OvertimeStartTime == nil && r.OvertimeEndTime == nil {
		r.HasOvertime = false
		r.IsOvertimeOpen = false
	}

	if hasValue(r.StartTime) && hasValue(r.EndTime) {
		normal, overtime, err := report.DeriveHours(*r.StartTime, *r.EndTime, manual)
		if err != nil {
			return err
		}
		r.TotalHours = normal
		if !manual {
			r.OvertimeHours = overtime
		}
	}
	if hasValue(r.EndTime) {
		r.IsOpen = false
	}
	return nil
}

func (s *ReportServiceImpl) Delete(ctx context.Context, id string) error {
	r, err := s.ReportRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ReportRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionReports, events.ActionDeleted, id, r.DeviceID))
	return nil
}

func (s *ReportServiceImpl) DeleteSelected(ctx context.Context, ids []string) (int64, error) {
	req := report.DeleteSelectedRequest{IDs: ids}
	if err := req.Validate(); err != nil {
		return 0, err
	}
	deleted, err := s.ReportRepository.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	change := events.NewChange(events.CollectionReports, events.ActionDeleted, "", "")
	change.Count = deleted
	s.publisher.Publish(ctx, change)
	return deleted, nil
}
