package report

import (
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

const (
	MaxManualHours         = 24.0
	MaxManualOvertimeHours = 12.0
	MaxNoteLength          = 500
)

type LocationInput struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Accuracy   float64 `json:"accuracy"`
	CapturedAt string  `json:"captured_at,omitempty"`
}

func validateLocation(errs *validator.ValidationErrors, field string, loc *LocationInput) {
	if loc == nil {
		return
	}
	if !validator.IsValidLatitude(loc.Latitude) {
		errs.Add(field+".latitude", "latitude must be between -90 and 90")
	}
	if !validator.IsValidLongitude(loc.Longitude) {
		errs.Add(field+".longitude", "longitude must be between -180 and 180")
	}
	if loc.Accuracy < 0 {
		errs.Add(field+".accuracy", "accuracy must not be negative")
	}
	if loc.CapturedAt != "" {
		if _, ok := validator.IsValidDateTime(loc.CapturedAt); !ok {
			errs.Add(field+".captured_at", "captured_at must be an RFC3339 timestamp")
		}
	}
}

func validateOptionalClock(errs *validator.ValidationErrors, field, value string) {
	if value != "" && !validator.IsValidClock(value) {
		errs.Add(field, field+" must be in HH:MM format")
	}
}

func validateRequiredID(errs *validator.ValidationErrors, id string) {
	if validator.IsEmpty(id) {
		errs.Add("report_id", "report_id is required")
	}
}

type StartWorkRequest struct {
	Date      string         `json:"date,omitempty"`
	StartTime string         `json:"start_time,omitempty"`
	Location  *LocationInput `json:"location,omitempty"`
	Note      *string        `json:"note,omitempty"`
}

func (r *StartWorkRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	validateOptionalClock(&errs, "start_time", r.StartTime)
	validateLocation(&errs, "location", r.Location)
	if r.Note != nil && !validator.MaxLength(*r.Note, MaxNoteLength) {
		errs.Add("note", "note must not exceed 500 characters")
	}
	return errs.OrNil()
}

type EndWorkRequest struct {
	ReportID string         `json:"report_id"`
	EndTime  string         `json:"end_time,omitempty"`
	Location *LocationInput `json:"location,omitempty"`
	Note     *string        `json:"note,omitempty"`
}

func (r *EndWorkRequest) Validate() error {
	var errs validator.ValidationErrors
	validateRequiredID(&errs, r.ReportID)
	validateOptionalClock(&errs, "end_time", r.EndTime)
	validateLocation(&errs, "location", r.Location)
	if r.Note != nil && !validator.MaxLength(*r.Note, MaxNoteLength) {
		errs.Add("note", "note must not exceed 500 characters")
	}
	return errs.OrNil()
}

type StartOvertimeRequest struct {
	ReportID  string         `json:"report_id"`
	StartTime string         `json:"start_time,omitempty"`
	Location  *LocationInput `json:"location,omitempty"`
}

func (r *StartOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors
	validateRequiredID(&errs, r.ReportID)
	validateOptionalClock(&errs, "start_time", r.StartTime)
	validateLocation(&errs, "location", r.Location)
	return errs.OrNil()
}

type EndOvertimeRequest struct {
	ReportID string         `json:"report_id"`
	EndTime  string         `json:"end_time,omitempty"`
	Location *LocationInput `json:"location,omitempty"`
}

func (r *EndOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors
	validateRequiredID(&errs, r.ReportID)
	validateOptionalClock(&errs, "end_time", r.EndTime)
	validateLocation(&errs, "location", r.Location)
	return errs.OrNil()
}

// SaveOvertimeRequest records a complete overtime pair in one step.
type SaveOvertimeRequest struct {
	ReportID  string `json:"report_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (r *SaveOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors
	validateRequiredID(&errs, r.ReportID)
	if validator.IsEmpty(r.StartTime) {
		errs.Add("start_time", "start_time is required")
	} else {
		validateOptionalClock(&errs, "start_time", r.StartTime)
	}
	if validator.IsEmpty(r.EndTime) {
		errs.Add("end_time", "end_time is required")
	} else {
		validateOptionalClock(&errs, "end_time", r.EndTime)
	}
	return errs.OrNil()
}

// ManualEntryRequest is a full-day entry typed in after the fact.
type ManualEntryRequest struct {
	Date          string   `json:"date"`
	Status        string   `json:"status"`
	StartTime     string   `json:"start_time,omitempty"`
	EndTime       string   `json:"end_time,omitempty"`
	TotalHours    *float64 `json:"total_hours,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	Note          *string  `json:"note,omitempty"`
	LeaveReason   *string  `json:"leave_reason,omitempty"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if !Status(r.Status).Valid() {
		errs.Add("status", "status must be one of work, leave, off")
	}
	validateOptionalClock(&errs, "start_time", r.StartTime)
	validateOptionalClock(&errs, "end_time", r.EndTime)
	if r.Note != nil && !validator.MaxLength(*r.Note, MaxNoteLength) {
		errs.Add("note", "note must not exceed 500 characters")
	}
	if r.LeaveReason != nil && !validator.MaxLength(*r.LeaveReason, MaxNoteLength) {
		errs.Add("leave_reason", "leave_reason must not exceed 500 characters")
	}
	return errs.OrNil()
}

// AdminUpdateReportRequest edits any report field. For the time fields an
// empty string clears the value, nil leaves it untouched.
type AdminUpdateReportRequest struct {
	Date              *string  `json:"date,omitempty"`
	Status            *string  `json:"status,omitempty"`
	StartTime         *string  `json:"start_time,omitempty"`
	EndTime           *string  `json:"end_time,omitempty"`
	OvertimeStartTime *string  `json:"overtime_start_time,omitempty"`
	OvertimeEndTime   *string  `json:"overtime_end_time,omitempty"`
	TotalHours        *float64 `json:"total_hours,omitempty"`
	OvertimeHours     *float64 `json:"overtime_hours,omitempty"`
	Note              *string  `json:"note,omitempty"`
}

func (r *AdminUpdateReportRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.Status != nil && !Status(*r.Status).Valid() {
		errs.Add("status", "status must be one of work, leave, off")
	}
	for field, v := range map[string]*string{
		"start_time":          r.StartTime,
		"end_time":            r.EndTime,
		"overtime_start_time": r.OvertimeStartTime,
		"overtime_end_time":   r.OvertimeEndTime,
	} {
		if v != nil {
			validateOptionalClock(&errs, field, *v)
		}
	}
	if r.TotalHours != nil && (*r.TotalHours < 0 || *r.TotalHours > MaxManualHours) {
		errs.Add("total_hours", "total_hours must be between 0 and 24")
	}
	if r.OvertimeHours != nil && (*r.OvertimeHours < 0 || *r.OvertimeHours > MaxManualOvertimeHours) {
		errs.Add("overtime_hours", "overtime_hours must be between 0 and 12")
	}
	if r.Note != nil && !validator.MaxLength(*r.Note, MaxNoteLength) {
		errs.Add("note", "note must not exceed 500 characters")
	}
	return errs.OrNil()
}

// ReportFilter narrows report listings. Limit 0 returns every match.
type ReportFilter struct {
	DeviceID string `json:"device_id,omitempty"`
	Status   string `json:"status,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Month    string `json:"month,omitempty"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != "" && !Status(f.Status).Valid() {
		errs.Add("status", "status must be one of work, leave, off")
	}
	for field, v := range map[string]string{"from": f.From, "to": f.To} {
		if v == "" {
			continue
		}
		if _, ok := validator.IsValidDate(v); !ok {
			errs.Add(field, field+" must be in YYYY-MM-DD format")
		}
	}
	if f.Month != "" {
		if _, ok := validator.IsValidDate(f.Month + "-01"); !ok {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}
	if f.Page < 0 {
		errs.Add("page", "page must not be negative")
	}
	if f.Limit < 0 || f.Limit > 1000 {
		errs.Add("limit", "limit must be between 0 and 1000")
	}
	f.Search = strings.TrimSpace(f.Search)
	return errs.OrNil()
}

type ListReportResponse struct {
	Reports    []Report `json:"reports"`
	TotalCount int64    `json:"total_count"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}

// TodayResponse is the personnel home screen state.
type TodayResponse struct {
	Date          string       `json:"date"`
	State         SessionState `json:"state"`
	Report        *Report      `json:"report"`
	IsHoliday     bool         `json:"is_holiday"`
	OpenBacklog   []Report     `json:"open_backlog"`
	FormattedWork string       `json:"formatted_work"`
	FormattedOT   string       `json:"formatted_overtime"`
}

// ManualEntryResult holds the report written, or the id of the leave request
// created when the entry was a leave day.
type ManualEntryResult struct {
	Report         *Report `json:"report,omitempty"`
	LeaveRequestID string  `json:"leave_request_id,omitempty"`
}

type DeleteSelectedRequest struct {
	IDs []string `json:"ids"`
}

func (r *DeleteSelectedRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.IDs) == 0 {
		errs.Add("ids", "at least one id is required")
	}
	return errs.OrNil()
}
