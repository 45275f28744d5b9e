package leave

import (
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

const (
	MaxReasonLength = 500
	// MaxRangeDays bounds how many reports a single approval may materialize.
	MaxRangeDays = 366
)

type CreateLeaveRequest struct {
	LeaveFrom   string  `json:"leave_from"`
	LeaveTo     string  `json:"leave_to"`
	LeaveReason *string `json:"leave_reason,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveFrom) {
		errs.Add("leave_from", "leave_from is required")
	} else if _, ok := validator.IsValidDate(r.LeaveFrom); !ok {
		errs.Add("leave_from", "leave_from must be in YYYY-MM-DD format")
	}

	if validator.IsEmpty(r.LeaveTo) {
		errs.Add("leave_to", "leave_to is required")
	} else if _, ok := validator.IsValidDate(r.LeaveTo); !ok {
		errs.Add("leave_to", "leave_to must be in YYYY-MM-DD format")
	}

	if r.LeaveReason != nil && !validator.MaxLength(*r.LeaveReason, MaxReasonLength) {
		errs.Add("leave_reason", "leave_reason must not exceed 500 characters")
	}

	return errs.OrNil()
}

type ListLeaveFilter struct {
	Status   string `json:"status,omitempty"`
	DeviceID string `json:"device_id,omitempty"`
}

func (f *ListLeaveFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != "" && !Status(f.Status).Valid() {
		errs.Add("status", "status must be one of pending, approved, rejected")
	}
	return errs.OrNil()
}

// ApproveResult reports how many leave days were written.
type ApproveResult struct {
	LeaveRequest   LeaveRequest `json:"leave_request"`
	ReportsCreated int          `json:"reports_created"`
	DaysSkipped    int          `json:"days_skipped"`
}
