package leave

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LeaveRequest covers the inclusive day range [LeaveFrom, LeaveTo].
type LeaveRequest struct {
	ID          string     `json:"id"`
	DeviceID    string     `json:"device_id"`
	UserName    string     `json:"user_name"`
	UserEmail   string     `json:"user_email"`
	LeaveFrom   string     `json:"leave_from"`
	LeaveTo     string     `json:"leave_to"`
	LeaveReason *string    `json:"leave_reason"`
	Status      Status     `json:"status"`
	ProcessedAt *time.Time `json:"processed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Days returns the number of calendar days the request spans.
func (l LeaveRequest) Days() int {
	from, err := time.Parse(DateLayout, l.LeaveFrom)
	if err != nil {
		return 0
	}
	to, err := time.Parse(DateLayout, l.LeaveTo)
	if err != nil {
		return 0
	}
	return DayCount(from, to)
}
