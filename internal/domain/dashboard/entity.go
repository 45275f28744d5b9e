package dashboard

import "time"

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodAll:
		return true
	}
	return false
}

// Start returns the first day included in the period relative to today, zero
// for all-time.
func (p Period) Start(today time.Time) time.Time {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch p {
	case PeriodWeek:
		return day.AddDate(0, 0, -6)
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

type TopWorker struct {
	DeviceID      string  `json:"device_id"`
	UserName      *string `json:"user_name,omitempty"`
	Hours         float64 `json:"hours"`
	Overtime      float64 `json:"overtime"`
	CombinedHours float64 `json:"combined_hours"`
	Formatted     string  `json:"formatted"`
}

type Stats struct {
	Period            Period     `json:"period"`
	From              string     `json:"from,omitempty"`
	To                string     `json:"to"`
	TotalHours        float64    `json:"total_hours"`
	TotalOvertime     float64    `json:"total_overtime"`
	CombinedHours     float64    `json:"combined_hours"`
	WorkDays          int        `json:"work_days"`
	LeaveDays         int        `json:"leave_days"`
	OffDays           int        `json:"off_days"`
	TopWorker         *TopWorker `json:"top_worker"`
	FormattedHours    string     `json:"formatted_hours"`
	FormattedOvertime string     `json:"formatted_overtime"`
	FormattedCombined string     `json:"formatted_combined"`
}

// Counts are the admin console badge numbers
type Counts struct {
	PendingLeaves       int64 `json:"pending_leaves"`
	PendingDevices      int64 `json:"pending_devices"`
	PendingSupport      int64 `json:"pending_support"`
	PendingInvites      int64 `json:"pending_invites"`
	UnreadNotifications int64 `json:"unread_notifications"`
	StaleOpenReports    int64 `json:"stale_open_reports"`
}

type Overview struct {
	Stats  Stats  `json:"stats"`
	Counts Counts `json:"counts"`
}
