package report

import "time"

type Status string

const (
	StatusWork  Status = "work"
	StatusLeave Status = "leave"
	StatusOff   Status = "off"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWork, StatusLeave, StatusOff:
		return true
	}
	return false
}

// Location is a best-effort position captured at a session boundary.
type Location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

// Report is one device's work-time record for one calendar day.
type Report struct {
	ID                    string    `json:"id"`
	Date                  string    `json:"date"`
	DeviceID              string    `json:"device_id"`
	Status                Status    `json:"status"`
	StartTime             *string   `json:"start_time"`
	EndTime               *string   `json:"end_time"`
	TotalHours            float64   `json:"total_hours"`
	OvertimeHours         float64   `json:"overtime_hours"`
	IsOpen                bool      `json:"is_open"`
	OvertimeStartTime     *string   `json:"overtime_start_time"`
	OvertimeEndTime       *string   `json:"overtime_end_time"`
	IsOvertimeOpen        bool      `json:"is_overtime_open"`
	HasOvertime           bool      `json:"has_overtime"`
	StartLocation         *Location `json:"start_location"`
	EndLocation           *Location `json:"end_location"`
	OvertimeStartLocation *Location `json:"overtime_start_location"`
	OvertimeEndLocation   *Location `json:"overtime_end_location"`
	Note                  *string   `json:"note"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	// Read-only, joined from the approved device request.
	UserName  *string `json:"user_name,omitempty"`
	UserEmail *string `json:"user_email,omitempty"`
}

// HasManualOvertime reports whether an explicit overtime session pair is recorded.
func (r Report) HasManualOvertime() bool {
	return r.OvertimeStartTime != nil && *r.OvertimeStartTime != "" &&
		r.OvertimeEndTime != nil && *r.OvertimeEndTime != ""
}

// NewLeaveReport builds the zero-hour report a leave approval materializes.
func NewLeaveReport(deviceID, date string) Report {
	return Report{
		Date:     date,
		DeviceID: deviceID,
		Status:   StatusLeave,
	}
}
