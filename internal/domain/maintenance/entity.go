package maintenance

import (
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
)

// Backup is the portable export of one device's history. Top-level keys stay
// camelCase so files written by earlier tooling restore unchanged.
type Backup struct {
	DeviceID      string               `json:"deviceId"`
	BackupDate    string               `json:"backupDate"`
	Reports       []report.Report      `json:"reports"`
	LeaveRequests []leave.LeaveRequest `json:"leaveRequests"`
}

// DeleteResult reports how many rows went away and which steps failed.
type DeleteResult struct {
	Deleted int64    `json:"deleted"`
	Failed  []string `json:"failed,omitempty"`
}

type RestoreResult struct {
	DeviceID      string `json:"device_id"`
	Reports       int    `json:"reports"`
	LeaveRequests int    `json:"leave_requests"`
}

type ChangeDeviceResult struct {
	OldDeviceID string        `json:"old_device_id"`
	NewDeviceID string        `json:"new_device_id"`
	Deleted     DeleteResult  `json:"deleted"`
	Restored    RestoreResult `json:"restored"`
}
