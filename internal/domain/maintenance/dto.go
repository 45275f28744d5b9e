package maintenance

import (
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

type RestoreRequest struct {
	TargetDeviceID string  `json:"target_device_id"`
	Backup         *Backup `json:"backup"`
	UserName       *string `json:"user_name,omitempty"`
	UserEmail      *string `json:"user_email,omitempty"`
}

func (r *RestoreRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.TargetDeviceID) {
		errs.Add("target_device_id", "target_device_id is required")
	}
	if r.Backup == nil {
		errs.Add("backup", "backup is required")
	}
	if r.UserEmail != nil && *r.UserEmail != "" && !validator.IsValidEmail(*r.UserEmail) {
		errs.Add("user_email", "user_email must be a valid email address")
	}
	return errs.OrNil()
}

type ChangeDeviceRequest struct {
	UserID      string `json:"user_id"`
	NewDeviceID string `json:"new_device_id"`
}

func (r *ChangeDeviceRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if validator.IsEmpty(r.NewDeviceID) {
		errs.Add("new_device_id", "new_device_id is required")
	}
	return errs.OrNil()
}
