package location

import (
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

type RecordPingRequest struct {
	ReportID   string  `json:"report_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Accuracy   float64 `json:"accuracy"`
	CapturedAt string  `json:"captured_at,omitempty"`
}

func (r *RecordPingRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ReportID) {
		errs.Add("report_id", "report_id is required")
	}
	if !validator.IsValidLatitude(r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	if r.Accuracy < 0 {
		errs.Add("accuracy", "accuracy must not be negative")
	}
	if r.CapturedAt != "" {
		if _, ok := validator.IsValidDateTime(r.CapturedAt); !ok {
			errs.Add("captured_at", "captured_at must be an RFC3339 timestamp")
		}
	}
	return errs.OrNil()
}

type TrailQuery struct {
	DeviceID string
	Limit    int
	Lang     i18n.Lang
}
