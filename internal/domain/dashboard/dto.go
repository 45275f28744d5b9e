package dashboard

import (
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

type StatsQuery struct {
	Period   string `json:"period"`
	DeviceID string `json:"device_id,omitempty"`
}

func (q *StatsQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Period == "" {
		q.Period = string(PeriodMonth)
	}
	if !Period(q.Period).Valid() {
		errs.Add("period", "period must be one of week, month, all")
	}
	return errs.OrNil()
}

type MonthlyQuery struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (q *MonthlyQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Month < 1 || q.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	if q.Year < 2000 || q.Year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	return errs.OrNil()
}

// MonthlySummary is the personnel month view.
type MonthlySummary struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	TotalHours        float64 `json:"total_hours"`
	TotalOvertime     float64 `json:"total_overtime"`
	WorkDays          int     `json:"work_days"`
	LeaveDays         int     `json:"leave_days"`
	OffDays           int     `json:"off_days"`
	FormattedHours    string  `json:"formatted_hours"`
	FormattedOvertime string  `json:"formatted_overtime"`
	FormattedCombined string  `json:"formatted_combined"`
}
