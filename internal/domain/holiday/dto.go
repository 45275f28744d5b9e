package holiday

import "github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"

type CreateHolidayRequest struct {
	Date string  `json:"date"`
	Note *string `json:"note,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if r.Note != nil && !validator.MaxLength(*r.Note, 255) {
		errs.Add("note", "note must not exceed 255 characters")
	}
	return errs.OrNil()
}
