package holiday

import "errors"

var (
	ErrHolidayNotFound = errors.New("holiday not found")
	ErrHolidayExists   = errors.New("a holiday already exists for this date")
	ErrHolidayBlocked  = errors.New("the selected day is a holiday")
)
