package report

import "errors"

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrReportAlreadyOpen   = errors.New("an open report already exists for this day")
	ErrReportNotOpen       = errors.New("report is not open")
	ErrReportNotOwned      = errors.New("report belongs to another device")
	ErrReportStillOpen     = errors.New("work session is still open")
	ErrOvertimeAlreadyOpen = errors.New("overtime session already open")
	ErrOvertimeNotOpen     = errors.New("overtime session is not open")
	ErrInvalidTimeFormat   = errors.New("time must be in HH:MM format")
	ErrLeaveReportHours    = errors.New("leave reports cannot carry times or hours")
	ErrNothingToExport     = errors.New("no reports to export")
)
