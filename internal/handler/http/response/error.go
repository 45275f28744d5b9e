package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/maintenance"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/support"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth and identity
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrNotWhitelisted):
		Forbidden(w, "Email is not allowed to access the admin console")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Google email not verified")
	case errors.Is(err, auth.ErrOAuthDisabled):
		WithCode(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Google sign-in is not configured")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Device authorization
	case errors.Is(err, device.ErrInvalidPhotoType):
		BadRequest(w, "Photo must be a JPG or PNG image", nil)
	case errors.Is(err, device.ErrPhotoTooLarge):
		WithCode(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Photo exceeds the upload limit")
	case errors.Is(err, device.ErrDeviceIDRequired):
		WithCode(w, http.StatusUnauthorized, "DEVICE_ID_REQUIRED", "X-Device-ID header is required")
	case errors.Is(err, device.ErrDeviceNotRegistered):
		WithCode(w, http.StatusForbidden, "DEVICE_NOT_REGISTERED", "Device is not registered")
	case errors.Is(err, device.ErrDeviceNotAllowed):
		WithCode(w, http.StatusForbidden, "DEVICE_NOT_ALLOWED", "Device is not allowed")
	case errors.Is(err, device.ErrDeviceRequestNotFound):
		NotFound(w, "Device request not found")
	case errors.Is(err, device.ErrDeviceAccessNotFound):
		NotFound(w, "Device access not found")
	case errors.Is(err, device.ErrProfileNotFound):
		NotFound(w, "Profile not found")
	case errors.Is(err, device.ErrDeviceRequestProcessed):
		Conflict(w, "Device request already processed")
	case errors.Is(err, device.ErrDeviceAlreadyRegistered):
		Conflict(w, "Device already registered")
	case errors.Is(err, device.ErrEmailAlreadyBound):
		Conflict(w, "Email already bound to another device")

	// Reports
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Report not found")
	case errors.Is(err, report.ErrReportNotOwned):
		Forbidden(w, "Report belongs to another device")
	case errors.Is(err, report.ErrNothingToExport):
		NotFound(w, "No reports to export")
	case errors.Is(err, report.ErrReportAlreadyOpen),
		errors.Is(err, report.ErrReportNotOpen),
		errors.Is(err, report.ErrReportStillOpen),
		errors.Is(err, report.ErrOvertimeAlreadyOpen),
		errors.Is(err, report.ErrOvertimeNotOpen):
		Conflict(w, capitalize(err.Error()))
	case errors.Is(err, report.ErrInvalidTimeFormat), errors.Is(err, report.ErrLeaveReportHours):
		BadRequest(w, capitalize(err.Error()), nil)

	// Leave
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrLeaveRangeTooLong):
		BadRequest(w, err.Error(), nil)

	// Invites
	case errors.Is(err, invitation.ErrInviteNotFound):
		NotFound(w, "Invite not found")
	case errors.Is(err, invitation.ErrInviteExists):
		Conflict(w, "Email already invited or registered")
	case errors.Is(err, invitation.ErrCannotRevokeAccepted):
		Conflict(w, "Accepted invites cannot be revoked")
	case errors.Is(err, invitation.ErrPermissionDenied):
		WithCode(w, http.StatusForbidden, "PERMISSION_DENIED", "Not allowed to send invites")
	case errors.Is(err, invitation.ErrInvalidArgument):
		WithCode(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Recipient is required")
	case errors.Is(err, invitation.ErrFailedPrecondition):
		WithCode(w, http.StatusPreconditionFailed, "FAILED_PRECONDITION", "Mail relay is not configured")

	// Support, holidays, notifications, locations
	case errors.Is(err, support.ErrSupportRequestNotFound):
		NotFound(w, "Support request not found")
	case errors.Is(err, support.ErrAlreadyResolved):
		Conflict(w, "Support request already resolved")
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, "A holiday already exists for this date")
	case errors.Is(err, holiday.ErrHolidayBlocked):
		WithCode(w, http.StatusConflict, "HOLIDAY", "The selected day is a holiday")
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, location.ErrNoOpenSession):
		Conflict(w, "No open work session for this report")

	// Maintenance
	case errors.Is(err, maintenance.ErrInvalidBackup):
		BadRequest(w, "Backup file has no reports array", nil)
	case errors.Is(err, maintenance.ErrUserHasNoDevice):
		Conflict(w, "User is not bound to a device")
	case errors.Is(err, maintenance.ErrSameDevice):
		BadRequest(w, "New device id matches the current one", nil)
	case errors.Is(err, maintenance.ErrNothingToBackup):
		NotFound(w, "Device has no data to back up")
	case errors.Is(err, maintenance.ErrPartialDeletion):
		WithCode(w, http.StatusMultiStatus, "PARTIAL_FAILURE", err.Error())

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
