package notification

import "github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	Type            NotificationType
	DeviceRequestID *string
	DeviceID        string
	UserName        string
	UserEmail       string
	Changes         []string
	Message         string
}

// MarkAsReadRequest represents a request to mark notifications as read
type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

func (r *MarkAsReadRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.NotificationIDs) == 0 {
		errs.Add("notification_ids", "at least one notification id is required")
	}
	return errs.OrNil()
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	UnreadCount   int            `json:"unread_count"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}
