package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeProfileUpdate NotificationType = "profile_update"
	TypePhotoUpdate   NotificationType = "photo_update"
)

// Notification is an admin-facing event record
type Notification struct {
	ID              string           `json:"id"`
	Type            NotificationType `json:"type"`
	DeviceRequestID *string          `json:"device_request_id"`
	DeviceID        string           `json:"device_id"`
	UserName        string           `json:"user_name"`
	UserEmail       string           `json:"user_email"`
	Changes         []string         `json:"changes"`
	Message         string           `json:"message"`
	Read            bool             `json:"read"`
	CreatedAt       time.Time        `json:"created_at"`
}
