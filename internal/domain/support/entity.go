package support

import (
	"strings"
	"time"
)

type Topic string

const (
	TopicWrongReport  Topic = "wrong_report"
	TopicWrongLeave   Topic = "wrong_leave"
	TopicResetAccount Topic = "reset_account"
	TopicChangeDevice Topic = "change_device"
	TopicOther        Topic = "other"
)

// NormalizeTopic accepts the camelCase spellings older clients send.
func NormalizeTopic(s string) Topic {
	switch strings.TrimSpace(s) {
	case "wrong_report", "wrongReport":
		return TopicWrongReport
	case "wrong_leave", "wrongLeave":
		return TopicWrongLeave
	case "reset_account", "resetAccount":
		return TopicResetAccount
	case "change_device", "changeDevice":
		return TopicChangeDevice
	case "other":
		return TopicOther
	}
	return ""
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

type SupportRequest struct {
	ID            string     `json:"id"`
	DeviceID      string     `json:"device_id"`
	UserName      string     `json:"user_name"`
	UserEmail     string     `json:"user_email"`
	Topic         Topic      `json:"topic"`
	RelatedDate   *string    `json:"related_date"`
	Message       string     `json:"message"`
	Status        Status     `json:"status"`
	AdminResponse *string    `json:"admin_response"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
