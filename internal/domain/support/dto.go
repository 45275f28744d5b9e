package support

import (
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

const MaxMessageLength = 2000

type CreateSupportRequest struct {
	Topic       string  `json:"topic"`
	RelatedDate *string `json:"related_date,omitempty"`
	Message     string  `json:"message"`
}

func (r *CreateSupportRequest) Validate() error {
	var errs validator.ValidationErrors
	topic := NormalizeTopic(r.Topic)
	if topic == "" {
		errs.Add("topic", "topic must be one of wrong_report, wrong_leave, reset_account, change_device, other")
	} else {
		r.Topic = string(topic)
	}
	if r.RelatedDate != nil && *r.RelatedDate != "" {
		if _, ok := validator.IsValidDate(*r.RelatedDate); !ok {
			errs.Add("related_date", "related_date must be in YYYY-MM-DD format")
		}
	}
	if validator.IsEmpty(r.Message) {
		errs.Add("message", "message is required")
	} else if !validator.MaxLength(r.Message, MaxMessageLength) {
		errs.Add("message", "message must not exceed 2000 characters")
	}
	return errs.OrNil()
}

type ResolveRequest struct {
	AdminResponse *string `json:"admin_response,omitempty"`
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.AdminResponse != nil && !validator.MaxLength(*r.AdminResponse, MaxMessageLength) {
		errs.Add("admin_response", "admin_response must not exceed 2000 characters")
	}
	return errs.OrNil()
}
