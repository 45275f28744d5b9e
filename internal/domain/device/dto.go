package device

import (
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

type RegisterDeviceRequest struct {
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	DeviceID        string  `json:"device_id"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	LocationConsent bool    `json:"location_consent"`
}

func (r *RegisterDeviceRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email is invalid")
	}
	if validator.IsEmpty(r.DeviceID) {
		errs.Add("device_id", "device_id is required")
	} else if len(r.DeviceID) > 128 {
		errs.Add("device_id", "device_id must not exceed 128 characters")
	}
	if !validator.MaxLength(r.Name, 255) {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone is invalid")
	}
	if !r.LocationConsent {
		errs.Add("location_consent", "location consent is required")
	}
	return errs.OrNil()
}

type UpdateProfileRequest struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.MaxLength(r.Name, 255) {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone is invalid")
	}
	if r.Address != nil && !validator.MaxLength(*r.Address, 500) {
		errs.Add("address", "address must not exceed 500 characters")
	}
	return errs.OrNil()
}

type UpdatePhotoRequest struct {
	PhotoURL string `json:"photo_url"`
}

func (r *UpdatePhotoRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.PhotoURL) {
		errs.Add("photo_url", "photo_url is required")
	} else if !strings.HasPrefix(r.PhotoURL, "https://") && !strings.HasPrefix(r.PhotoURL, "http://") {
		errs.Add("photo_url", "photo_url must be an http(s) URL")
	}
	return errs.OrNil()
}

type SetAccessRequest struct {
	Allowed bool    `json:"allowed"`
	Email   *string `json:"email,omitempty"`
}

type AccessResponse struct {
	DeviceID string      `json:"device_id"`
	State    AccessState `json:"state"`
	Allowed  bool        `json:"allowed"`
}
