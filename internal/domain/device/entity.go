package device

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// DeviceRequest binds a person to a physical device once approved.
type DeviceRequest struct {
	ID              string        `json:"id"`
	Email           string        `json:"email"`
	Name            string        `json:"name"`
	DeviceID        string        `json:"device_id"`
	Status          RequestStatus `json:"status"`
	Phone           *string       `json:"phone"`
	Address         *string       `json:"address"`
	PhotoURL        *string       `json:"photo_url"`
	LocationConsent bool          `json:"location_consent"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// DeviceAccess is the write gate for a device.
type DeviceAccess struct {
	DeviceID  string    `json:"device_id"`
	Allowed   bool      `json:"allowed"`
	Email     *string   `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AccessState string

const (
	AccessAllowed       AccessState = "allowed"
	AccessDenied        AccessState = "denied"
	AccessNotRegistered AccessState = "not_registered"
)

// StateOf maps a lookup result onto an access state; a nil record means the
// device never got an access entry.
func StateOf(access *DeviceAccess) AccessState {
	switch {
	case access == nil:
		return AccessNotRegistered
	case access.Allowed:
		return AccessAllowed
	default:
		return AccessDenied
	}
}

// Err returns the error a write path reports for this state, nil when allowed.
func (s AccessState) Err() error {
	switch s {
	case AccessAllowed:
		return nil
	case AccessDenied:
		return ErrDeviceNotAllowed
	default:
		return ErrDeviceNotRegistered
	}
}
