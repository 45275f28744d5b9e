package invitation

import "time"

// Status represents the status of an invitation
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRevoked  Status = "revoked"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RolePersonal Role = "personal"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePersonal
}

// Invite grants an email the right to register a device
type Invite struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	Status     Status     `json:"status"`
	DeviceID   *string    `json:"device_id"`
	Link       string     `json:"link"`
	EmailSent  bool       `json:"email_sent"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Caller identifies who triggers the invite email action.
type Caller struct {
	Email   string
	IsAdmin bool
}
