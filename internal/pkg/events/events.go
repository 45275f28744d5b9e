package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Collections that emit change events.
const (
	CollectionReports         = "reports"
	CollectionLeaveRequests   = "leave_requests"
	CollectionDeviceRequests  = "device_requests"
	CollectionDeviceAccess    = "device_access"
	CollectionInvites         = "invites"
	CollectionSupportRequests = "support_requests"
	CollectionHolidays        = "holidays"
	CollectionNotifications   = "notifications"
	CollectionLocations       = "location_pings"
	CollectionUsers           = "users"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Change describes one mutation of a stored document.
type Change struct {
	ID         string      `json:"id"`
	Collection string      `json:"collection"`
	Action     Action      `json:"action"`
	DocumentID string      `json:"document_id,omitempty"`
	DeviceID   string      `json:"device_id,omitempty"`
	Count      int64       `json:"count,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	At         time.Time   `json:"at"`
}

// NewChange stamps a change with an id and the current time.
func NewChange(collection string, action Action, documentID, deviceID string) Change {
	return Change{
		ID:         uuid.NewString(),
		Collection: collection,
		Action:     action,
		DocumentID: documentID,
		DeviceID:   deviceID,
		At:         time.Now().UTC(),
	}
}

// Publisher delivers change events. Publishing is best effort: failures are
// logged by the implementation and never fail the mutation that caused them.
type Publisher interface {
	Publish(ctx context.Context, change Change)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Change) {}

// Nop returns a publisher that drops every change.
func Nop() Publisher {
	return nopPublisher{}
}

type multiPublisher []Publisher

func (m multiPublisher) Publish(ctx context.Context, change Change) {
	for _, p := range m {
		p.Publish(ctx, change)
	}
}

// Multi fans a change out to every non-nil publisher.
func Multi(publishers ...Publisher) Publisher {
	var out multiPublisher
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return Nop()
	}
	return out
}
