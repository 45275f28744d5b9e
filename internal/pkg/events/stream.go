package events

import (
	"context"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/sse"
)

// StreamPublisher pushes changes to live SSE subscribers: every change goes
// to the admin topic, device-scoped changes also reach that device.
type StreamPublisher struct {
	hub *sse.Hub
}

func NewStreamPublisher(hub *sse.Hub) *StreamPublisher {
	return &StreamPublisher{hub: hub}
}

func (p *StreamPublisher) Publish(_ context.Context, change Change) {
	event := sse.Event{Event: change.Collection, Data: change}
	p.hub.Publish(sse.TopicAdmin, event)
	if change.DeviceID != "" {
		p.hub.Publish(sse.DeviceTopic(change.DeviceID), event)
	}
}
