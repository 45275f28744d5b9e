package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/sse"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisher_WritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	change := NewChange(CollectionReports, ActionCreated, "rep-1", "dev-1")
	p.Publish(context.Background(), change)

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "rep-1", string(msg.Key))

	var decoded Change
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, CollectionReports, decoded.Collection)
	assert.Equal(t, ActionCreated, decoded.Action)
	assert.Equal(t, "dev-1", decoded.DeviceID)
	assert.Equal(t, "collection", msg.Headers[0].Key)
}

func TestKafkaPublisher_FailureIsSwallowed(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisher(w)

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), NewChange(CollectionHolidays, ActionDeleted, "", ""))
	})
}

func TestStreamPublisher_FansOutToAdminAndDevice(t *testing.T) {
	hub := sse.NewHub()
	adminCh, adminCleanup := hub.Subscribe(sse.TopicAdmin)
	defer adminCleanup()
	deviceCh, deviceCleanup := hub.Subscribe(sse.DeviceTopic("dev-9"))
	defer deviceCleanup()

	Multi(nil, NewStreamPublisher(hub)).Publish(context.Background(),
		NewChange(CollectionLeaveRequests, ActionUpdated, "lr-1", "dev-9"))

	for _, ch := range []<-chan sse.Event{adminCh, deviceCh} {
		select {
		case ev := <-ch:
			assert.Equal(t, CollectionLeaveRequests, ev.Event)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestMulti_EmptyIsNop(t *testing.T) {
	p := Multi()
	assert.NotPanics(t, func() { p.Publish(context.Background(), Change{}) })
}
