package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribersOnly(t *testing.T) {
	hub := NewHub()

	adminCh, adminCleanup := hub.Subscribe(TopicAdmin)
	defer adminCleanup()
	deviceCh, deviceCleanup := hub.Subscribe(DeviceTopic("dev-1"))
	defer deviceCleanup()

	delivered := hub.Publish(TopicAdmin, Event{Event: "reports", Data: "x"})
	assert.Equal(t, 1, delivered)

	select {
	case ev := <-adminCh:
		assert.Equal(t, TopicAdmin, ev.Topic)
		assert.Equal(t, "reports", ev.Event)
	default:
		t.Fatal("admin subscriber did not receive event")
	}

	select {
	case <-deviceCh:
		t.Fatal("device subscriber must not receive admin events")
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("t")
	require.Equal(t, 1, hub.SubscriberCount("t"))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("t"))
	assert.Equal(t, 0, hub.TotalSubscribers())
	_, open := <-ch
	assert.False(t, open)
}

func TestHub_FullBufferSkipsSubscriber(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("t")
	defer cleanup()

	for i := 0; i < hub.bufferSize; i++ {
		require.Equal(t, 1, hub.Publish("t", Event{Event: "e"}))
	}
	assert.Equal(t, 0, hub.Publish("t", Event{Event: "overflow"}))
}
