package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	notification.Repository
	mu      sync.Mutex
	stored  []*notification.Notification
	batches int
}

func (m *memRepo) CreateBatch(_ context.Context, ns []*notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	m.stored = append(m.stored, ns...)
	return nil
}

func (m *memRepo) Create(_ context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = append(m.stored, n)
	return nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}

type countingPublisher struct {
	mu      sync.Mutex
	changes []events.Change
}

func (p *countingPublisher) Publish(_ context.Context, c events.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
}

func TestQueueNotification_StopFlushesPending(t *testing.T) {
	repo := &memRepo{}
	pub := &countingPublisher{}
	svc := NewNotificationService(repo, pub, Config{BatchSize: 10, FlushInterval: time.Hour, WorkerCount: 1})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
			Type:     notification.TypeProfileUpdate,
			DeviceID: "dev-1",
			Changes:  []string{"name"},
			Message:  "Profil aktualisiert",
		}))
	}
	svc.Stop()

	assert.Equal(t, 3, repo.count())
	for _, n := range repo.stored {
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.Read)
		assert.Equal(t, "dev-1", n.DeviceID)
	}
	assert.Len(t, pub.changes, 3)
}

func TestQueueNotification_FlushesFullBatch(t *testing.T) {
	repo := &memRepo{}
	svc := NewNotificationService(repo, nil, Config{BatchSize: 2, FlushInterval: time.Hour, WorkerCount: 1})
	defer svc.Stop()

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{Type: notification.TypePhotoUpdate, DeviceID: "dev-2"}))
	}

	assert.Eventually(t, func() bool { return repo.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestMarkAsRead_RequiresIDs(t *testing.T) {
	svc := NewNotificationService(&memRepo{}, nil, Config{WorkerCount: 1})
	defer svc.Stop()

	err := svc.MarkAsRead(context.Background(), notification.MarkAsReadRequest{})
	assert.Error(t, err)
}
