package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo      notification.Repository
	publisher events.Publisher
	config    Config

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, publisher events.Publisher, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if publisher == nil {
		publisher = events.Nop()
	}

	s := &service{
		repo:      repo,
		publisher: publisher,
		config:    cfg,
		queue:     make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh:    make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval.String(),
	)

	return s
}

func newNotification(req notification.CreateNotificationRequest) *notification.Notification {
	changes := req.Changes
	if changes == nil {
		changes = []string{}
	}
	return &notification.Notification{
		ID:              uuid.New().String(),
		Type:            req.Type,
		DeviceRequestID: req.DeviceRequestID,
		DeviceID:        req.DeviceID,
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		Changes:         changes,
		Message:         req.Message,
		Read:            false,
		CreatedAt:       time.Now(),
	}
}

func (s *service) announce(ctx context.Context, n *notification.Notification) {
	change := events.NewChange(events.CollectionNotifications, events.ActionCreated, n.ID, n.DeviceID)
	change.Data = n
	s.publisher.Publish(ctx, change)
}

// worker drains the queue and inserts notifications in batches
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = newNotification(req)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("Failed to batch insert notifications", "worker", id, "count", len(notifications), "error", err)
		} else {
			slog.Debug("Inserted notifications", "worker", id, "count", len(notifications))
			for _, n := range notifications {
				s.announce(ctx, n)
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
				default:
					flush()
					return
				}
			}
		}
	}
}

// QueueNotification queues a notification for async processing
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, insert directly
		return s.directInsert(ctx, req)
	}
}

func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := newNotification(req)
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.announce(ctx, n)
	return nil
}

// List returns a page of notifications, newest first
func (s *service) List(ctx context.Context, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.List(ctx, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]notification.Notification, len(notifications))
	for i, n := range notifications {
		items[i] = *n
	}

	return &notification.NotificationListResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *service) GetUnreadCount(ctx context.Context) (int, error) {
	return s.repo.GetUnreadCount(ctx)
}

func (s *service) MarkAsRead(ctx context.Context, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.repo.MarkAsRead(ctx, req.NotificationIDs); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionNotifications, events.ActionUpdated, "", ""))
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context) error {
	if err := s.repo.MarkAllAsRead(ctx); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionNotifications, events.ActionUpdated, "", ""))
	return nil
}

func (s *service) Delete(ctx context.Context, notificationID string) error {
	if err := s.repo.Delete(ctx, notificationID); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewChange(events.CollectionNotifications, events.ActionDeleted, notificationID, ""))
	return nil
}

// Stop flushes queued notifications and stops the workers
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	slog.Info("Notification service stopped")
}
