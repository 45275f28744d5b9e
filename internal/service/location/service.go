package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
)

const DefaultTrailLimit = 1000

type LocationServiceImpl struct {
	location.PingRepository
	reportRepo report.ReportRepository
	userRepo   user.UserRepository
	access     device.AccessChecker
	publisher  events.Publisher
	trailLimit int
	now        func() time.Time
}

func NewLocationService(
	pingRepo location.PingRepository,
	reportRepo report.ReportRepository,
	userRepo user.UserRepository,
	access device.AccessChecker,
	publisher events.Publisher,
	trailLimit int,
) *LocationServiceImpl {
	if publisher == nil {
		publisher = events.Nop()
	}
	if trailLimit <= 0 {
		trailLimit = DefaultTrailLimit
	}
	return &LocationServiceImpl{
		PingRepository: pingRepo,
		reportRepo:     reportRepo,
		userRepo:       userRepo,
		access:         access,
		publisher:      publisher,
		trailLimit:     trailLimit,
		now:            time.Now,
	}
}

func (s *LocationServiceImpl) Record(ctx context.Context, deviceID string, req location.RecordPingRequest) (location.Ping, error) {
	if err := req.Validate(); err != nil {
		return location.Ping{}, err
	}
	if err := s.access.Require(ctx, deviceID); err != nil {
		return location.Ping{}, err
	}

	r, err := s.reportRepo.GetByID(ctx, req.ReportID)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound) {
			return location.Ping{}, location.ErrNoOpenSession
		}
		return location.Ping{}, err
	}
	if r.DeviceID != deviceID || !(r.IsOpen || r.IsOvertimeOpen) {
		return location.Ping{}, location.ErrNoOpenSession
	}

	capturedAt := s.now().UTC()
	if req.CapturedAt != "" {
		if t, err := time.Parse(time.RFC3339, req.CapturedAt); err == nil {
			capturedAt = t.UTC()
		}
	}

	created, err := s.PingRepository.Create(ctx, location.Ping{
		DeviceID:   deviceID,
		ReportID:   r.ID,
		Date:       r.Date,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Accuracy:   req.Accuracy,
		CapturedAt: capturedAt,
	})
	if err != nil {
		return location.Ping{}, err
	}

	change := events.NewChange(events.CollectionLocations, events.ActionCreated, created.ID, deviceID)
	change.Data = created
	s.publisher.Publish(ctx, change)
	return created, nil
}

func (s *LocationServiceImpl) Trails(ctx context.Context, q location.TrailQuery) ([]location.Trail, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.trailLimit
	}

	pings, err := s.PingRepository.ListRecent(ctx, q.DeviceID, limit)
	if err != nil {
		return nil, err
	}
	trails := location.BuildTrails(pings, q.Lang)

	for i := range trails {
		u, err := s.userRepo.GetByDeviceID(ctx, trails[i].DeviceID)
		switch {
		case err == nil:
			trails[i].UserName = u.Name
		case errors.Is(err, user.ErrUserNotFound):
		default:
			return nil, fmt.Errorf("failed to resolve trail owner: %w", err)
		}
	}
	return trails, nil
}

func (s *LocationServiceImpl) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.PingRepository.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		slog.Info("purged location pings", "deleted", deleted, "cutoff", cutoff.Format(time.DateOnly))
	}
	return deleted, nil
}
