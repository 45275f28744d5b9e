package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
)

// ReportJobs holds the housekeeping jobs for work sessions and location pings.
type ReportJobs struct {
	reportRepo    report.ReportRepository
	pingRepo      location.PingRepository
	publisher     events.Publisher
	retentionDays int
	loc           *time.Location
	now           func() time.Time
}

func NewReportJobs(
	reportRepo report.ReportRepository,
	pingRepo location.PingRepository,
	publisher events.Publisher,
	retentionDays int,
	loc *time.Location,
) *ReportJobs {
	if loc == nil {
		loc = time.UTC
	}
	if publisher == nil {
		publisher = events.Nop()
	}
	return &ReportJobs{
		reportRepo:    reportRepo,
		pingRepo:      pingRepo,
		publisher:     publisher,
		retentionDays: retentionDays,
		loc:           loc,
		now:           time.Now,
	}
}

func (j *ReportJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("flag_stale_open_reports", time.Hour, j.FlagStaleOpenReports)
	scheduler.AddJob("purge_location_pings", 24*time.Hour, j.PurgeLocationPings)
}

// FlagStaleOpenReports counts open sessions dated before today and pushes the
// count to the admin stream. Sessions are never closed automatically.
func (j *ReportJobs) FlagStaleOpenReports(ctx context.Context) error {
	today := j.now().In(j.loc).Format(time.DateOnly)

	stale, err := j.reportRepo.ListOpenBefore(ctx, "", today)
	if err != nil {
		return fmt.Errorf("failed to list stale open reports: %w", err)
	}
	if len(stale) == 0 {
		slog.Debug("Cron: no stale open reports")
		return nil
	}

	devices := make(map[string]struct{}, len(stale))
	for _, r := range stale {
		devices[r.DeviceID] = struct{}{}
	}
	slog.Warn("Cron: open reports from previous days", "count", len(stale), "devices", len(devices))

	change := events.NewChange(events.CollectionReports, events.ActionUpdated, "", "")
	change.Count = int64(len(stale))
	change.Data = map[string]interface{}{"stale_open_reports": len(stale), "before": today}
	j.publisher.Publish(ctx, change)
	return nil
}

// PurgeLocationPings drops pings older than the retention window. A
// non-positive retention keeps everything.
func (j *ReportJobs) PurgeLocationPings(ctx context.Context) error {
	if j.retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().UTC().AddDate(0, 0, -j.retentionDays)

	deleted, err := j.pingRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge location pings: %w", err)
	}
	if deleted > 0 {
		slog.Info("Cron: purged location pings", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}
