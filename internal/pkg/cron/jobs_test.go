package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staleReports struct {
	report.ReportRepository
	open      []report.Report
	gotDate   string
	gotDevice string
	err       error
}

func (f *staleReports) ListOpenBefore(_ context.Context, deviceID, date string) ([]report.Report, error) {
	f.gotDevice, f.gotDate = deviceID, date
	return f.open, f.err
}

type pingPurger struct {
	location.PingRepository
	cutoff  time.Time
	deleted int64
}

func (f *pingPurger) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, nil
}

type recorder struct {
	mu      sync.Mutex
	changes []events.Change
}

func (r *recorder) Publish(_ context.Context, c events.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
}

func TestFlagStaleOpenReports_PublishesCount(t *testing.T) {
	reports := &staleReports{open: []report.Report{{ID: "r1", DeviceID: "d1"}, {ID: "r2", DeviceID: "d1"}, {ID: "r3", DeviceID: "d2"}}}
	rec := &recorder{}
	jobs := NewReportJobs(reports, &pingPurger{}, rec, 90, time.UTC)
	jobs.now = fixedNow

	require.NoError(t, jobs.FlagStaleOpenReports(context.Background()))
	assert.Equal(t, "2025-03-10", reports.gotDate)
	assert.Empty(t, reports.gotDevice)
	require.Len(t, rec.changes, 1)
	assert.Equal(t, events.CollectionReports, rec.changes[0].Collection)
	assert.Equal(t, int64(3), rec.changes[0].Count)
}

func TestFlagStaleOpenReports_NothingStale(t *testing.T) {
	rec := &recorder{}
	jobs := NewReportJobs(&staleReports{}, &pingPurger{}, rec, 90, time.UTC)
	jobs.now = fixedNow

	require.NoError(t, jobs.FlagStaleOpenReports(context.Background()))
	assert.Empty(t, rec.changes)
}

func TestFlagStaleOpenReports_RepositoryError(t *testing.T) {
	jobs := NewReportJobs(&staleReports{err: errors.New("db down")}, &pingPurger{}, nil, 90, time.UTC)
	assert.Error(t, jobs.FlagStaleOpenReports(context.Background()))
}

func TestPurgeLocationPings_UsesRetention(t *testing.T) {
	pings := &pingPurger{deleted: 4}
	jobs := NewReportJobs(&staleReports{}, pings, nil, 30, time.UTC)
	jobs.now = fixedNow

	require.NoError(t, jobs.PurgeLocationPings(context.Background()))
	assert.Equal(t, time.Date(2025, 2, 8, 9, 30, 0, 0, time.UTC), pings.cutoff)
}

func TestPurgeLocationPings_DisabledRetention(t *testing.T) {
	pings := &pingPurger{}
	jobs := NewReportJobs(&staleReports{}, pings, nil, 0, time.UTC)

	require.NoError(t, jobs.PurgeLocationPings(context.Background()))
	assert.True(t, pings.cutoff.IsZero())
}

func TestScheduler_RunOnceRecoversPanics(t *testing.T) {
	s := NewScheduler()
	ran := 0
	s.AddJob("boom", time.Hour, func(context.Context) error { panic("bad") })
	s.AddJob("ok", time.Hour, func(context.Context) error { ran++; return nil })

	err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, ran)
	assert.Equal(t, []string{"boom", "ok"}, s.Jobs())
}
