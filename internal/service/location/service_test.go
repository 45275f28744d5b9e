package location

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPings struct {
	location.PingRepository
	pings     []location.Ping
	lastLimit int
}

func (m *memPings) Create(_ context.Context, p location.Ping) (location.Ping, error) {
	p.ID = "ping-1"
	m.pings = append(m.pings, p)
	return p, nil
}

func (m *memPings) ListRecent(_ context.Context, _ string, limit int) ([]location.Ping, error) {
	m.lastLimit = limit
	return m.pings, nil
}

type reports map[string]report.Report

type reportLookup struct {
	report.ReportRepository
	rows reports
}

func (r reportLookup) GetByID(_ context.Context, id string) (report.Report, error) {
	row, ok := r.rows[id]
	if !ok {
		return report.Report{}, report.ErrReportNotFound
	}
	return row, nil
}

type users struct {
	user.UserRepository
}

func (users) GetByDeviceID(_ context.Context, deviceID string) (user.User, error) {
	if deviceID == "dev-1" {
		name := "Samir"
		return user.User{Name: &name}, nil
	}
	return user.User{}, user.ErrUserNotFound
}

type allowAll struct {
	device.AccessChecker
}

func (allowAll) Require(context.Context, string) error { return nil }

func newTestService(pings *memPings) *LocationServiceImpl {
	rows := reports{
		"r-open":   {ID: "r-open", DeviceID: "dev-1", Date: "2025-02-03", IsOpen: true},
		"r-closed": {ID: "r-closed", DeviceID: "dev-1", Date: "2025-02-02"},
	}
	svc := NewLocationService(pings, reportLookup{rows: rows}, users{}, allowAll{}, nil, 0)
	svc.now = func() time.Time { return time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestRecord_RequiresOpenOwnedReport(t *testing.T) {
	pings := &memPings{}
	svc := newTestService(pings)
	ctx := context.Background()

	_, err := svc.Record(ctx, "dev-1", location.RecordPingRequest{ReportID: "r-closed", Latitude: 52.5, Longitude: 13.4})
	assert.ErrorIs(t, err, location.ErrNoOpenSession)

	_, err = svc.Record(ctx, "dev-2", location.RecordPingRequest{ReportID: "r-open", Latitude: 52.5, Longitude: 13.4})
	assert.ErrorIs(t, err, location.ErrNoOpenSession)

	_, err = svc.Record(ctx, "dev-1", location.RecordPingRequest{ReportID: "missing", Latitude: 52.5, Longitude: 13.4})
	assert.ErrorIs(t, err, location.ErrNoOpenSession)

	assert.Empty(t, pings.pings)
}

func TestRecord_StoresPingWithReportDate(t *testing.T) {
	pings := &memPings{}
	svc := newTestService(pings)

	got, err := svc.Record(context.Background(), "dev-1", location.RecordPingRequest{
		ReportID:   "r-open",
		Latitude:   52.5,
		Longitude:  13.4,
		Accuracy:   12,
		CapturedAt: "2025-02-03T09:15:00+01:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-03", got.Date)
	assert.Equal(t, time.Date(2025, 2, 3, 8, 15, 0, 0, time.UTC), got.CapturedAt)
}

func TestTrails_DefaultLimitAndOwnerName(t *testing.T) {
	base := time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)
	pings := &memPings{pings: []location.Ping{
		{DeviceID: "dev-1", CapturedAt: base.Add(30 * time.Minute), Latitude: 2},
		{DeviceID: "dev-1", CapturedAt: base, Latitude: 1},
		{DeviceID: "dev-9", CapturedAt: base, Latitude: 9},
	}}
	svc := newTestService(pings)

	trails, err := svc.Trails(context.Background(), location.TrailQuery{Lang: i18n.German})
	require.NoError(t, err)
	assert.Equal(t, DefaultTrailLimit, pings.lastLimit)

	require.Len(t, trails, 2)
	require.NotNil(t, trails[0].UserName)
	assert.Equal(t, "Samir", *trails[0].UserName)
	assert.Equal(t, "30 Min", trails[0].Segments[0].Dwell)
	assert.Nil(t, trails[1].UserName)
}
