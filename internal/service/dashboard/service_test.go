package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listReports struct {
	report.ReportRepository
	rows       []report.Report
	lastFilter report.ReportFilter
}

func (l *listReports) List(_ context.Context, filter report.ReportFilter) ([]report.Report, int64, error) {
	l.lastFilter = filter
	out := make([]report.Report, len(l.rows))
	copy(out, l.rows)
	return out, int64(len(out)), nil
}

type fixedCounts struct{ counts dashboard.Counts }

func (f fixedCounts) GetCounts(context.Context, string) (dashboard.Counts, error) {
	return f.counts, nil
}

func newDashboard(rows []report.Report) (*DashboardServiceImpl, *listReports) {
	repo := &listReports{rows: rows}
	svc := NewDashboardService(fixedCounts{counts: dashboard.Counts{PendingLeaves: 2}}, repo, time.UTC)
	svc.now = func() time.Time { return time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestGetStats_WeekWindowAndTieBreak(t *testing.T) {
	// Repository order is newest first; the tie must still go to the device
	// whose report comes first chronologically.
	svc, repo := newDashboard([]report.Report{
		{ID: "b", DeviceID: "dev-b", Date: "2025-03-11", Status: report.StatusWork, TotalHours: 8},
		{ID: "a", DeviceID: "dev-a", Date: "2025-03-10", Status: report.StatusWork, TotalHours: 8},
		{ID: "c", DeviceID: "dev-a", Date: "2025-03-09", Status: report.StatusLeave},
	})

	stats, err := svc.GetStats(context.Background(), dashboard.StatsQuery{Period: "week"})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-06", repo.lastFilter.From)
	assert.Equal(t, "2025-03-12", repo.lastFilter.To)
	assert.Equal(t, 16.0, stats.TotalHours)
	assert.Equal(t, 2, stats.WorkDays)
	assert.Equal(t, 1, stats.LeaveDays)
	require.NotNil(t, stats.TopWorker)
	assert.Equal(t, "dev-a", stats.TopWorker.DeviceID)
	assert.Equal(t, "16:00", stats.FormattedHours)
}

func TestGetStats_AllHasNoLowerBound(t *testing.T) {
	svc, repo := newDashboard(nil)

	stats, err := svc.GetStats(context.Background(), dashboard.StatsQuery{Period: "all"})
	require.NoError(t, err)
	assert.Empty(t, repo.lastFilter.From)
	assert.Nil(t, stats.TopWorker)
}

func TestGetStats_InvalidPeriod(t *testing.T) {
	svc, _ := newDashboard(nil)
	_, err := svc.GetStats(context.Background(), dashboard.StatsQuery{Period: "year"})
	assert.Error(t, err)
}

func TestGetOverview_CombinesStatsAndCounts(t *testing.T) {
	svc, _ := newDashboard([]report.Report{{ID: "a", DeviceID: "dev-a", Date: "2025-03-10", Status: report.StatusWork, TotalHours: 7.5}})

	overview, err := svc.GetOverview(context.Background(), dashboard.StatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, dashboard.PeriodMonth, overview.Stats.Period)
	assert.Equal(t, 7.5, overview.Stats.TotalHours)
	assert.Equal(t, int64(2), overview.Counts.PendingLeaves)
}

func TestGetMonthly_DefaultsToCurrentMonth(t *testing.T) {
	svc, repo := newDashboard([]report.Report{
		{ID: "a", DeviceID: "dev-a", Date: "2025-03-03", Status: report.StatusWork, TotalHours: 8, OvertimeHours: 1.5},
		{ID: "b", DeviceID: "dev-a", Date: "2025-03-04", Status: report.StatusOff},
	})

	summary, err := svc.GetMonthly(context.Background(), "dev-a", dashboard.MonthlyQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03", repo.lastFilter.Month)
	assert.Equal(t, "dev-a", repo.lastFilter.DeviceID)
	assert.Equal(t, 8.0, summary.TotalHours)
	assert.Equal(t, 1.5, summary.TotalOvertime)
	assert.Equal(t, 1, summary.OffDays)
	assert.Equal(t, "9:30", summary.FormattedCombined)
}
