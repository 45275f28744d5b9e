package dashboard

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rep(device, date string, status report.Status, hours, overtime float64) report.Report {
	return report.Report{DeviceID: device, Date: date, Status: status, TotalHours: hours, OvertimeHours: overtime}
}

var today = time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)

func TestPeriodStart(t *testing.T) {
	assert.Equal(t, "2025-03-09", PeriodWeek.Start(today).Format(dateLayout))
	assert.Equal(t, "2025-03-01", PeriodMonth.Start(today).Format(dateLayout))
	assert.True(t, PeriodAll.Start(today).IsZero())
}

func TestAggregate_Month(t *testing.T) {
	reports := []report.Report{
		rep("a", "2025-02-28", report.StatusWork, 8, 2),
		rep("a", "2025-03-03", report.StatusWork, 8, 0.5),
		rep("b", "2025-03-04", report.StatusWork, 7.25, 0),
		rep("b", "2025-03-05", report.StatusLeave, 0, 0),
		rep("a", "2025-03-06", report.StatusOff, 0, 0),
		rep("a", "2025-03-16", report.StatusWork, 8, 0),
	}

	stats := Aggregate(reports, PeriodMonth, today)

	assert.Equal(t, "2025-03-01", stats.From)
	assert.Equal(t, "2025-03-15", stats.To)
	assert.Equal(t, 15.25, stats.TotalHours)
	assert.Equal(t, 0.5, stats.TotalOvertime)
	assert.Equal(t, 15.75, stats.CombinedHours)
	assert.Equal(t, 2, stats.WorkDays)
	assert.Equal(t, 1, stats.LeaveDays)
	assert.Equal(t, 1, stats.OffDays)
	assert.Equal(t, "15:15", stats.FormattedHours)
	assert.Equal(t, "15:45", stats.FormattedCombined)

	require.NotNil(t, stats.TopWorker)
	assert.Equal(t, "a", stats.TopWorker.DeviceID)
	assert.Equal(t, 8.5, stats.TopWorker.CombinedHours)
}

func TestAggregate_WeekExcludesOlderDays(t *testing.T) {
	reports := []report.Report{
		rep("a", "2025-03-08", report.StatusWork, 8, 0),
		rep("a", "2025-03-09", report.StatusWork, 6, 0),
	}
	stats := Aggregate(reports, PeriodWeek, today)
	assert.Equal(t, 6.0, stats.TotalHours)
	assert.Equal(t, 1, stats.WorkDays)
}

func TestAggregate_AllTimeEmpty(t *testing.T) {
	stats := Aggregate(nil, PeriodAll, today)
	assert.Equal(t, "", stats.From)
	assert.Equal(t, 0.0, stats.CombinedHours)
	assert.Nil(t, stats.TopWorker)
	assert.Equal(t, "0:00", stats.FormattedHours)
}

func TestRankTopWorker_TieKeepsFirstSeen(t *testing.T) {
	reports := []report.Report{
		rep("b", "2025-03-01", report.StatusWork, 5, 1),
		rep("a", "2025-03-01", report.StatusWork, 6, 0),
	}
	top := RankTopWorker(reports)
	require.NotNil(t, top)
	assert.Equal(t, "b", top.DeviceID)
	assert.Equal(t, "6:00", top.Formatted)
}
