package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	reportRepo report.ReportRepository
	loc        *time.Location
	now        func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, reportRepo report.ReportRepository, loc *time.Location) *DashboardServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		reportRepo:          reportRepo,
		loc:                 loc,
		now:                 time.Now,
	}
}

func (s *DashboardServiceImpl) today() time.Time {
	return s.now().In(s.loc)
}

// loadChronological fetches the reports of a window ordered by date then id,
// the order the top worker tie-break depends on.
func (s *DashboardServiceImpl) loadChronological(ctx context.Context, filter report.ReportFilter) ([]report.Report, error) {
	reports, _, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Date != reports[j].Date {
			return reports[i].Date < reports[j].Date
		}
		return reports[i].ID < reports[j].ID
	})
	return reports, nil
}

// GetStats aggregates reports for a period, optionally for one device
func (s *DashboardServiceImpl) GetStats(ctx context.Context, q dashboard.StatsQuery) (dashboard.Stats, error) {
	if err := q.Validate(); err != nil {
		return dashboard.Stats{}, err
	}

	today := s.today()
	period := dashboard.Period(q.Period)
	filter := report.ReportFilter{DeviceID: q.DeviceID, To: today.Format(dateLayout)}
	if start := period.Start(today); !start.IsZero() {
		filter.From = start.Format(dateLayout)
	}

	reports, err := s.loadChronological(ctx, filter)
	if err != nil {
		return dashboard.Stats{}, err
	}
	return dashboard.Aggregate(reports, period, today), nil
}

// GetOverview loads stats and badge counts concurrently
func (s *DashboardServiceImpl) GetOverview(ctx context.Context, q dashboard.StatsQuery) (dashboard.Overview, error) {
	var overview dashboard.Overview

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.GetStats(gCtx, q)
		if err != nil {
			return err
		}
		overview.Stats = stats
		return nil
	})

	g.Go(func() error {
		counts, err := s.DashboardRepository.GetCounts(gCtx, s.today().Format(dateLayout))
		if err != nil {
			return fmt.Errorf("failed to get counts: %w", err)
		}
		overview.Counts = counts
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.Overview{}, err
	}
	return overview, nil
}

// GetMonthly returns one device's month summary
func (s *DashboardServiceImpl) GetMonthly(ctx context.Context, deviceID string, q dashboard.MonthlyQuery) (dashboard.MonthlySummary, error) {
	today := s.today()
	if q.Year == 0 {
		q.Year = today.Year()
	}
	if q.Month == 0 {
		q.Month = int(today.Month())
	}
	if err := q.Validate(); err != nil {
		return dashboard.MonthlySummary{}, err
	}

	reports, err := s.loadChronological(ctx, report.ReportFilter{
		DeviceID: deviceID,
		Month:    fmt.Sprintf("%04d-%02d", q.Year, q.Month),
	})
	if err != nil {
		return dashboard.MonthlySummary{}, err
	}

	// The month is already selected, so aggregate without a period bound.
	endOfMonth := time.Date(q.Year, time.Month(q.Month)+1, 0, 0, 0, 0, 0, time.UTC)
	stats := dashboard.Aggregate(reports, dashboard.PeriodAll, endOfMonth)

	return dashboard.MonthlySummary{
		Year:              q.Year,
		Month:             q.Month,
		TotalHours:        stats.TotalHours,
		TotalOvertime:     stats.TotalOvertime,
		WorkDays:          stats.WorkDays,
		LeaveDays:         stats.LeaveDays,
		OffDays:           stats.OffDays,
		FormattedHours:    stats.FormattedHours,
		FormattedOvertime: stats.FormattedOvertime,
		FormattedCombined: stats.FormattedCombined,
	}, nil
}
