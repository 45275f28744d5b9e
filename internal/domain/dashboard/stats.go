package dashboard

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
)

const dateLayout = "2006-01-02"

// InPeriod keeps reports dated within [period start, today].
func InPeriod(reports []report.Report, period Period, today time.Time) []report.Report {
	start := period.Start(today)
	end := today.Format(dateLayout)
	startStr := ""
	if !start.IsZero() {
		startStr = start.Format(dateLayout)
	}

	out := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if r.Date > end {
			continue
		}
		if startStr != "" && r.Date < startStr {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Aggregate sums hours and counts days by status over the given period.
func Aggregate(reports []report.Report, period Period, today time.Time) Stats {
	filtered := InPeriod(reports, period, today)

	stats := Stats{Period: period, To: today.Format(dateLayout)}
	if start := period.Start(today); !start.IsZero() {
		stats.From = start.Format(dateLayout)
	}

	for _, r := range filtered {
		stats.TotalHours += r.TotalHours
		stats.TotalOvertime += r.OvertimeHours
		switch r.Status {
		case report.StatusWork:
			stats.WorkDays++
		case report.StatusLeave:
			stats.LeaveDays++
		case report.StatusOff:
			stats.OffDays++
		}
	}
	stats.TotalHours = report.RoundHours(stats.TotalHours)
	stats.TotalOvertime = report.RoundHours(stats.TotalOvertime)
	stats.CombinedHours = report.RoundHours(stats.TotalHours + stats.TotalOvertime)
	stats.TopWorker = RankTopWorker(filtered)

	stats.FormattedHours = report.FormatDecimalHours(stats.TotalHours)
	stats.FormattedOvertime = report.FormatDecimalHours(stats.TotalOvertime)
	stats.FormattedCombined = report.FormatDecimalHours(stats.CombinedHours)
	return stats
}

// RankTopWorker returns the device with the most combined hours. On a tie the
// device that appears first in reports wins.
func RankTopWorker(reports []report.Report) *TopWorker {
	var order []string
	totals := make(map[string]*TopWorker)
	for _, r := range reports {
		w, ok := totals[r.DeviceID]
		if !ok {
			w = &TopWorker{DeviceID: r.DeviceID}
			totals[r.DeviceID] = w
			order = append(order, r.DeviceID)
		}
		if w.UserName == nil && r.UserName != nil {
			w.UserName = r.UserName
		}
		w.Hours += r.TotalHours
		w.Overtime += r.OvertimeHours
	}
	if len(order) == 0 {
		return nil
	}

	ranked := make([]*TopWorker, 0, len(order))
	for _, id := range order {
		w := totals[id]
		w.Hours = report.RoundHours(w.Hours)
		w.Overtime = report.RoundHours(w.Overtime)
		w.CombinedHours = report.RoundHours(w.Hours + w.Overtime)
		w.Formatted = report.FormatDecimalHours(w.CombinedHours)
		ranked = append(ranked, w)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedHours > ranked[j].CombinedHours
	})
	return ranked[0]
}
