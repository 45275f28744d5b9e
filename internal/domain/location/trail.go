package location

import (
	"fmt"
	"math"
	"sort"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/i18n"
)

// FormatDwell renders a stay length in minutes for the given language.
func FormatDwell(minutes float64, lang i18n.Lang) string {
	minUnit := i18n.Pick(lang, "Min", "دقيقة")
	hourUnit := i18n.Pick(lang, "Std", "ساعة")

	if minutes < 1 {
		return "<1 " + minUnit
	}
	if minutes < 60 {
		return fmt.Sprintf("%d %s", int(math.Round(minutes)), minUnit)
	}

	hours := int(math.Floor(minutes / 60))
	mins := int(math.Round(math.Mod(minutes, 60)))
	if mins == 60 {
		hours++
		mins = 0
	}
	if mins == 0 {
		return fmt.Sprintf("%d %s", hours, hourUnit)
	}
	return fmt.Sprintf("%d %s %d %s", hours, hourUnit, mins, minUnit)
}

// GroupByDevice splits pings per device, keeping the order devices first appear in.
func GroupByDevice(pings []Ping) ([]string, map[string][]Ping) {
	var order []string
	groups := make(map[string][]Ping)
	for _, p := range pings {
		if _, ok := groups[p.DeviceID]; !ok {
			order = append(order, p.DeviceID)
		}
		groups[p.DeviceID] = append(groups[p.DeviceID], p)
	}
	return order, groups
}

// BuildTrail reconstructs one device's trail from its pings in any order.
// It returns false for an empty input.
func BuildTrail(deviceID string, pings []Ping, lang i18n.Lang) (Trail, bool) {
	if len(pings) == 0 {
		return Trail{}, false
	}

	history := make([]Ping, len(pings))
	copy(history, pings)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CapturedAt.Before(history[j].CapturedAt)
	})

	current := history[len(history)-1]

	segments := make([]Segment, 0, len(history)-1)
	var total float64
	for i := 0; i+1 < len(history); i++ {
		from, to := history[i], history[i+1]
		minutes := to.CapturedAt.Sub(from.CapturedAt).Minutes()
		meters := geo.DistanceMeters(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
		total += meters
		seg := Segment{
			From:           from,
			To:             to,
			DwellMinutes:   math.Round(minutes*100) / 100,
			DistanceMeters: math.Round(meters),
		}
		if minutes >= 1 {
			seg.Dwell = FormatDwell(minutes, lang)
		}
		segments = append(segments, seg)
	}

	polyline := make([]Point, 0, len(history)+1)
	for _, p := range history {
		polyline = append(polyline, Point{Latitude: p.Latitude, Longitude: p.Longitude})
	}
	polyline = append(polyline, Point{Latitude: current.Latitude, Longitude: current.Longitude})

	return Trail{
		DeviceID:            deviceID,
		Current:             current,
		History:             history,
		Segments:            segments,
		Polyline:            polyline,
		TotalDistanceMeters: math.Round(total),
	}, true
}

// BuildTrails reconstructs a trail per device.
func BuildTrails(pings []Ping, lang i18n.Lang) []Trail {
	order, groups := GroupByDevice(pings)
	trails := make([]Trail, 0, len(order))
	for _, deviceID := range order {
		if trail, ok := BuildTrail(deviceID, groups[deviceID], lang); ok {
			trails = append(trails, trail)
		}
	}
	return trails
}
