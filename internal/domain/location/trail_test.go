package location

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDwell(t *testing.T) {
	tests := []struct {
		minutes float64
		lang    i18n.Lang
		want    string
	}{
		{0.75, i18n.German, "<1 Min"},
		{0.75, i18n.Arabic, "<1 دقيقة"},
		{1, i18n.German, "1 Min"},
		{45.4, i18n.German, "45 Min"},
		{59.2, i18n.Arabic, "59 دقيقة"},
		{60, i18n.German, "1 Std"},
		{125, i18n.German, "2 Std 5 Min"},
		{125, i18n.Arabic, "2 ساعة 5 دقيقة"},
		{180, i18n.Arabic, "3 ساعة"},
		{119.7, i18n.German, "2 Std"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDwell(tt.minutes, tt.lang), "FormatDwell(%v, %s)", tt.minutes, tt.lang)
	}
}

func ping(device string, at time.Time, lat float64) Ping {
	return Ping{DeviceID: device, CapturedAt: at, Latitude: lat, Longitude: lat / 2}
}

func TestBuildTrail_OrdersHistoryAndFormatsSegments(t *testing.T) {
	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	pings := []Ping{
		ping("dev-1", base.Add(125*time.Minute+45*time.Second), 3),
		ping("dev-1", base, 1),
		ping("dev-1", base.Add(45*time.Second), 2),
	}

	trail, ok := BuildTrail("dev-1", pings, i18n.German)
	require.True(t, ok)

	require.Len(t, trail.History, 3)
	assert.Equal(t, 1.0, trail.History[0].Latitude)
	assert.Equal(t, 3.0, trail.Current.Latitude)

	require.Len(t, trail.Segments, 2)
	assert.Equal(t, "", trail.Segments[0].Dwell, "45 second stays are hidden")
	assert.Equal(t, 0.75, trail.Segments[0].DwellMinutes)
	assert.Equal(t, "2 Std 5 Min", trail.Segments[1].Dwell)

	require.Len(t, trail.Polyline, 4)
	assert.Equal(t, trail.Polyline[2], trail.Polyline[3], "current location closes the polyline")
}

func TestBuildTrail_Empty(t *testing.T) {
	_, ok := BuildTrail("dev-1", nil, i18n.German)
	assert.False(t, ok)
}

func TestBuildTrails_GroupsByDevice(t *testing.T) {
	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	pings := []Ping{
		ping("dev-2", base.Add(time.Hour), 20),
		ping("dev-1", base.Add(2*time.Hour), 10),
		ping("dev-2", base, 21),
		ping("dev-1", base, 11),
	}

	trails := BuildTrails(pings, i18n.Arabic)
	require.Len(t, trails, 2)
	assert.Equal(t, "dev-2", trails[0].DeviceID)
	assert.Equal(t, 20.0, trails[0].Current.Latitude)
	assert.Equal(t, "dev-1", trails[1].DeviceID)
	assert.Equal(t, 10.0, trails[1].Current.Latitude)
	assert.Equal(t, "2 ساعة", trails[1].Segments[0].Dwell)
}

func TestBuildTrail_Distances(t *testing.T) {
	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	pings := []Ping{
		{DeviceID: "d", CapturedAt: base, Latitude: 10, Longitude: 20},
		{DeviceID: "d", CapturedAt: base.Add(10 * time.Minute), Latitude: 11, Longitude: 20},
		{DeviceID: "d", CapturedAt: base.Add(20 * time.Minute), Latitude: 11, Longitude: 20},
	}

	trail, ok := BuildTrail("d", pings, i18n.German)
	require.True(t, ok)
	require.Len(t, trail.Segments, 2)

	assert.InDelta(t, 111195, trail.Segments[0].DistanceMeters, 50)
	assert.Equal(t, 0.0, trail.Segments[1].DistanceMeters)
	assert.Equal(t, trail.Segments[0].DistanceMeters, trail.TotalDistanceMeters)
}
