package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxNormalHours caps the regular part of a work day; the rest is overtime.
const MaxNormalHours = 8.0

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return h*60 + m, nil
}

// RoundHours rounds to the nearest hundredth of an hour.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// CalculateHours returns the duration between two wall-clock times in hours.
// An end before the start wraps past midnight.
func CalculateHours(start, end string) (float64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	diff := e - s
	if diff < 0 {
		diff += minutesPerDay
	}
	return math.Round(float64(diff)/60*100) / 100, nil
}

// SplitHours applies the 8h cap. With a manual overtime session present the
// worked hours stay unsplit since overtime comes from that session.
func SplitHours(worked float64, manualOvertime bool) (normal, overtime float64) {
	if manualOvertime || worked <= MaxNormalHours {
		return worked, 0
	}
	return MaxNormalHours, RoundHours(worked - MaxNormalHours)
}

// DeriveHours computes normal and automatic overtime hours from a start/end pair.
func DeriveHours(start, end string, manualOvertime bool) (normal, overtime float64, err error) {
	worked, err := CalculateHours(start, end)
	if err != nil {
		return 0, 0, err
	}
	normal, overtime = SplitHours(worked, manualOvertime)
	return normal, overtime, nil
}

// FormatDecimalHours renders decimal hours as "H:MM", minutes rounded.
func FormatDecimalHours(h float64) string {
	sign := ""
	if h < 0 {
		sign = "-"
		h = -h
	}
	hours := math.Floor(h)
	mins := math.Round((h - hours) * 60)
	if mins >= 60 {
		hours++
		mins -= 60
	}
	return fmt.Sprintf("%s%d:%02d", sign, int(hours), int(mins))
}

// ClampHours bounds a manually entered hour value.
func ClampHours(h, max float64) float64 {
	if h < 0 || math.IsNaN(h) {
		return 0
	}
	if h > max {
		return max
	}
	return h
}
