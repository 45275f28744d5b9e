package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"regular day", "08:00", "16:30", 8.5},
		{"same time", "09:00", "09:00", 0},
		{"past midnight", "22:00", "02:00", 4},
		{"rounding to hundredths", "08:00", "08:20", 0.33},
		{"one minute", "08:00", "08:01", 0.02},
		{"almost full day", "00:00", "23:59", 23.98},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateHours(tt.start, tt.end)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculateHours_InvalidInput(t *testing.T) {
	for _, in := range [][2]string{{"8", "16:00"}, {"08:00", "25:00"}, {"ab:cd", "10:00"}, {"", ""}} {
		_, err := CalculateHours(in[0], in[1])
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, "input %v", in)
	}
}

func TestDeriveHours_CapsAtEightHours(t *testing.T) {
	normal, overtime, err := DeriveHours("08:00", "16:30", false)
	require.NoError(t, err)
	assert.Equal(t, 8.0, normal)
	assert.Equal(t, 0.5, overtime)
}

func TestDeriveHours_ManualOvertimeKeepsHoursUnsplit(t *testing.T) {
	normal, overtime, err := DeriveHours("08:00", "16:30", true)
	require.NoError(t, err)
	assert.Equal(t, 8.5, normal)
	assert.Equal(t, 0.0, overtime)
}

func TestDeriveHours_UnderCap(t *testing.T) {
	normal, overtime, err := DeriveHours("07:15", "12:45", false)
	require.NoError(t, err)
	assert.Equal(t, 5.5, normal)
	assert.Equal(t, 0.0, overtime)
}

func TestSplitHours_OvertimeIsRounded(t *testing.T) {
	_, overtime := SplitHours(9.33, false)
	assert.Equal(t, 1.33, overtime)
}

func TestFormatDecimalHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.5, "2:30"},
		{2.75, "2:45"},
		{3.0, "3:00"},
		{0, "0:00"},
		{0.33, "0:20"},
		{1.999, "2:00"},
		{8.02, "8:01"},
		{-1.5, "-1:30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDecimalHours(tt.in), "FormatDecimalHours(%v)", tt.in)
	}
}

func TestClampHours(t *testing.T) {
	assert.Equal(t, 0.0, ClampHours(-3, MaxManualHours))
	assert.Equal(t, 24.0, ClampHours(30, MaxManualHours))
	assert.Equal(t, 12.0, ClampHours(13, MaxManualOvertimeHours))
	assert.Equal(t, 7.5, ClampHours(7.5, MaxManualHours))
}

func TestDeriveState(t *testing.T) {
	start := "08:00"
	end := "16:00"

	assert.Equal(t, StateNotStarted, DeriveState(nil))
	assert.Equal(t, StateOpen, DeriveState(&Report{Status: StatusWork, IsOpen: true, StartTime: &start}))
	assert.Equal(t, StateClosed, DeriveState(&Report{Status: StatusWork, StartTime: &start, EndTime: &end}))
	assert.Equal(t, StateOvertimeOpen, DeriveState(&Report{Status: StatusWork, IsOvertimeOpen: true, OvertimeStartTime: &end}))
	assert.Equal(t, StateDayComplete, DeriveState(&Report{Status: StatusWork, HasOvertime: true}))
	assert.Equal(t, StateDayComplete, DeriveState(&Report{Status: StatusLeave}))
}
