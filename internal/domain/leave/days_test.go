package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEachDay_InclusiveRange(t *testing.T) {
	var got []string
	err := EachDay(day("2025-01-10"), day("2025-01-12"), func(d time.Time) error {
		got = append(got, d.Format(DateLayout))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-10", "2025-01-11", "2025-01-12"}, got)
}

func TestEachDay_CrossesMonthAndLeapDay(t *testing.T) {
	var got []string
	_ = EachDay(day("2024-02-28"), day("2024-03-01"), func(d time.Time) error {
		got = append(got, d.Format(DateLayout))
		return nil
	})
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, got)
}

func TestEachDay_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := EachDay(day("2025-01-01"), day("2025-01-05"), func(time.Time) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNormalizeRange_SwapsReversedPick(t *testing.T) {
	from, to := NormalizeRange(day("2025-03-10"), day("2025-03-02"))
	assert.Equal(t, "2025-03-02", from.Format(DateLayout))
	assert.Equal(t, "2025-03-10", to.Format(DateLayout))
}

func TestDayCount(t *testing.T) {
	assert.Equal(t, 3, DayCount(day("2025-01-10"), day("2025-01-12")))
	assert.Equal(t, 1, DayCount(day("2025-01-10"), day("2025-01-10")))
	assert.Equal(t, 0, DayCount(day("2025-01-12"), day("2025-01-10")))
	assert.Equal(t, 3, LeaveRequest{LeaveFrom: "2025-01-10", LeaveTo: "2025-01-12"}.Days())
}
