package report

// SessionState is where a device's day currently stands.
type SessionState string

const (
	StateNotStarted   SessionState = "not_started"
	StateOpen         SessionState = "open"
	StateClosed       SessionState = "closed"
	StateOvertimeOpen SessionState = "overtime_open"
	StateDayComplete  SessionState = "day_complete"
)

// DeriveState maps a day's report onto the session state machine. A nil
// report means nothing was recorded yet.
func DeriveState(r *Report) SessionState {
	switch {
	case r == nil:
		return StateNotStarted
	case r.Status != StatusWork:
		return StateDayComplete
	case r.IsOvertimeOpen:
		return StateOvertimeOpen
	case r.IsOpen:
		return StateOpen
	case r.HasOvertime || r.HasManualOvertime():
		return StateDayComplete
	default:
		return StateClosed
	}
}
