package location

import "errors"

var (
	ErrNoOpenSession = errors.New("no open work session for this report")
)
