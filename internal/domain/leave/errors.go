package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrLeaveRangeTooLong            = errors.New("Leave range exceeds the allowed number of days")
)
