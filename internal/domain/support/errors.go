package support

import "errors"

var (
	ErrSupportRequestNotFound = errors.New("support request not found")
	ErrAlreadyResolved        = errors.New("support request already resolved")
)
