package maintenance

import "errors"

var (
	ErrInvalidBackup   = errors.New("backup file has no reports array")
	ErrUserHasNoDevice = errors.New("user is not bound to a device")
	ErrSameDevice      = errors.New("new device id matches the current one")
	ErrPartialDeletion = errors.New("some deletion steps failed")
	ErrNothingToBackup = errors.New("device has no data to back up")
)
