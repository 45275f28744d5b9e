package device

import "errors"

var (
	ErrDeviceRequestNotFound   = errors.New("device request not found")
	ErrDeviceRequestProcessed  = errors.New("device request already processed")
	ErrDeviceAlreadyRegistered = errors.New("device already has a pending or approved request")
	ErrEmailAlreadyBound       = errors.New("email is already bound to another approved device")
	ErrDeviceNotAllowed        = errors.New("device is not allowed to write")
	ErrDeviceNotRegistered     = errors.New("device is not registered")
	ErrDeviceIDRequired        = errors.New("device id is required")
	ErrDeviceAccessNotFound    = errors.New("device access not found")
	ErrProfileNotFound         = errors.New("no approved device request for this device")
	ErrInvalidPhotoType        = errors.New("photo must be a jpg or png image")
	ErrPhotoTooLarge           = errors.New("photo exceeds the upload limit")
)
