package types

import "errors"

// All scheduler errors are synchronous caller-misuse reports. They wrap
// these sentinels so callers can branch with errors.Is.
var (
	ErrFloorOutOfRange      = errors.New("floor out of range")
	ErrInvalidDirection     = errors.New("invalid direction")
	ErrInvalidState         = errors.New("invalid state")
	ErrSameFloorDestination = errors.New("destination equals current floor")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
)
