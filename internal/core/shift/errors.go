package shift

import "errors"

var (
	ErrInvalidCode         = errors.New("shift: invalid employee code")
	ErrShiftAlreadyStarted = errors.New("shift: already started today")
	ErrNoActiveShift       = errors.New("shift: no active shift")
	ErrNoShiftsToday       = errors.New("shift: no shifts recorded today")
	ErrNoPastShifts        = errors.New("shift: no past shifts recorded")
)
