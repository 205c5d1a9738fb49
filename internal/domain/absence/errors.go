package absence

import "errors"

var (
	ErrAbsenceNotFound = errors.New("absence not found")
	ErrEndBeforeStart  = errors.New("end must not be before start")
)
