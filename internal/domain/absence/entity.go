package absence

import "time"

// State classifies an absence relative to a reference instant.
type State string

const (
	StateUpcoming State = "UPCOMING"
	StateActive   State = "ACTIVE"
	StatePast     State = "PAST"
)

// Absence is a user-declared unavailability interval. EndAt >= StartAt is
// validated at creation and update. Overlapping absences for the same user
// are permitted.
type Absence struct {
	ID        string
	UserID    string
	StartAt   time.Time
	EndAt     time.Time
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Classify places now relative to the absence interval.
func Classify(now time.Time, a Absence) State {
	switch {
	case now.Before(a.StartAt):
		return StateUpcoming
	case now.After(a.EndAt):
		return StatePast
	default:
		return StateActive
	}
}
