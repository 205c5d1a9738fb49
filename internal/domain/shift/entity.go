package shift

import "time"

// LogKind is the direction of a clock punch.
type LogKind string

const (
	LogIn  LogKind = "IN"
	LogOut LogKind = "OUT"
)

// ValidLogKind reports whether s is IN or OUT.
func ValidLogKind(s string) bool {
	return LogKind(s) == LogIn || LogKind(s) == LogOut
}

// TimeLog is an append-only clock event. It is the audit trail and is never
// mutated or deleted.
type TimeLog struct {
	ID        string
	UserID    string
	Kind      LogKind
	Note      *string
	CreatedAt time.Time

	// Join fields
	UserName     *string
	UserGameName *string
	UserRole     *string
}

// WorkSession is a closed shift. DurationMs is computed once at creation
// (end - start, floored at zero) and stored; it is never recomputed.
type WorkSession struct {
	ID         string
	UserID     string
	StartedAt  time.Time
	EndedAt    time.Time
	DurationMs int64
	Note       *string
	CreatedAt  time.Time

	// Join fields
	UserName     *string
	UserGameName *string
	UserRole     *string
}
