package shift

import (
	"context"
	"time"
)

// TimeLogRepository defines data access for the append-only clock log.
type TimeLogRepository interface {
	Create(ctx context.Context, log TimeLog) (TimeLog, error)

	// ListRecent returns the newest logs for a user, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]TimeLog, error)

	// Last returns the newest log for a user.
	Last(ctx context.Context, userID string) (TimeLog, error)

	// List returns logs matching the filter with the user joined, plus the
	// total match count before pagination.
	List(ctx context.Context, filter ActivityFilter) ([]TimeLog, int64, error)

	// CountByKind returns how many filtered logs are IN and OUT punches.
	CountByKind(ctx context.Context, filter ActivityFilter) (in int64, out int64, err error)
}

// WorkSessionRepository defines data access for closed sessions.
type WorkSessionRepository interface {
	Create(ctx context.Context, session WorkSession) (WorkSession, error)

	// ListRecent returns the newest closed sessions for a user, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]WorkSession, error)

	// ListEndedSince returns a user's sessions ending at or after the bound,
	// used for the personal day/week/month summary.
	ListEndedSince(ctx context.Context, userID string, since time.Time) ([]WorkSession, error)

	// ListOverlapping returns every session overlapping [start, end] across
	// all users, with the user joined. Feeds the aggregation engine.
	ListOverlapping(ctx context.Context, start, end time.Time) ([]WorkSession, error)

	// List returns sessions matching the filter with the user joined, plus
	// the total match count before pagination.
	List(ctx context.Context, filter SessionFilter) ([]WorkSession, int64, error)

	// SumDuration returns the total duration in milliseconds of all sessions
	// matching the filter.
	SumDuration(ctx context.Context, filter SessionFilter) (int64, error)
}
