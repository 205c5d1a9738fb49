package absence

import (
	"context"
	"time"
)

// AbsenceRepository defines data access for absence records.
type AbsenceRepository interface {
	Create(ctx context.Context, a Absence) (Absence, error)

	GetByID(ctx context.Context, id string) (Absence, error)

	// ListByUser returns a user's absences, newest start first.
	ListByUser(ctx context.Context, userID string) ([]Absence, error)

	// ListActiveAt returns the user ids with an absence covering the instant.
	// Consulted by the aggregation engine for the "currently absent" flag.
	ListActiveAt(ctx context.Context, at time.Time) ([]string, error)

	Update(ctx context.Context, a Absence) (Absence, error)

	Delete(ctx context.Context, id string) error
}
