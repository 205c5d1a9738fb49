package dashboard

import (
	"context"
	"time"
)

// DashboardService computes the manager-facing aggregations. All windows use
// the fixed UTC convention; "now" is passed explicitly so callers and tests
// share one reference instant.
type DashboardService interface {
	// WeeklySummary aggregates the current ISO week (Monday through the
	// earlier of now and Sunday 23:59:59.999) for every active non-VISITANTE
	// user, including zero-hour users, sorted by total descending.
	WeeklySummary(ctx context.Context, now time.Time) (WeeklySummaryResponse, error)

	// TopWorkers returns the per-window leader for day, week and month.
	// Only users with time in range participate; ties break toward the
	// lexicographically smallest user id.
	TopWorkers(ctx context.Context, now time.Time) (TopWorkersResponse, error)
}
