package report

import (
	"context"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
)

// ExportCap bounds bulk CSV exports regardless of the match count.
const ExportCap = 5000

// ReportService serves the manager listings over sessions and raw activity.
type ReportService interface {
	ListSessions(ctx context.Context, filter shift.SessionFilter) (SessionListResponse, error)

	// ExportSessionsCSV renders matching sessions as CSV, capped at ExportCap
	// rows, ignoring pagination.
	ExportSessionsCSV(ctx context.Context, filter shift.SessionFilter) ([]byte, error)

	ListActivity(ctx context.Context, filter shift.ActivityFilter) (ActivityListResponse, error)

	ExportActivityCSV(ctx context.Context, filter shift.ActivityFilter) ([]byte, error)
}
