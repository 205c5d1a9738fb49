package report

import "github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"

// SessionListResponse is the manager's paginated closed-session listing.
type SessionListResponse struct {
	Data     []shift.WorkSessionResponse `json:"data"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"pageSize"`
	Total    int64                       `json:"total"`
	Pages    int64                       `json:"pages"`
	Summary  SessionSummary              `json:"summary"`
	Period   Period                      `json:"period"`
	Sort     string                      `json:"sort"`
	Filters  SessionFilters              `json:"filters"`
}

type SessionSummary struct {
	TotalMs int64 `json:"totalMs"`
	AvgMs   int64 `json:"avgMs"`
}

type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SessionFilters struct {
	UserID        *string `json:"userId"`
	MinDurationMs int64   `json:"minDurationMs"`
}

// ActivityListResponse is the manager's paginated raw clock-event listing.
type ActivityListResponse struct {
	Data     []shift.TimeLogResponse `json:"data"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
	Total    int64                   `json:"total"`
	Pages    int64                   `json:"pages"`
	Summary  ActivitySummary         `json:"summary"`
	Period   Period                  `json:"period"`
	Sort     string                  `json:"sort"`
	Filters  ActivityFilters         `json:"filters"`
}

type ActivitySummary struct {
	In  int64 `json:"in"`
	Out int64 `json:"out"`
}

type ActivityFilters struct {
	Kind   string  `json:"type"`
	UserID *string `json:"userId"`
}
