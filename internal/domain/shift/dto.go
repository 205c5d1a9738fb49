package shift

import (
	"strings"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/validator"
)

// ClockRequest is the body for clock-in/clock-out.
type ClockRequest struct {
	Note *string `json:"note"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Note != nil {
		trimmed := strings.TrimSpace(*r.Note)
		if trimmed == "" {
			r.Note = nil
		} else {
			if len(trimmed) > 500 {
				errs = append(errs, validator.ValidationError{Field: "note", Message: "must be at most 500 characters"})
			}
			r.Note = &trimmed
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TimeLogResponse is the wire shape of a clock event.
type TimeLogResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Kind      LogKind `json:"type"`
	Note      *string `json:"note"`
	CreatedAt string  `json:"createdAt"`
	UserName  *string `json:"userName,omitempty"`
	GameName  *string `json:"gameName,omitempty"`
	UserRole  *string `json:"role,omitempty"`
}

// WorkSessionResponse is the wire shape of a closed session.
type WorkSessionResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"userId"`
	StartedAt  string  `json:"startedAt"`
	EndedAt    string  `json:"endedAt"`
	DurationMs int64   `json:"durationMs"`
	Note       *string `json:"note"`
	UserName   *string `json:"userName,omitempty"`
	GameName   *string `json:"gameName,omitempty"`
	UserRole   *string `json:"role,omitempty"`
}

// ClockInResponse is returned on a successful clock-in.
type ClockInResponse struct {
	ActiveStart string          `json:"activeStart"`
	Log         TimeLogResponse `json:"log"`
}

// ClockOutResponse is returned on a successful clock-out.
type ClockOutResponse struct {
	WorkSession WorkSessionResponse `json:"workSession"`
}

// Summary carries the caller's clipped totals per reporting window.
type Summary struct {
	TodayMs int64 `json:"todayMs"`
	WeekMs  int64 `json:"weekMs"`
	MonthMs int64 `json:"monthMs"`
}

// PeriodInfo echoes the window bounds used to compute a summary.
type PeriodInfo struct {
	Now        string `json:"now"`
	DayStart   string `json:"dayStart"`
	WeekStart  string `json:"weekStart"`
	MonthStart string `json:"monthStart"`
	Timezone   string `json:"timezone"`
}

// StatusResponse is the caller's live clock state.
type StatusResponse struct {
	ActiveStart *string               `json:"activeStart"`
	Logs        []TimeLogResponse     `json:"logs"`
	Sessions    []WorkSessionResponse `json:"sessions"`
	Summary     Summary               `json:"summary"`
	Period      PeriodInfo            `json:"period"`
}

// ExternalPunchRequest is the body accepted from the game-server integration.
type ExternalPunchRequest struct {
	DiscordID string  `json:"discordId"`
	Kind      string  `json:"type"`
	Note      *string `json:"note"`
}

func (r *ExternalPunchRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(strings.TrimSpace(r.DiscordID)) < 2 {
		errs = append(errs, validator.ValidationError{Field: "discordId", Message: "is required"})
	}
	if !ValidLogKind(r.Kind) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be IN or OUT"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SessionFilter narrows and paginates closed-session listings.
type SessionFilter struct {
	From          time.Time
	To            time.Time
	UserID        *string
	MinDurationMs int64
	Page          int
	PageSize      int
	SortAsc       bool
}

// ActivityFilter narrows and paginates raw clock-event listings.
type ActivityFilter struct {
	From     time.Time
	To       time.Time
	Kind     *LogKind
	UserID   *string
	Page     int
	PageSize int
	SortAsc  bool
}

func NewTimeLogResponse(l TimeLog) TimeLogResponse {
	return TimeLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Kind:      l.Kind,
		Note:      l.Note,
		CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339Nano),
		UserName:  l.UserName,
		GameName:  l.UserGameName,
		UserRole:  l.UserRole,
	}
}

func NewWorkSessionResponse(s WorkSession) WorkSessionResponse {
	return WorkSessionResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		StartedAt:  s.StartedAt.UTC().Format(time.RFC3339Nano),
		EndedAt:    s.EndedAt.UTC().Format(time.RFC3339Nano),
		DurationMs: s.DurationMs,
		Note:       s.Note,
		UserName:   s.UserName,
		GameName:   s.UserGameName,
		UserRole:   s.UserRole,
	}
}
