package absence

import (
	"strings"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/validator"
)

// AbsenceResponse is the wire shape of an absence record.
type AbsenceResponse struct {
	ID      string  `json:"id"`
	StartAt string  `json:"startAt"`
	EndAt   string  `json:"endAt"`
	Reason  *string `json:"reason"`
	State   State   `json:"state"`
}

// CreateAbsenceRequest carries a new absence interval.
type CreateAbsenceRequest struct {
	StartAt string  `json:"startAt"`
	EndAt   string  `json:"endAt"`
	Reason  *string `json:"reason"`
}

// UpdateAbsenceRequest carries partial edits. Nil fields are unchanged; a
// Reason explicitly present but null clears the reason.
type UpdateAbsenceRequest struct {
	StartAt *string `json:"startAt"`
	EndAt   *string `json:"endAt"`
	Reason  *string `json:"reason"`
	// ReasonSet distinguishes {"reason": null} from an absent field. The
	// handler fills it after decoding.
	ReasonSet bool `json:"-"`
}

func (r *CreateAbsenceRequest) Validate() (start, end time.Time, err error) {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDateTime(r.StartAt)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "startAt", Message: "must be a valid ISO8601 timestamp"})
	}
	end, ok = validator.IsValidDateTime(r.EndAt)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "endAt", Message: "must be a valid ISO8601 timestamp"})
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrEndBeforeStart
	}

	if r.Reason != nil {
		trimmed := strings.TrimSpace(*r.Reason)
		if trimmed == "" {
			r.Reason = nil
		} else {
			r.Reason = &trimmed
		}
	}
	return start, end, nil
}

func NewAbsenceResponse(a Absence, now time.Time) AbsenceResponse {
	return AbsenceResponse{
		ID:      a.ID,
		StartAt: a.StartAt.UTC().Format(time.RFC3339Nano),
		EndAt:   a.EndAt.UTC().Format(time.RFC3339Nano),
		Reason:  a.Reason,
		State:   Classify(now, a),
	}
}
