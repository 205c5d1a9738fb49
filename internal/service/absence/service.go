package absence

import (
	"context"
	"strings"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/absence"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/validator"
)

type AbsenceServiceImpl struct {
	absences absence.AbsenceRepository
	now      func() time.Time
}

func NewAbsenceService(absences absence.AbsenceRepository) *AbsenceServiceImpl {
	return &AbsenceServiceImpl{
		absences: absences,
		now:      time.Now,
	}
}

// List implements absence.AbsenceService.
func (s *AbsenceServiceImpl) List(ctx context.Context, userID string) ([]absence.AbsenceResponse, error) {
	records, err := s.absences.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := make([]absence.AbsenceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, absence.NewAbsenceResponse(a, now))
	}
	return out, nil
}

// Create implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Create(ctx context.Context, userID string, req absence.CreateAbsenceRequest) (absence.AbsenceResponse, error) {
	start, end, err := req.Validate()
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	created, err := s.absences.Create(ctx, absence.Absence{
		UserID:  userID,
		StartAt: start.UTC(),
		EndAt:   end.UTC(),
		Reason:  req.Reason,
	})
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	return absence.NewAbsenceResponse(created, s.now().UTC()), nil
}

// Update implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Update(ctx context.Context, userID string, id string, req absence.UpdateAbsenceRequest) (absence.AbsenceResponse, error) {
	existing, err := s.get(ctx, userID, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if req.StartAt != nil {
		start, ok := validator.IsValidDateTime(*req.StartAt)
		if !ok {
			return absence.AbsenceResponse{}, validator.ValidationErrors{
				{Field: "startAt", Message: "must be a valid ISO8601 timestamp"},
			}
		}
		existing.StartAt = start.UTC()
	}
	if req.EndAt != nil {
		end, ok := validator.IsValidDateTime(*req.EndAt)
		if !ok {
			return absence.AbsenceResponse{}, validator.ValidationErrors{
				{Field: "endAt", Message: "must be a valid ISO8601 timestamp"},
			}
		}
		existing.EndAt = end.UTC()
	}
	if existing.EndAt.Before(existing.StartAt) {
		return absence.AbsenceResponse{}, absence.ErrEndBeforeStart
	}
	if req.ReasonSet {
		existing.Reason = req.Reason
		if existing.Reason != nil {
			trimmed := strings.TrimSpace(*existing.Reason)
			if trimmed == "" {
				existing.Reason = nil
			} else {
				existing.Reason = &trimmed
			}
		}
	}

	updated, err := s.absences.Update(ctx, existing)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	return absence.NewAbsenceResponse(updated, s.now().UTC()), nil
}

// Delete implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Delete(ctx context.Context, userID string, id string) error {
	if _, err := s.get(ctx, userID, id); err != nil {
		return err
	}
	return s.absences.Delete(ctx, id)
}

// get loads a record enforcing owner scoping: a record owned by someone else
// is reported as missing.
func (s *AbsenceServiceImpl) get(ctx context.Context, userID, id string) (absence.Absence, error) {
	a, err := s.absences.GetByID(ctx, id)
	if err != nil {
		return absence.Absence{}, err
	}
	if a.UserID != userID {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}
