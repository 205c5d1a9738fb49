package absence

import "context"

// AbsenceService manages owner-scoped absence records. Records belonging to
// other users behave as if they do not exist (ErrAbsenceNotFound).
type AbsenceService interface {
	List(ctx context.Context, userID string) ([]AbsenceResponse, error)
	Create(ctx context.Context, userID string, req CreateAbsenceRequest) (AbsenceResponse, error)
	Update(ctx context.Context, userID string, id string, req UpdateAbsenceRequest) (AbsenceResponse, error)
	Delete(ctx context.Context, userID string, id string) error
}
