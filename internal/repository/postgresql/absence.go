package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/absence"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type absenceRepository struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepository{db: db}
}

// Create implements absence.AbsenceRepository.
func (r *absenceRepository) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query := `
		INSERT INTO absences (id, user_id, start_at, end_at, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, a.ID, a.UserID, a.StartAt, a.EndAt, a.Reason).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return absence.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}

	return a, nil
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepository) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, start_at, end_at, reason, created_at, updated_at
		FROM absences
		WHERE id = $1
	`

	var a absence.Absence
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.StartAt, &a.EndAt, &a.Reason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, fmt.Errorf("failed to get absence by id: %w", err)
	}
	return a, nil
}

// ListByUser implements absence.AbsenceRepository.
func (r *absenceRepository) ListByUser(ctx context.Context, userID string) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, start_at, end_at, reason, created_at, updated_at
		FROM absences
		WHERE user_id = $1
		ORDER BY start_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	absences := make([]absence.Absence, 0)
	for rows.Next() {
		var a absence.Absence
		if err := rows.Scan(&a.ID, &a.UserID, &a.StartAt, &a.EndAt, &a.Reason,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

// ListActiveAt implements absence.AbsenceRepository.
func (r *absenceRepository) ListActiveAt(ctx context.Context, at time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT user_id
		FROM absences
		WHERE start_at <= $1 AND end_at >= $1
	`

	rows, err := q.Query(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list active absences: %w", err)
	}
	defer rows.Close()

	userIDs := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan absence user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// Update implements absence.AbsenceRepository.
func (r *absenceRepository) Update(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET start_at = $2, end_at = $3, reason = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, a.ID, a.StartAt, a.EndAt, a.Reason).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, fmt.Errorf("failed to update absence: %w", err)
	}
	return a, nil
}

// Delete implements absence.AbsenceRepository.
func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return absence.ErrAbsenceNotFound
	}
	return nil
}
