package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type workSessionRepository struct {
	db *database.DB
}

func NewWorkSessionRepository(db *database.DB) shift.WorkSessionRepository {
	return &workSessionRepository{db: db}
}

// Create implements shift.WorkSessionRepository.
func (r *workSessionRepository) Create(ctx context.Context, session shift.WorkSession) (shift.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	query := `
		INSERT INTO work_sessions (id, user_id, started_at, ended_at, duration_ms, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		session.ID, session.UserID, session.StartedAt, session.EndedAt,
		session.DurationMs, session.Note,
	).Scan(&session.CreatedAt)
	if err != nil {
		return shift.WorkSession{}, fmt.Errorf("failed to create work session: %w", err)
	}

	return session, nil
}

// ListRecent implements shift.WorkSessionRepository.
func (r *workSessionRepository) ListRecent(ctx context.Context, userID string, limit int) ([]shift.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, started_at, ended_at, duration_ms, note, created_at
		FROM work_sessions
		WHERE user_id = $1
		ORDER BY ended_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent work sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows, false)
}

// ListEndedSince implements shift.WorkSessionRepository.
func (r *workSessionRepository) ListEndedSince(ctx context.Context, userID string, since time.Time) ([]shift.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, started_at, ended_at, duration_ms, note, created_at
		FROM work_sessions
		WHERE user_id = $1 AND ended_at >= $2
		ORDER BY ended_at DESC
	`

	rows, err := q.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list work sessions since: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows, false)
}

// ListOverlapping implements shift.WorkSessionRepository.
func (r *workSessionRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]shift.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.user_id, s.started_at, s.ended_at, s.duration_ms, s.note, s.created_at,
		       u.name, u.game_name, u.role
		FROM work_sessions s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.started_at <= $2 AND s.ended_at >= $1
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping work sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows, true)
}

// sessionWhere builds the shared WHERE clause for listing and summing.
func sessionWhere(filter shift.SessionFilter) (string, []interface{}) {
	conditions := []string{"s.ended_at >= $1", "s.ended_at <= $2"}
	args := []interface{}{filter.From, filter.To}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("s.user_id = $%d", len(args)))
	}
	if filter.MinDurationMs > 0 {
		args = append(args, filter.MinDurationMs)
		conditions = append(conditions, fmt.Sprintf("s.duration_ms >= $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

// List implements shift.WorkSessionRepository.
func (r *workSessionRepository) List(ctx context.Context, filter shift.SessionFilter) ([]shift.WorkSession, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := sessionWhere(filter)

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM work_sessions s WHERE %s`, where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work sessions: %w", err)
	}

	order := "DESC"
	if filter.SortAsc {
		order = "ASC"
	}

	offset := (filter.Page - 1) * filter.PageSize
	args = append(args, filter.PageSize, offset)
	listQuery := fmt.Sprintf(`
		SELECT s.id, s.user_id, s.started_at, s.ended_at, s.duration_ms, s.note, s.created_at,
		       u.name, u.game_name, u.role
		FROM work_sessions s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE %s
		ORDER BY s.ended_at %s
		LIMIT $%d OFFSET $%d
	`, where, order, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work sessions: %w", err)
	}
	defer rows.Close()

	sessions, err := collectSessions(rows, true)
	return sessions, total, err
}

// SumDuration implements shift.WorkSessionRepository.
func (r *workSessionRepository) SumDuration(ctx context.Context, filter shift.SessionFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := sessionWhere(filter)

	var total int64
	query := fmt.Sprintf(`SELECT COALESCE(SUM(s.duration_ms), 0) FROM work_sessions s WHERE %s`, where)
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum work session durations: %w", err)
	}
	return total, nil
}

func collectSessions(rows pgx.Rows, withUser bool) ([]shift.WorkSession, error) {
	sessions := make([]shift.WorkSession, 0)
	for rows.Next() {
		var s shift.WorkSession
		var err error
		if withUser {
			err = rows.Scan(&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt, &s.DurationMs,
				&s.Note, &s.CreatedAt, &s.UserName, &s.UserGameName, &s.UserRole)
		} else {
			err = rows.Scan(&s.ID, &s.UserID, &s.StartedAt, &s.EndedAt, &s.DurationMs,
				&s.Note, &s.CreatedAt)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan work session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work sessions: %w", err)
	}
	return sessions, nil
}
