package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type timeLogRepository struct {
	db *database.DB
}

func NewTimeLogRepository(db *database.DB) shift.TimeLogRepository {
	return &timeLogRepository{db: db}
}

// Create implements shift.TimeLogRepository.
func (r *timeLogRepository) Create(ctx context.Context, log shift.TimeLog) (shift.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	query := `
		INSERT INTO time_logs (id, user_id, kind, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		log.ID, log.UserID, log.Kind, log.Note, log.CreatedAt,
	).Scan(&log.CreatedAt)
	if err != nil {
		return shift.TimeLog{}, fmt.Errorf("failed to create time log: %w", err)
	}

	return log, nil
}

// ListRecent implements shift.TimeLogRepository.
func (r *timeLogRepository) ListRecent(ctx context.Context, userID string, limit int) ([]shift.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, note, created_at
		FROM time_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent time logs: %w", err)
	}
	defer rows.Close()

	logs := make([]shift.TimeLog, 0, limit)
	for rows.Next() {
		var l shift.TimeLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Kind, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Last implements shift.TimeLogRepository.
func (r *timeLogRepository) Last(ctx context.Context, userID string) (shift.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, kind, note, created_at
		FROM time_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var l shift.TimeLog
	err := q.QueryRow(ctx, query, userID).Scan(&l.ID, &l.UserID, &l.Kind, &l.Note, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.TimeLog{}, pgx.ErrNoRows
		}
		return shift.TimeLog{}, fmt.Errorf("failed to get last time log: %w", err)
	}
	return l, nil
}

// activityWhere builds the shared WHERE clause for listing and counting.
func activityWhere(filter shift.ActivityFilter) (string, []interface{}) {
	conditions := []string{"l.created_at >= $1", "l.created_at <= $2"}
	args := []interface{}{filter.From, filter.To}

	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		conditions = append(conditions, fmt.Sprintf("l.kind = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("l.user_id = $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

// List implements shift.TimeLogRepository.
func (r *timeLogRepository) List(ctx context.Context, filter shift.ActivityFilter) ([]shift.TimeLog, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := activityWhere(filter)

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM time_logs l WHERE %s`, where)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time logs: %w", err)
	}

	order := "DESC"
	if filter.SortAsc {
		order = "ASC"
	}

	offset := (filter.Page - 1) * filter.PageSize
	args = append(args, filter.PageSize, offset)
	listQuery := fmt.Sprintf(`
		SELECT l.id, l.user_id, l.kind, l.note, l.created_at,
		       u.name, u.game_name, u.role
		FROM time_logs l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE %s
		ORDER BY l.created_at %s
		LIMIT $%d OFFSET $%d
	`, where, order, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time logs: %w", err)
	}
	defer rows.Close()

	logs := make([]shift.TimeLog, 0, filter.PageSize)
	for rows.Next() {
		var l shift.TimeLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Kind, &l.Note, &l.CreatedAt,
			&l.UserName, &l.UserGameName, &l.UserRole); err != nil {
			return nil, 0, fmt.Errorf("failed to scan time log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}

// CountByKind implements shift.TimeLogRepository.
func (r *timeLogRepository) CountByKind(ctx context.Context, filter shift.ActivityFilter) (int64, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Kind filter intentionally excluded so both counters are always filled.
	unkinded := filter
	unkinded.Kind = nil
	where, args := activityWhere(unkinded)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE l.kind = 'IN'),
			COUNT(*) FILTER (WHERE l.kind = 'OUT')
		FROM time_logs l
		WHERE %s
	`, where)

	var in, out int64
	if err := q.QueryRow(ctx, query, args...).Scan(&in, &out); err != nil {
		return 0, 0, fmt.Errorf("failed to count time logs by kind: %w", err)
	}
	return in, out, nil
}
