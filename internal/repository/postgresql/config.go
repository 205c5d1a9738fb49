package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/settings"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type configRepository struct {
	db *database.DB
}

func NewConfigRepository(db *database.DB) settings.ConfigRepository {
	return &configRepository{db: db}
}

// GetAll implements settings.ConfigRepository.
func (r *configRepository) GetAll(ctx context.Context) (map[string]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT key, value FROM config`)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		values[key] = value
	}
	return values, rows.Err()
}

// Get implements settings.ConfigRepository.
func (r *configRepository) Get(ctx context.Context, key string) (string, bool, error) {
	q := GetQuerier(ctx, r.db)

	var value string
	err := q.QueryRow(ctx, `SELECT value FROM config WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get config key: %w", err)
	}
	return value, true, nil
}

// Upsert implements settings.ConfigRepository.
func (r *configRepository) Upsert(ctx context.Context, key, value string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO config (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert config key: %w", err)
	}
	return nil
}

// Delete implements settings.ConfigRepository.
func (r *configRepository) Delete(ctx context.Context, key string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM config WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete config key: %w", err)
	}
	return nil
}
