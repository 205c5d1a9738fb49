package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, game_name, email, discord_id, role, active,
	current_shift_start, disabled_at, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.GameName, &u.Email, &u.DiscordID, &u.Role, &u.Active,
		&u.CurrentShiftStart, &u.DisabledAt, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, name, game_name, email, discord_id, role, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		u.ID, u.Name, u.GameName, u.Email, u.DiscordID, u.Role, u.Active,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// GetByDiscordID implements user.UserRepository.
func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM users WHERE discord_id = $1`, userColumns)

	u, err := scanUser(q.QueryRow(ctx, query, discordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by discord id: %w", err)
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepository) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at ASC`, userColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ListActiveStaff implements user.UserRepository.
func (r *userRepository) ListActiveStaff(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE active = TRUE AND role <> 'VISITANTE'
		ORDER BY name ASC NULLS LAST
	`, userColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ListClockedIn implements user.UserRepository.
func (r *userRepository) ListClockedIn(ctx context.Context, startedBefore time.Time) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE active = TRUE
		  AND role <> 'VISITANTE'
		  AND current_shift_start IS NOT NULL
		  AND current_shift_start <= $1
	`, userColumns)

	rows, err := q.Query(ctx, query, startedBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list clocked-in users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Update implements user.UserRepository.
func (r *userRepository) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = $2, game_name = $3, role = $4, active = $5,
		    disabled_at = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, u.ID, u.Name, u.GameName, u.Role, u.Active, u.DisabledAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// CountOwnersExcept implements user.UserRepository.
func (r *userRepository) CountOwnersExcept(ctx context.Context, id string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'DUENO' AND id <> $1`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count owners: %w", err)
	}
	return count, nil
}

// OwnerExists implements user.UserRepository.
func (r *userRepository) OwnerExists(ctx context.Context) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE role = 'DUENO')`,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check owner existence: %w", err)
	}
	return exists, nil
}

// ownerElectionLockID keys the advisory lock guarding the first-signup owner
// election. Arbitrary but fixed: every instance must use the same value.
const ownerElectionLockID = 815001

// LockOwnerElection implements user.UserRepository. pg_advisory_xact_lock
// blocks until the lock is free and holds it until the enclosing transaction
// ends, so concurrent signups run their owner check one at a time.
func (r *userRepository) LockOwnerElection(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ownerElectionLockID); err != nil {
		return fmt.Errorf("failed to lock owner election: %w", err)
	}
	return nil
}

// SetShiftStart implements user.UserRepository. The conditional predicate
// makes concurrent clock-ins race-safe: only one caller sees a row update.
func (r *userRepository) SetShiftStart(ctx context.Context, id string, startedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET current_shift_start = $2, updated_at = NOW()
		WHERE id = $1 AND current_shift_start IS NULL
	`, id, startedAt)
	if err != nil {
		return false, fmt.Errorf("failed to set shift start: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClearShiftStart implements user.UserRepository. Returns the previous start;
// concurrent clock-outs cannot both observe it.
func (r *userRepository) ClearShiftStart(ctx context.Context, id string) (time.Time, bool, error) {
	q := GetQuerier(ctx, r.db)

	// Self-join so RETURNING exposes the pre-update value.
	var startedAt time.Time
	err := q.QueryRow(ctx, `
		UPDATE users u
		SET current_shift_start = NULL, updated_at = NOW()
		FROM users old
		WHERE u.id = $1 AND old.id = u.id AND u.current_shift_start IS NOT NULL
		RETURNING old.current_shift_start
	`, id).Scan(&startedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to clear shift start: %w", err)
	}
	return startedAt, true, nil
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
