package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
)

const maxGameNameLen = 64

// TxRunner executes fn atomically against the store. Repository calls made
// with the context passed to fn join the same transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserServiceImpl struct {
	tx    TxRunner
	users user.UserRepository
	roles user.RoleLookup
	now   func() time.Time
}

func NewUserService(tx TxRunner, users user.UserRepository, roles user.RoleLookup) *UserServiceImpl {
	return &UserServiceImpl{
		tx:    tx,
		users: users,
		roles: roles,
		now:   time.Now,
	}
}

// Profile implements user.UserService.
func (s *UserServiceImpl) Profile(ctx context.Context, userID string) (user.ProfileResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return user.NewProfileResponse(u), nil
}

// UpdateProfile implements user.UserService.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest) (user.ProfileResponse, error) {
	gameName := strings.TrimSpace(req.GameName)
	if len(gameName) > maxGameNameLen {
		return user.ProfileResponse{}, user.ErrGameNameTooLong
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.ProfileResponse{}, err
	}

	if gameName == "" {
		u.GameName = nil
	} else {
		u.GameName = &gameName
	}

	if err := s.users.Update(ctx, u); err != nil {
		return user.ProfileResponse{}, err
	}
	return user.NewProfileResponse(u), nil
}

// Directory implements user.UserService.
func (s *UserServiceImpl) Directory(ctx context.Context) ([]user.DirectoryRow, error) {
	staff, err := s.users.ListActiveStaff(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]user.DirectoryRow, 0, len(staff))
	for _, u := range staff {
		rows = append(rows, user.DirectoryRow{
			ID:       u.ID,
			Name:     u.Name,
			GameName: u.GameName,
			Role:     u.Role,
		})
	}
	return rows, nil
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]user.AdminUserRow, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]user.AdminUserRow, 0, len(all))
	for _, u := range all {
		rows = append(rows, user.NewAdminUserRow(u))
	}
	return rows, nil
}

// UpdateUser implements user.UserService.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, targetID string, req user.UpdateUserRequest) (user.AdminUserRow, error) {
	if req.Role != nil && !user.ValidRole(*req.Role) {
		return user.AdminUserRow{}, user.ErrInvalidRole
	}
	if req.GameName != nil && len(strings.TrimSpace(*req.GameName)) > maxGameNameLen {
		return user.AdminUserRow{}, user.ErrGameNameTooLong
	}

	// The owner count and the write share a transaction so concurrent
	// demotions cannot both pass the last-owner check.
	var u user.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}

		demotesOwner := req.Role != nil && u.Role == user.RoleDueno && user.Role(*req.Role) != user.RoleDueno
		deactivatesOwner := req.Active != nil && !*req.Active && u.Role == user.RoleDueno
		if demotesOwner || deactivatesOwner {
			remaining, err := s.users.CountOwnersExcept(ctx, targetID)
			if err != nil {
				return err
			}
			if remaining == 0 {
				return user.ErrLastOwner
			}
		}

		if req.Role != nil {
			u.Role = user.Role(*req.Role)
		}
		if req.Active != nil {
			u.Active = *req.Active
			if *req.Active {
				u.DisabledAt = nil
			} else {
				now := s.now().UTC()
				u.DisabledAt = &now
			}
		}
		if req.GameName != nil {
			trimmed := strings.TrimSpace(*req.GameName)
			if trimmed == "" {
				u.GameName = nil
			} else {
				u.GameName = &trimmed
			}
		}

		return s.users.Update(ctx, u)
	})
	if err != nil {
		return user.AdminUserRow{}, err
	}

	// Role and active changes must take effect on the next request, not at
	// cache expiry.
	if s.roles != nil {
		s.roles.Invalidate(targetID)
	}

	return user.NewAdminUserRow(u), nil
}

// roleCacheTTL bounds how long a stale role can keep authorizing requests.
const roleCacheTTL = 60 * time.Second

type roleEntry struct {
	access    user.Access
	expiresAt time.Time
}

// RoleCache is the store-backed RoleLookup with a short per-user TTL.
type RoleCache struct {
	users user.UserRepository
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]roleEntry
}

func NewRoleCache(users user.UserRepository) *RoleCache {
	return &RoleCache{
		users:   users,
		now:     time.Now,
		entries: make(map[string]roleEntry),
	}
}

// Lookup implements user.RoleLookup.
func (c *RoleCache) Lookup(ctx context.Context, userID string) (user.Access, error) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.access, nil
	}

	u, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return user.Access{}, err
	}

	access := user.Access{Role: u.Role, Active: u.Active}
	c.mu.Lock()
	c.entries[userID] = roleEntry{access: access, expiresAt: now.Add(roleCacheTTL)}
	c.mu.Unlock()

	return access, nil
}

// Invalidate implements user.RoleLookup.
func (c *RoleCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// Sweep drops expired entries. Run periodically so the map does not grow
// with users who stopped calling.
func (c *RoleCache) Sweep() {
	now := c.now()
	c.mu.Lock()
	for id, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
	c.mu.Unlock()
}
