package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/auth"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/jwt"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/oauth"
)

// stateTTL bounds how long a login may sit between redirect and callback.
const stateTTL = 10 * time.Minute

// TxRunner executes fn atomically against the store.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuthServiceImpl struct {
	tx      TxRunner
	users   user.UserRepository
	discord oauth.DiscordService
	jwt     jwt.Service
	now     func() time.Time

	mu     sync.Mutex
	states map[string]time.Time // state -> expiry
}

func NewAuthService(
	tx TxRunner,
	users user.UserRepository,
	discord oauth.DiscordService,
	jwtService jwt.Service,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		tx:      tx,
		users:   users,
		discord: discord,
		jwt:     jwtService,
		now:     time.Now,
		states:  make(map[string]time.Time),
	}
}

// LoginRedirect implements auth.AuthService.
func (s *AuthServiceImpl) LoginRedirect(ctx context.Context, userAgent string) (auth.LoginRedirectResponse, error) {
	state := s.discord.GenerateState(userAgent)

	s.mu.Lock()
	s.states[state] = s.now().Add(stateTTL)
	s.mu.Unlock()

	return auth.LoginRedirectResponse{URL: s.discord.RedirectURL(state)}, nil
}

// HandleCallback implements auth.AuthService.
func (s *AuthServiceImpl) HandleCallback(ctx context.Context, state, code string) (auth.TokenPairResponse, error) {
	if !s.consumeState(state) {
		return auth.TokenPairResponse{}, auth.ErrInvalidState
	}

	token, err := s.discord.VerifyToken(ctx, code)
	if err != nil {
		return auth.TokenPairResponse{}, auth.ErrInvalidToken
	}
	info, err := s.discord.VerifyUser(ctx, token)
	if err != nil {
		return auth.TokenPairResponse{}, auth.ErrInvalidToken
	}

	u, err := s.upsertFromDiscord(ctx, info)
	if err != nil {
		return auth.TokenPairResponse{}, err
	}
	if !u.Active {
		return auth.TokenPairResponse{}, auth.ErrAccountDisabled
	}

	return s.issuePair(u)
}

// Refresh implements auth.AuthService.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenPairResponse, error) {
	userID, expiresAt, err := s.jwt.DecodeRefreshToken(refreshToken)
	if err != nil {
		return auth.TokenPairResponse{}, auth.ErrInvalidToken
	}
	if s.jwt.IsTokenRevoked(refreshToken) {
		return auth.TokenPairResponse{}, auth.ErrRefreshTokenRevoked
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return auth.TokenPairResponse{}, auth.ErrInvalidToken
	}
	if !u.Active {
		return auth.TokenPairResponse{}, auth.ErrAccountDisabled
	}

	// Rotation: the presented token is spent regardless of what happens next.
	s.jwt.RevokeToken(refreshToken, expiresAt)

	return s.issuePair(u)
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	_, expiresAt, err := s.jwt.DecodeRefreshToken(refreshToken)
	if err != nil {
		return auth.ErrInvalidToken
	}
	s.jwt.RevokeToken(refreshToken, expiresAt)
	return nil
}

// consumeState validates and spends a state in one step.
func (s *AuthServiceImpl) consumeState(state string) bool {
	if state == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return s.now().Before(expiry)
}

// SweepStates drops expired login states. Run from the maintenance scheduler.
func (s *AuthServiceImpl) SweepStates() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for state, expiry := range s.states {
		if !now.Before(expiry) {
			delete(s.states, state)
			removed++
		}
	}
	return removed
}

// upsertFromDiscord resolves or creates the account bound to the Discord
// identity. The first account ever created becomes DUENO; the election lock
// serializes the owner check and the insert across transactions so two first
// signups cannot both win.
func (s *AuthServiceImpl) upsertFromDiscord(ctx context.Context, info oauth.DiscordInformation) (user.User, error) {
	existing, err := s.users.GetByDiscordID(ctx, info.DiscordID)
	if err == nil {
		return s.refreshIdentity(ctx, existing, info)
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, err
	}

	var created user.User
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.users.LockOwnerElection(ctx); err != nil {
			return err
		}

		role := user.RoleVisitante
		ownerExists, err := s.users.OwnerExists(ctx)
		if err != nil {
			return err
		}
		if !ownerExists {
			role = user.RoleDueno
		}

		name := info.DisplayName()
		discordID := info.DiscordID
		u := user.User{
			Name:      &name,
			DiscordID: &discordID,
			Role:      role,
			Active:    true,
		}
		if info.Email != "" {
			u.Email = &info.Email
		}

		created, err = s.users.Create(ctx, u)
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	return created, nil
}

// refreshIdentity keeps the provider-owned fields current on returning users.
func (s *AuthServiceImpl) refreshIdentity(ctx context.Context, u user.User, info oauth.DiscordInformation) (user.User, error) {
	name := info.DisplayName()
	changed := u.Name == nil || *u.Name != name
	u.Name = &name
	if info.Email != "" && (u.Email == nil || *u.Email != info.Email) {
		u.Email = &info.Email
		changed = true
	}
	if changed {
		if err := s.users.Update(ctx, u); err != nil {
			return user.User{}, err
		}
	}
	return u, nil
}

func (s *AuthServiceImpl) issuePair(u user.User) (auth.TokenPairResponse, error) {
	name := ""
	if u.Name != nil {
		name = *u.Name
	}

	accessToken, accessExp, err := s.jwt.GenerateAccessToken(u.ID, name, u.Role)
	if err != nil {
		return auth.TokenPairResponse{}, err
	}
	refreshToken, refreshExp, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenPairResponse{}, err
	}

	return auth.TokenPairResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExp,
		UserID:                u.ID,
		Role:                  u.Role,
	}, nil
}
