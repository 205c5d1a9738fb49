package auth

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/auth"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/jwt"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/oauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDiscord struct {
	mu       sync.Mutex
	counter  int
	accounts map[string]oauth.DiscordInformation // code -> account
}

func newFakeDiscord() *fakeDiscord {
	return &fakeDiscord{accounts: make(map[string]oauth.DiscordInformation)}
}

func (d *fakeDiscord) addAccount(code string, info oauth.DiscordInformation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[code] = info
}

func (d *fakeDiscord) GenerateState(userAgent string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counter++
	return fmt.Sprintf("state-%d", d.counter)
}

func (d *fakeDiscord) RedirectURL(state string) string {
	return "https://discord.test/authorize?state=" + state
}

func (d *fakeDiscord) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.accounts[code]; !ok {
		return nil, fmt.Errorf("unknown code %q", code)
	}
	return &oauth2.Token{AccessToken: code}, nil
}

func (d *fakeDiscord) VerifyUser(ctx context.Context, token *oauth2.Token) (oauth.DiscordInformation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	info, ok := d.accounts[token.AccessToken]
	if !ok {
		return oauth.DiscordInformation{}, fmt.Errorf("unknown token")
	}
	return info, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User

	// useElectionLock makes LockOwnerElection block like the advisory lock
	// does; pair it with xactTx so the lock is held to the end of the
	// transaction.
	useElectionLock bool
	electionMu      sync.Mutex
	electionHeld    bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := u
	r.users[u.ID] = &cp
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return *u, nil
}

func (r *fakeUserRepo) GetByDiscordID(ctx context.Context, discordID string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.DiscordID != nil && *u.DiscordID == discordID {
			return *u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ListActiveStaff(ctx context.Context) ([]user.User, error) { return nil, nil }

func (r *fakeUserRepo) ListClockedIn(ctx context.Context, startedBefore time.Time) ([]user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	*existing = u
	return nil
}

func (r *fakeUserRepo) CountOwnersExcept(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.ID != id && u.Role == user.RoleDueno {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) OwnerExists(ctx context.Context) (bool, error) {
	n, err := r.CountOwnersExcept(ctx, "")
	return n > 0, err
}

func (r *fakeUserRepo) LockOwnerElection(ctx context.Context) error {
	if !r.useElectionLock {
		return nil
	}
	r.electionMu.Lock()
	r.mu.Lock()
	r.electionHeld = true
	r.mu.Unlock()
	return nil
}

func (r *fakeUserRepo) releaseElection() {
	r.mu.Lock()
	held := r.electionHeld
	r.electionHeld = false
	r.mu.Unlock()
	if held {
		r.electionMu.Unlock()
	}
}

func (r *fakeUserRepo) SetShiftStart(ctx context.Context, id string, startedAt time.Time) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) ClearShiftStart(ctx context.Context, id string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

// xactTx mirrors transaction-scoped lock semantics: the election lock is
// released when the transaction ends, not when the locking call returns.
type xactTx struct{ repo *fakeUserRepo }

func (t xactTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	defer t.repo.releaseElection()
	return fn(ctx)
}

func newTestService(repo *fakeUserRepo, discord *fakeDiscord) *AuthServiceImpl {
	jwtSvc := jwt.NewJWTService("test-secret", "15m", "168h")
	return NewAuthService(passthroughTx{}, repo, discord, jwtSvc)
}

// login walks the whole redirect/callback flow for a given code.
func login(t *testing.T, svc *AuthServiceImpl, code string) (auth.TokenPairResponse, error) {
	t.Helper()
	redirect, err := svc.LoginRedirect(context.Background(), "test-agent")
	require.NoError(t, err)

	state := redirect.URL[len("https://discord.test/authorize?state="):]
	return svc.HandleCallback(context.Background(), state, code)
}

func TestFirstSignupBecomesOwner(t *testing.T) {
	discord := newFakeDiscord()
	discord.addAccount("code-1", oauth.DiscordInformation{
		DiscordID: "d1", Username: "primero", Email: "p@example.com",
	})
	discord.addAccount("code-2", oauth.DiscordInformation{
		DiscordID: "d2", Username: "segundo",
	})
	svc := newTestService(newFakeUserRepo(), discord)

	first, err := login(t, svc, "code-1")
	require.NoError(t, err)
	assert.Equal(t, user.RoleDueno, first.Role)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)

	second, err := login(t, svc, "code-2")
	require.NoError(t, err)
	assert.Equal(t, user.RoleVisitante, second.Role)
	assert.NotEqual(t, first.UserID, second.UserID)
}

func TestConcurrentFirstSignupsElectOneOwner(t *testing.T) {
	discord := newFakeDiscord()
	const signups = 8
	codes := make([]string, signups)
	for i := range codes {
		codes[i] = fmt.Sprintf("code-%d", i)
		discord.addAccount(codes[i], oauth.DiscordInformation{
			DiscordID: fmt.Sprintf("d%d", i),
			Username:  fmt.Sprintf("user%d", i),
		})
	}

	repo := newFakeUserRepo()
	repo.useElectionLock = true
	jwtSvc := jwt.NewJWTService("test-secret", "15m", "168h")
	svc := NewAuthService(xactTx{repo: repo}, repo, discord, jwtSvc)

	states := make([]string, signups)
	for i := range states {
		redirect, err := svc.LoginRedirect(context.Background(), "agent")
		require.NoError(t, err)
		states[i] = redirect.URL[len("https://discord.test/authorize?state="):]
	}

	start := make(chan struct{})
	errs := make(chan error, signups)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(state, code string) {
			defer wg.Done()
			<-start
			_, err := svc.HandleCallback(context.Background(), state, code)
			errs <- err
		}(states[i], codes[i])
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, signups)

	owners := 0
	for _, u := range all {
		if u.Role == user.RoleDueno {
			owners++
		} else {
			assert.Equal(t, user.RoleVisitante, u.Role)
		}
	}
	assert.Equal(t, 1, owners)
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), newFakeDiscord())

	_, err := svc.HandleCallback(context.Background(), "never-issued", "code")
	assert.ErrorIs(t, err, auth.ErrInvalidState)
}

func TestCallbackStateIsSingleUse(t *testing.T) {
	discord := newFakeDiscord()
	discord.addAccount("code-1", oauth.DiscordInformation{DiscordID: "d1", Username: "uno"})
	svc := newTestService(newFakeUserRepo(), discord)

	redirect, err := svc.LoginRedirect(context.Background(), "agent")
	require.NoError(t, err)
	state := redirect.URL[len("https://discord.test/authorize?state="):]

	_, err = svc.HandleCallback(context.Background(), state, "code-1")
	require.NoError(t, err)

	_, err = svc.HandleCallback(context.Background(), state, "code-1")
	assert.ErrorIs(t, err, auth.ErrInvalidState)
}

func TestCallbackExpiredState(t *testing.T) {
	discord := newFakeDiscord()
	discord.addAccount("code-1", oauth.DiscordInformation{DiscordID: "d1", Username: "uno"})
	svc := newTestService(newFakeUserRepo(), discord)

	base := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	now := base
	svc.now = func() time.Time { return now }

	redirect, err := svc.LoginRedirect(context.Background(), "agent")
	require.NoError(t, err)
	state := redirect.URL[len("https://discord.test/authorize?state="):]

	now = base.Add(stateTTL + time.Minute)
	_, err = svc.HandleCallback(context.Background(), state, "code-1")
	assert.ErrorIs(t, err, auth.ErrInvalidState)
}

func TestReturningUserKeepsRoleAndRefreshesName(t *testing.T) {
	discord := newFakeDiscord()
	discord.addAccount("code-1", oauth.DiscordInformation{DiscordID: "d1", Username: "uno"})
	repo := newFakeUserRepo()
	svc := newTestService(repo, discord)

	first, err := login(t, svc, "code-1")
	require.NoError(t, err)
	require.Equal(t, user.RoleDueno, first.Role)

	// Same Discord account returns with a new display name.
	discord.addAccount("code-1b", oauth.DiscordInformation{
		DiscordID: "d1", Username: "uno", GlobalName: "Uno Renombrado",
	})
	again, err := login(t, svc, "code-1b")
	require.NoError(t, err)

	assert.Equal(t, first.UserID, again.UserID)
	assert.Equal(t, user.RoleDueno, again.Role)

	stored, err := repo.GetByID(context.Background(), first.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Uno Renombrado", *stored.Name)
}

func TestDisabledAccountCannotSignIn(t *testing.T) {
	discord := newFakeDiscord()
	discord.addAccount("code-1", oauth.DiscordInformation{DiscordID: "d1", Username: "uno"})
	repo := newFakeUserRepo()
	svc := newTestService(repo, discord)

	first, err := login(t, svc, "code-1")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), first.UserID)
	require.NoError(t, err)
	stored.Active = false
	require.NoError(t, repo.Update(context.Background(), stored))

	_, err = login(t, svc, "code-1")
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestRefreshRotatesToken(t *testing.T) {
	discord := newFakeDiscord()
	discord.addAccount("code-1", oauth.DiscordInformation{DiscordID: "d1", Username: "uno"})
	svc := newTestService(newFakeUserRepo(), discord)

	pair, err := login(t, svc, "code-1")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.UserID, rotated.UserID)
	assert.NotEmpty(t, rotated.AccessToken)

	// The spent token no longer works.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), newFakeDiscord())

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshRejectsDisabledAccount(t *testing.T) {
	discord := newFakeDiscord()
	discord.addAccount("code-1", oauth.DiscordInformation{DiscordID: "d1", Username: "uno"})
	repo := newFakeUserRepo()
	svc := newTestService(repo, discord)

	pair, err := login(t, svc, "code-1")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), pair.UserID)
	require.NoError(t, err)
	stored.Active = false
	require.NoError(t, repo.Update(context.Background(), stored))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	discord := newFakeDiscord()
	discord.addAccount("code-1", oauth.DiscordInformation{DiscordID: "d1", Username: "uno"})
	svc := newTestService(newFakeUserRepo(), discord)

	pair, err := login(t, svc, "code-1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestSweepStatesDropsExpired(t *testing.T) {
	svc := newTestService(newFakeUserRepo(), newFakeDiscord())

	base := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	now := base
	svc.now = func() time.Time { return now }

	_, err := svc.LoginRedirect(context.Background(), "agent")
	require.NoError(t, err)
	_, err = svc.LoginRedirect(context.Background(), "agent")
	require.NoError(t, err)

	now = base.Add(stateTTL + time.Minute)
	assert.Equal(t, 2, svc.SweepStates())
	assert.Equal(t, 0, svc.SweepStates())
}
