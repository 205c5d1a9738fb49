package dashboard

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/absence"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/dashboard"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/settings"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2025-03-12 12:00 UTC; the week runs from Monday 2025-03-10.
var testNow = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

type fakeUserRepo struct {
	staff []user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range r.staff {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByDiscordID(ctx context.Context, discordID string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	return r.staff, nil
}

func (r *fakeUserRepo) ListActiveStaff(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(r.staff))
	for _, u := range r.staff {
		if u.Active && u.Role != user.RoleVisitante {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ListClockedIn(ctx context.Context, startedBefore time.Time) ([]user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) error { return nil }

func (r *fakeUserRepo) CountOwnersExcept(ctx context.Context, id string) (int64, error) {
	return 0, nil
}

func (r *fakeUserRepo) OwnerExists(ctx context.Context) (bool, error) { return true, nil }

func (r *fakeUserRepo) LockOwnerElection(ctx context.Context) error { return nil }

func (r *fakeUserRepo) SetShiftStart(ctx context.Context, id string, startedAt time.Time) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) ClearShiftStart(ctx context.Context, id string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

type fakeSessionRepo struct {
	sessions []shift.WorkSession
}

func (r *fakeSessionRepo) Create(ctx context.Context, s shift.WorkSession) (shift.WorkSession, error) {
	return s, nil
}

func (r *fakeSessionRepo) ListRecent(ctx context.Context, userID string, limit int) ([]shift.WorkSession, error) {
	return nil, nil
}

func (r *fakeSessionRepo) ListEndedSince(ctx context.Context, userID string, since time.Time) ([]shift.WorkSession, error) {
	return nil, nil
}

func (r *fakeSessionRepo) ListOverlapping(ctx context.Context, start, end time.Time) ([]shift.WorkSession, error) {
	out := make([]shift.WorkSession, 0)
	for _, s := range r.sessions {
		if !s.StartedAt.After(end) && !s.EndedAt.Before(start) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) List(ctx context.Context, filter shift.SessionFilter) ([]shift.WorkSession, int64, error) {
	return nil, 0, nil
}

func (r *fakeSessionRepo) SumDuration(ctx context.Context, filter shift.SessionFilter) (int64, error) {
	return 0, nil
}

type fakeAbsenceRepo struct {
	activeIDs []string
}

func (r *fakeAbsenceRepo) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	return a, nil
}

func (r *fakeAbsenceRepo) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	return absence.Absence{}, absence.ErrAbsenceNotFound
}

func (r *fakeAbsenceRepo) ListByUser(ctx context.Context, userID string) ([]absence.Absence, error) {
	return nil, nil
}

func (r *fakeAbsenceRepo) ListActiveAt(ctx context.Context, at time.Time) ([]string, error) {
	return r.activeIDs, nil
}

func (r *fakeAbsenceRepo) Update(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	return a, nil
}

func (r *fakeAbsenceRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeSettingsService struct {
	policy settings.BonusPolicy
}

func (s *fakeSettingsService) Get(ctx context.Context) (settings.Settings, error) {
	return settings.Settings{}, nil
}

func (s *fakeSettingsService) BonusPolicy(ctx context.Context) (settings.BonusPolicy, error) {
	return s.policy, nil
}

func (s *fakeSettingsService) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.Settings, error) {
	return settings.Settings{}, nil
}

func (s *fakeSettingsService) UploadLogo(ctx context.Context, upload settings.LogoUpload) (settings.LogoResponse, error) {
	return settings.LogoResponse{}, nil
}

func (s *fakeSettingsService) DeleteLogo(ctx context.Context) error { return nil }

func staff(id string) user.User {
	name := "User " + id
	return user.User{ID: id, Name: &name, Role: user.RoleEmpleado, Active: true}
}

func session(userID string, start, end time.Time) shift.WorkSession {
	return shift.WorkSession{
		UserID:     userID,
		StartedAt:  start,
		EndedAt:    end,
		DurationMs: end.Sub(start).Milliseconds(),
	}
}

func defaultPolicy() settings.BonusPolicy {
	return settings.BonusPolicy{ThresholdHours: 10, Amount: decimal.NewFromInt(5000)}
}

func newTestService(users *fakeUserRepo, sessions *fakeSessionRepo, absences *fakeAbsenceRepo, policy settings.BonusPolicy) *DashboardServiceImpl {
	return NewDashboardService(users, sessions, absences, &fakeSettingsService{policy: policy})
}

func TestWeeklySummaryIncludesZeroHourStaff(t *testing.T) {
	users := &fakeUserRepo{staff: []user.User{staff("a"), staff("b")}}
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		session("a", testNow.Add(-2*time.Hour), testNow.Add(-time.Hour)),
	}}
	svc := newTestService(users, sessions, &fakeAbsenceRepo{}, defaultPolicy())

	resp, err := svc.WeeklySummary(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)

	assert.Equal(t, "a", resp.Rows[0].UserID)
	assert.Equal(t, int64(3600000), resp.Rows[0].Ms)
	assert.Equal(t, "01:00:00", resp.Rows[0].Time)

	assert.Equal(t, "b", resp.Rows[1].UserID)
	assert.Equal(t, int64(0), resp.Rows[1].Ms)
	assert.False(t, resp.Rows[1].Qualifies)
}

func TestWeeklySummaryClipsToWeekStart(t *testing.T) {
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	users := &fakeUserRepo{staff: []user.User{staff("a")}}
	// Session straddling Sunday midnight: only the hour after Monday 00:00
	// belongs to this week.
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		session("a", weekStart.Add(-time.Hour), weekStart.Add(time.Hour)),
	}}
	svc := newTestService(users, sessions, &fakeAbsenceRepo{}, defaultPolicy())

	resp, err := svc.WeeklySummary(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3600000), resp.Rows[0].Ms)
}

func TestWeeklySummarySplitSessionsMatchUnsplit(t *testing.T) {
	users := &fakeUserRepo{staff: []user.User{staff("a"), staff("b")}}
	mid := testNow.Add(-2 * time.Hour)
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		// "a" worked four hours in one sitting; "b" the same four hours split
		// at an arbitrary point. Totals must agree.
		session("a", testNow.Add(-4*time.Hour), testNow),
		session("b", testNow.Add(-4*time.Hour), mid),
		session("b", mid, testNow),
	}}
	svc := newTestService(users, sessions, &fakeAbsenceRepo{}, defaultPolicy())

	resp, err := svc.WeeklySummary(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, resp.Rows[0].Ms, resp.Rows[1].Ms)
}

func TestWeeklySummaryBonusBoundary(t *testing.T) {
	users := &fakeUserRepo{staff: []user.User{staff("exact"), staff("under")}}
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		// Exactly ten hours.
		session("exact", weekStart, weekStart.Add(10*time.Hour)),
		// One millisecond short.
		session("under", weekStart, weekStart.Add(10*time.Hour-time.Millisecond)),
	}}
	svc := newTestService(users, sessions, &fakeAbsenceRepo{}, defaultPolicy())

	resp, err := svc.WeeklySummary(context.Background(), testNow)
	require.NoError(t, err)

	byID := make(map[string]dashboard.WeeklySummaryRow, 2)
	for _, row := range resp.Rows {
		byID[row.UserID] = row
	}

	require.True(t, byID["exact"].Qualifies)
	require.NotNil(t, byID["exact"].BonusAmount)
	assert.Equal(t, "5000", *byID["exact"].BonusAmount)

	assert.False(t, byID["under"].Qualifies)
	assert.Nil(t, byID["under"].BonusAmount)
}

func TestWeeklySummaryCountsOpenShift(t *testing.T) {
	u := staff("a")
	started := testNow.Add(-90 * time.Minute)
	u.CurrentShiftStart = &started
	users := &fakeUserRepo{staff: []user.User{u}}
	svc := newTestService(users, &fakeSessionRepo{}, &fakeAbsenceRepo{}, defaultPolicy())

	resp, err := svc.WeeklySummary(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(90*60000), resp.Rows[0].Ms)
}

func TestWeeklySummaryFlagsAbsentStaff(t *testing.T) {
	users := &fakeUserRepo{staff: []user.User{staff("a"), staff("b")}}
	svc := newTestService(users, &fakeSessionRepo{}, &fakeAbsenceRepo{activeIDs: []string{"b"}}, defaultPolicy())

	resp, err := svc.WeeklySummary(context.Background(), testNow)
	require.NoError(t, err)

	for _, row := range resp.Rows {
		assert.Equal(t, row.UserID == "b", row.AbsentNow)
	}
}

func TestTopWorkersPerWindow(t *testing.T) {
	users := &fakeUserRepo{staff: []user.User{staff("a"), staff("b")}}
	dayStart := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		// "a" leads today, "b" leads the week via Monday work.
		session("a", dayStart.Add(8*time.Hour), dayStart.Add(10*time.Hour)),
		session("b", dayStart.Add(8*time.Hour), dayStart.Add(9*time.Hour)),
		session("b", weekStart.Add(8*time.Hour), weekStart.Add(16*time.Hour)),
	}}
	svc := newTestService(users, sessions, &fakeAbsenceRepo{}, defaultPolicy())

	resp, err := svc.TopWorkers(context.Background(), testNow)
	require.NoError(t, err)

	require.NotNil(t, resp.Day)
	assert.Equal(t, "a", resp.Day.UserID)
	assert.Equal(t, int64(2*3600000), resp.Day.Ms)

	require.NotNil(t, resp.Week)
	assert.Equal(t, "b", resp.Week.UserID)
	assert.Equal(t, int64(9*3600000), resp.Week.Ms)

	require.NotNil(t, resp.Month)
	assert.Equal(t, "b", resp.Month.UserID)
}

func TestTopWorkersTieBreaksOnUserID(t *testing.T) {
	users := &fakeUserRepo{staff: []user.User{staff("zeta"), staff("alpha")}}
	dayStart := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		session("zeta", dayStart.Add(8*time.Hour), dayStart.Add(9*time.Hour)),
		session("alpha", dayStart.Add(9*time.Hour), dayStart.Add(10*time.Hour)),
	}}
	svc := newTestService(users, sessions, &fakeAbsenceRepo{}, defaultPolicy())

	resp, err := svc.TopWorkers(context.Background(), testNow)
	require.NoError(t, err)
	require.NotNil(t, resp.Day)
	assert.Equal(t, "alpha", resp.Day.UserID)
}

func TestTopWorkersEmptyWindowsAreNil(t *testing.T) {
	users := &fakeUserRepo{staff: []user.User{staff("a")}}
	svc := newTestService(users, &fakeSessionRepo{}, &fakeAbsenceRepo{}, defaultPolicy())

	resp, err := svc.TopWorkers(context.Background(), testNow)
	require.NoError(t, err)
	assert.Nil(t, resp.Day)
	assert.Nil(t, resp.Week)
	assert.Nil(t, resp.Month)
}
