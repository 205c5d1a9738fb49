package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/absence"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/dashboard"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/settings"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/timeutil"
)

type DashboardServiceImpl struct {
	users    user.UserRepository
	sessions shift.WorkSessionRepository
	absences absence.AbsenceRepository
	settings settings.SettingsService
}

func NewDashboardService(
	users user.UserRepository,
	sessions shift.WorkSessionRepository,
	absences absence.AbsenceRepository,
	settingsSvc settings.SettingsService,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		users:    users,
		sessions: sessions,
		absences: absences,
		settings: settingsSvc,
	}
}

// WeeklySummary implements dashboard.DashboardService.
func (s *DashboardServiceImpl) WeeklySummary(ctx context.Context, now time.Time) (dashboard.WeeklySummaryResponse, error) {
	now = now.UTC()
	week := timeutil.WeekWindow(now)

	staff, err := s.users.ListActiveStaff(ctx)
	if err != nil {
		return dashboard.WeeklySummaryResponse{}, err
	}

	totals, err := s.windowTotals(ctx, staff, week, now)
	if err != nil {
		return dashboard.WeeklySummaryResponse{}, err
	}

	absentIDs, err := s.absences.ListActiveAt(ctx, now)
	if err != nil {
		return dashboard.WeeklySummaryResponse{}, err
	}
	absent := make(map[string]bool, len(absentIDs))
	for _, id := range absentIDs {
		absent[id] = true
	}

	policy, err := s.settings.BonusPolicy(ctx)
	if err != nil {
		return dashboard.WeeklySummaryResponse{}, err
	}

	rows := make([]dashboard.WeeklySummaryRow, 0, len(staff))
	for _, u := range staff {
		ms := totals[u.ID]
		row := dashboard.WeeklySummaryRow{
			UserID:    u.ID,
			Name:      u.Name,
			GameName:  u.GameName,
			Role:      u.Role,
			Ms:        ms,
			Time:      timeutil.FormatHMS(time.Duration(ms) * time.Millisecond),
			Qualifies: policy.Qualifies(ms),
			AbsentNow: absent[u.ID],
		}
		if row.Qualifies {
			amount := policy.Amount.String()
			row.BonusAmount = &amount
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Ms != rows[j].Ms {
			return rows[i].Ms > rows[j].Ms
		}
		return rows[i].UserID < rows[j].UserID
	})

	return dashboard.WeeklySummaryResponse{
		WeekStart:      week.Start.Format(time.RFC3339Nano),
		WeekEnd:        week.End.Format(time.RFC3339Nano),
		ThresholdHours: policy.ThresholdHours,
		Rows:           rows,
	}, nil
}

// TopWorkers implements dashboard.DashboardService.
func (s *DashboardServiceImpl) TopWorkers(ctx context.Context, now time.Time) (dashboard.TopWorkersResponse, error) {
	now = now.UTC()
	day := timeutil.DayWindow(now)
	week := timeutil.WeekWindow(now)
	month := timeutil.MonthWindow(now)

	staff, err := s.users.ListActiveStaff(ctx)
	if err != nil {
		return dashboard.TopWorkersResponse{}, err
	}

	var resp dashboard.TopWorkersResponse
	for _, target := range []struct {
		window timeutil.Window
		slot   **dashboard.TopWorker
	}{
		{day, &resp.Day},
		{week, &resp.Week},
		{month, &resp.Month},
	} {
		totals, err := s.windowTotals(ctx, staff, target.window, now)
		if err != nil {
			return dashboard.TopWorkersResponse{}, err
		}
		*target.slot = leader(staff, totals)
	}

	return resp, nil
}

// windowTotals sums each staff member's clipped session time plus any open
// shift within the window.
func (s *DashboardServiceImpl) windowTotals(ctx context.Context, staff []user.User, w timeutil.Window, now time.Time) (map[string]int64, error) {
	sessions, err := s.sessions.ListOverlapping(ctx, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]time.Duration)
	for _, ws := range sessions {
		byUser[ws.UserID] += w.Clip(ws.StartedAt, ws.EndedAt)
	}
	for _, u := range staff {
		if u.CurrentShiftStart != nil {
			byUser[u.ID] += w.Clip(*u.CurrentShiftStart, now)
		}
	}

	totals := make(map[string]int64, len(staff))
	for _, u := range staff {
		totals[u.ID] = byUser[u.ID].Milliseconds()
	}
	return totals, nil
}

// leader picks the highest total, breaking ties toward the smallest user id
// so repeated calls over the same data agree.
func leader(staff []user.User, totals map[string]int64) *dashboard.TopWorker {
	var best *user.User
	var bestMs int64
	for i := range staff {
		u := &staff[i]
		ms := totals[u.ID]
		if ms <= 0 {
			continue
		}
		if best == nil || ms > bestMs || (ms == bestMs && u.ID < best.ID) {
			best = u
			bestMs = ms
		}
	}
	if best == nil {
		return nil
	}
	return &dashboard.TopWorker{
		UserID:   best.ID,
		Name:     best.Name,
		GameName: best.GameName,
		Ms:       bestMs,
		Time:     timeutil.FormatHMS(time.Duration(bestMs) * time.Millisecond),
	}
}
