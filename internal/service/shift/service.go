package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/sse"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/timeutil"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/webhook"
	"github.com/jackc/pgx/v5"
)

const recentLimit = 5

// TxRunner executes fn atomically against the store. Repository calls made
// with the context passed to fn join the same transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ShiftServiceImpl struct {
	tx       TxRunner
	users    user.UserRepository
	logs     shift.TimeLogRepository
	sessions shift.WorkSessionRepository
	notifier webhook.Notifier
	hub      *sse.Hub
	now      func() time.Time
}

func NewShiftService(
	tx TxRunner,
	users user.UserRepository,
	logs shift.TimeLogRepository,
	sessions shift.WorkSessionRepository,
	notifier webhook.Notifier,
	hub *sse.Hub,
) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		tx:       tx,
		users:    users,
		logs:     logs,
		sessions: sessions,
		notifier: notifier,
		hub:      hub,
		now:      time.Now,
	}
}

// ClockIn implements shift.ShiftService.
func (s *ShiftServiceImpl) ClockIn(ctx context.Context, userID string, req shift.ClockRequest) (shift.ClockInResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ClockInResponse{}, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return shift.ClockInResponse{}, err
	}
	if !u.Active {
		return shift.ClockInResponse{}, shift.ErrUserInactive
	}

	startedAt := s.now().UTC()

	var log shift.TimeLog
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// The conditional update is the race guard: losers of a concurrent
		// clock-in see zero rows and the whole transaction rolls back.
		opened, err := s.users.SetShiftStart(ctx, userID, startedAt)
		if err != nil {
			return err
		}
		if !opened {
			return shift.ErrAlreadyClockedIn
		}

		log, err = s.logs.Create(ctx, shift.TimeLog{
			UserID:    userID,
			Kind:      shift.LogIn,
			Note:      req.Note,
			CreatedAt: startedAt,
		})
		return err
	})
	if err != nil {
		return shift.ClockInResponse{}, err
	}

	s.announce(ctx, fmt.Sprintf("🕒 %s marcó ENTRADA a las %s",
		u.DisplayName(), startedAt.Format("15:04:05")), log)

	return shift.ClockInResponse{
		ActiveStart: startedAt.Format(time.RFC3339Nano),
		Log:         shift.NewTimeLogResponse(log),
	}, nil
}

// ClockOut implements shift.ShiftService.
func (s *ShiftServiceImpl) ClockOut(ctx context.Context, userID string, req shift.ClockRequest) (shift.ClockOutResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ClockOutResponse{}, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return shift.ClockOutResponse{}, err
	}
	if !u.Active {
		return shift.ClockOutResponse{}, shift.ErrUserInactive
	}

	endedAt := s.now().UTC()

	var session shift.WorkSession
	var log shift.TimeLog
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Clearing and reading the open-shift start is one conditional
		// statement, so two concurrent clock-outs cannot both observe it.
		startedAt, open, err := s.users.ClearShiftStart(ctx, userID)
		if err != nil {
			return err
		}
		if !open {
			return shift.ErrNotClockedIn
		}

		durationMs := endedAt.Sub(startedAt).Milliseconds()
		if durationMs < 0 {
			durationMs = 0
		}

		session, err = s.sessions.Create(ctx, shift.WorkSession{
			UserID:     userID,
			StartedAt:  startedAt,
			EndedAt:    endedAt,
			DurationMs: durationMs,
			Note:       req.Note,
		})
		if err != nil {
			return err
		}

		log, err = s.logs.Create(ctx, shift.TimeLog{
			UserID:    userID,
			Kind:      shift.LogOut,
			Note:      req.Note,
			CreatedAt: endedAt,
		})
		return err
	})
	if err != nil {
		return shift.ClockOutResponse{}, err
	}

	s.announce(ctx, fmt.Sprintf("🕒 %s marcó SALIDA a las %s (duración %s)",
		u.DisplayName(), endedAt.Format("15:04:05"),
		timeutil.FormatHMS(time.Duration(session.DurationMs)*time.Millisecond)), log)

	return shift.ClockOutResponse{
		WorkSession: shift.NewWorkSessionResponse(session),
	}, nil
}

// Status implements shift.ShiftService.
func (s *ShiftServiceImpl) Status(ctx context.Context, userID string) (shift.StatusResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return shift.StatusResponse{}, err
	}
	if !u.Active {
		return shift.StatusResponse{}, shift.ErrUserInactive
	}

	now := s.now().UTC()
	day := timeutil.DayWindow(now)
	week := timeutil.WeekWindow(now)
	month := timeutil.MonthWindow(now)

	logs, err := s.logs.ListRecent(ctx, userID, recentLimit)
	if err != nil {
		return shift.StatusResponse{}, err
	}
	recent, err := s.sessions.ListRecent(ctx, userID, recentLimit)
	if err != nil {
		return shift.StatusResponse{}, err
	}

	// The summary must not be limited to the recent sessions, so every
	// session since the earliest window start is loaded.
	earliest := week.Start
	if month.Start.Before(earliest) {
		earliest = month.Start
	}
	summarySessions, err := s.sessions.ListEndedSince(ctx, userID, earliest)
	if err != nil {
		return shift.StatusResponse{}, err
	}

	sumRange := func(w timeutil.Window) int64 {
		var total time.Duration
		for _, ws := range summarySessions {
			total += w.Clip(ws.StartedAt, ws.EndedAt)
		}
		if u.CurrentShiftStart != nil {
			total += w.Clip(*u.CurrentShiftStart, now)
		}
		return total.Milliseconds()
	}

	var activeStart *string
	if u.CurrentShiftStart != nil {
		v := u.CurrentShiftStart.UTC().Format(time.RFC3339Nano)
		activeStart = &v
	}

	logResponses := make([]shift.TimeLogResponse, 0, len(logs))
	for _, l := range logs {
		logResponses = append(logResponses, shift.NewTimeLogResponse(l))
	}
	sessionResponses := make([]shift.WorkSessionResponse, 0, len(recent))
	for _, ws := range recent {
		sessionResponses = append(sessionResponses, shift.NewWorkSessionResponse(ws))
	}

	return shift.StatusResponse{
		ActiveStart: activeStart,
		Logs:        logResponses,
		Sessions:    sessionResponses,
		Summary: shift.Summary{
			TodayMs: sumRange(day),
			WeekMs:  sumRange(week),
			MonthMs: sumRange(month),
		},
		Period: shift.PeriodInfo{
			Now:        now.Format(time.RFC3339Nano),
			DayStart:   day.Start.Format(time.RFC3339Nano),
			WeekStart:  week.Start.Format(time.RFC3339Nano),
			MonthStart: month.Start.Format(time.RFC3339Nano),
			Timezone:   "UTC",
		},
	}, nil
}

// RecordExternalPunch implements shift.ShiftService.
func (s *ShiftServiceImpl) RecordExternalPunch(ctx context.Context, req shift.ExternalPunchRequest) (shift.TimeLogResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.TimeLogResponse{}, err
	}

	u, err := s.users.GetByDiscordID(ctx, req.DiscordID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return shift.TimeLogResponse{}, shift.ErrUnknownDiscordID
		}
		return shift.TimeLogResponse{}, err
	}

	now := s.now().UTC()
	log, err := s.logs.Create(ctx, shift.TimeLog{
		UserID:    u.ID,
		Kind:      shift.LogKind(req.Kind),
		Note:      req.Note,
		CreatedAt: now,
	})
	if err != nil {
		return shift.TimeLogResponse{}, err
	}

	s.announce(ctx, fmt.Sprintf("🕒 (FiveM) %s marcó %s a las %s",
		u.DisplayName(), req.Kind, now.Format("15:04:05")), log)

	return shift.NewTimeLogResponse(log), nil
}

// LastPunch implements shift.ShiftService.
func (s *ShiftServiceImpl) LastPunch(ctx context.Context, discordID string) (*shift.TimeLogResponse, error) {
	u, err := s.users.GetByDiscordID(ctx, discordID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, shift.ErrUnknownDiscordID
		}
		return nil, err
	}

	log, err := s.logs.Last(ctx, u.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	resp := shift.NewTimeLogResponse(log)
	return &resp, nil
}

// announce delivers the side effects of a clock action: the webhook message
// and the live dashboard event. Failures never reach the caller.
func (s *ShiftServiceImpl) announce(ctx context.Context, message string, log shift.TimeLog) {
	s.notifier.Notify(ctx, message)
	if s.hub != nil {
		s.hub.Broadcast(sse.Event{Event: "clock", Data: shift.NewTimeLogResponse(log)})
	}
}
