package report

import (
	"context"
	"encoding/csv"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/report"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimeLogRepo struct {
	logs []shift.TimeLog
}

func (r *fakeTimeLogRepo) Create(ctx context.Context, log shift.TimeLog) (shift.TimeLog, error) {
	return log, nil
}

func (r *fakeTimeLogRepo) ListRecent(ctx context.Context, userID string, limit int) ([]shift.TimeLog, error) {
	return nil, nil
}

func (r *fakeTimeLogRepo) Last(ctx context.Context, userID string) (shift.TimeLog, error) {
	return shift.TimeLog{}, pgx.ErrNoRows
}

func (r *fakeTimeLogRepo) match(filter shift.ActivityFilter, ignoreKind bool) []shift.TimeLog {
	out := make([]shift.TimeLog, 0)
	for _, l := range r.logs {
		if l.CreatedAt.Before(filter.From) || l.CreatedAt.After(filter.To) {
			continue
		}
		if !ignoreKind && filter.Kind != nil && l.Kind != *filter.Kind {
			continue
		}
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (r *fakeTimeLogRepo) List(ctx context.Context, filter shift.ActivityFilter) ([]shift.TimeLog, int64, error) {
	matched := r.match(filter, false)
	sort.Slice(matched, func(i, j int) bool {
		if filter.SortAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[j].CreatedAt.Before(matched[i].CreatedAt)
	})
	total := int64(len(matched))

	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeTimeLogRepo) CountByKind(ctx context.Context, filter shift.ActivityFilter) (int64, int64, error) {
	var in, out int64
	for _, l := range r.match(filter, true) {
		if l.Kind == shift.LogIn {
			in++
		} else {
			out++
		}
	}
	return in, out, nil
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
	return nil, nil
}

func (r *fakeSessionRepo) match(filter shift.SessionFilter) []shift.WorkSession {
	out := make([]shift.WorkSession, 0)
	for _, s := range r.sessions {
		if s.EndedAt.Before(filter.From) || s.EndedAt.After(filter.To) {
			continue
		}
		if filter.UserID != nil && s.UserID != *filter.UserID {
			continue
		}
		if filter.MinDurationMs > 0 && s.DurationMs < filter.MinDurationMs {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *fakeSessionRepo) List(ctx context.Context, filter shift.SessionFilter) ([]shift.WorkSession, int64, error) {
	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		if filter.SortAsc {
			return matched[i].EndedAt.Before(matched[j].EndedAt)
		}
		return matched[j].EndedAt.Before(matched[i].EndedAt)
	})
	total := int64(len(matched))

	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeSessionRepo) SumDuration(ctx context.Context, filter shift.SessionFilter) (int64, error) {
	var total int64
	for _, s := range r.match(filter) {
		total += s.DurationMs
	}
	return total, nil
}

func ptr[T any](v T) *T { return &v }

var (
	from = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
)

func session(id, userID string, endedAt time.Time, durationMs int64) shift.WorkSession {
	return shift.WorkSession{
		ID:         id,
		UserID:     userID,
		StartedAt:  endedAt.Add(-time.Duration(durationMs) * time.Millisecond),
		EndedAt:    endedAt,
		DurationMs: durationMs,
		UserName:   ptr("User " + userID),
	}
}

func TestListSessionsPaginatesAndSummarizes(t *testing.T) {
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		session("s1", "a", from.Add(24*time.Hour), 3600000),
		session("s2", "a", from.Add(48*time.Hour), 7200000),
		session("s3", "b", from.Add(72*time.Hour), 1800000),
	}}
	svc := NewReportService(&fakeTimeLogRepo{}, sessions)

	resp, err := svc.ListSessions(context.Background(), shift.SessionFilter{
		From: from, To: to, Page: 1, PageSize: 2,
	})
	require.NoError(t, err)

	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, int64(2), resp.Pages)
	assert.Equal(t, int64(12600000), resp.Summary.TotalMs)
	assert.Equal(t, int64(4200000), resp.Summary.AvgMs)
	assert.Equal(t, "desc", resp.Sort)

	// Newest first by default.
	assert.Equal(t, "s3", resp.Data[0].ID)
	assert.Equal(t, "s2", resp.Data[1].ID)
}

func TestListSessionsFilters(t *testing.T) {
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		session("s1", "a", from.Add(24*time.Hour), 3600000),
		session("s2", "b", from.Add(48*time.Hour), 600000),
	}}
	svc := NewReportService(&fakeTimeLogRepo{}, sessions)

	resp, err := svc.ListSessions(context.Background(), shift.SessionFilter{
		From: from, To: to, UserID: ptr("a"), Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "s1", resp.Data[0].ID)
	assert.Equal(t, "a", *resp.Filters.UserID)

	resp, err = svc.ListSessions(context.Background(), shift.SessionFilter{
		From: from, To: to, MinDurationMs: 1000000, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "s1", resp.Data[0].ID)
}

func TestListSessionsEmptyRange(t *testing.T) {
	svc := NewReportService(&fakeTimeLogRepo{}, &fakeSessionRepo{})

	resp, err := svc.ListSessions(context.Background(), shift.SessionFilter{
		From: from, To: to, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Equal(t, int64(0), resp.Total)
	assert.Equal(t, int64(0), resp.Summary.TotalMs)
	assert.Equal(t, int64(0), resp.Summary.AvgMs)
}

func TestExportSessionsCSV(t *testing.T) {
	sessions := &fakeSessionRepo{sessions: []shift.WorkSession{
		session("s1", "a", from.Add(24*time.Hour), 3600000),
		session("s2", "b", from.Add(48*time.Hour), 7200000),
	}}
	svc := NewReportService(&fakeTimeLogRepo{}, sessions)

	out, err := svc.ExportSessionsCSV(context.Background(), shift.SessionFilter{
		From: from, To: to,
	})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "userId", "userName", "gameName", "role", "startedAt", "endedAt", "durationMs", "duration", "note"}, records[0])
	assert.Equal(t, "s2", records[1][0])
	assert.Equal(t, "7200000", records[1][7])
	assert.Equal(t, "02:00:00", records[1][8])
}

func TestExportSessionsCSVAppliesCap(t *testing.T) {
	many := make([]shift.WorkSession, 0, report.ExportCap+100)
	for i := 0; i < report.ExportCap+100; i++ {
		many = append(many, session("s", "a", from.Add(time.Duration(i)*time.Minute), 60000))
	}
	svc := NewReportService(&fakeTimeLogRepo{}, &fakeSessionRepo{sessions: many})

	out, err := svc.ExportSessionsCSV(context.Background(), shift.SessionFilter{
		From: from, To: to,
	})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, report.ExportCap+1) // header + capped rows
}

func TestListActivityCountsBothKindsDespiteFilter(t *testing.T) {
	logs := &fakeTimeLogRepo{logs: []shift.TimeLog{
		{ID: "l1", UserID: "a", Kind: shift.LogIn, CreatedAt: from.Add(time.Hour)},
		{ID: "l2", UserID: "a", Kind: shift.LogOut, CreatedAt: from.Add(2 * time.Hour)},
		{ID: "l3", UserID: "b", Kind: shift.LogIn, CreatedAt: from.Add(3 * time.Hour)},
	}}
	svc := NewReportService(logs, &fakeSessionRepo{})

	kind := shift.LogIn
	resp, err := svc.ListActivity(context.Background(), shift.ActivityFilter{
		From: from, To: to, Kind: &kind, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)

	// Listing narrowed to IN, counts still cover both kinds.
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Summary.In)
	assert.Equal(t, int64(1), resp.Summary.Out)
	assert.Equal(t, "IN", resp.Filters.Kind)
}

func TestExportActivityCSV(t *testing.T) {
	logs := &fakeTimeLogRepo{logs: []shift.TimeLog{
		{ID: "l1", UserID: "a", Kind: shift.LogIn, CreatedAt: from.Add(time.Hour), Note: ptr("turno, mañana")},
	}}
	svc := NewReportService(logs, &fakeSessionRepo{})

	out, err := svc.ExportActivityCSV(context.Background(), shift.ActivityFilter{
		From: from, To: to,
	})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "IN", records[1][5])
	// Commas in notes survive encoding.
	assert.Equal(t, "turno, mañana", records[1][6])
}
