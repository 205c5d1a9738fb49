package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/report"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/timeutil"
)

type ReportServiceImpl struct {
	logs     shift.TimeLogRepository
	sessions shift.WorkSessionRepository
}

func NewReportService(logs shift.TimeLogRepository, sessions shift.WorkSessionRepository) *ReportServiceImpl {
	return &ReportServiceImpl{logs: logs, sessions: sessions}
}

// ListSessions implements report.ReportService.
func (s *ReportServiceImpl) ListSessions(ctx context.Context, filter shift.SessionFilter) (report.SessionListResponse, error) {
	sessions, total, err := s.sessions.List(ctx, filter)
	if err != nil {
		return report.SessionListResponse{}, err
	}

	totalMs, err := s.sessions.SumDuration(ctx, filter)
	if err != nil {
		return report.SessionListResponse{}, err
	}
	var avgMs int64
	if total > 0 {
		avgMs = totalMs / total
	}

	data := make([]shift.WorkSessionResponse, 0, len(sessions))
	for _, ws := range sessions {
		data = append(data, shift.NewWorkSessionResponse(ws))
	}

	return report.SessionListResponse{
		Data:     data,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
		Pages:    pages(total, filter.PageSize),
		Summary:  report.SessionSummary{TotalMs: totalMs, AvgMs: avgMs},
		Period: report.Period{
			From: filter.From.UTC().Format(time.RFC3339Nano),
			To:   filter.To.UTC().Format(time.RFC3339Nano),
		},
		Sort: sortLabel(filter.SortAsc),
		Filters: report.SessionFilters{
			UserID:        filter.UserID,
			MinDurationMs: filter.MinDurationMs,
		},
	}, nil
}

// ExportSessionsCSV implements report.ReportService.
func (s *ReportServiceImpl) ExportSessionsCSV(ctx context.Context, filter shift.SessionFilter) ([]byte, error) {
	filter.Page = 1
	filter.PageSize = report.ExportCap

	sessions, _, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "userId", "userName", "gameName", "role", "startedAt", "endedAt", "durationMs", "duration", "note"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, ws := range sessions {
		record := []string{
			ws.ID,
			ws.UserID,
			deref(ws.UserName),
			deref(ws.UserGameName),
			deref(ws.UserRole),
			ws.StartedAt.UTC().Format(time.RFC3339),
			ws.EndedAt.UTC().Format(time.RFC3339),
			strconv.FormatInt(ws.DurationMs, 10),
			timeutil.FormatHMS(time.Duration(ws.DurationMs) * time.Millisecond),
			deref(ws.Note),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ListActivity implements report.ReportService.
func (s *ReportServiceImpl) ListActivity(ctx context.Context, filter shift.ActivityFilter) (report.ActivityListResponse, error) {
	logs, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return report.ActivityListResponse{}, err
	}

	// The in/out counts always cover both kinds, even when the listing is
	// narrowed to one.
	inCount, outCount, err := s.logs.CountByKind(ctx, filter)
	if err != nil {
		return report.ActivityListResponse{}, err
	}

	data := make([]shift.TimeLogResponse, 0, len(logs))
	for _, l := range logs {
		data = append(data, shift.NewTimeLogResponse(l))
	}

	kind := "ALL"
	if filter.Kind != nil {
		kind = string(*filter.Kind)
	}

	return report.ActivityListResponse{
		Data:     data,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
		Pages:    pages(total, filter.PageSize),
		Summary:  report.ActivitySummary{In: inCount, Out: outCount},
		Period: report.Period{
			From: filter.From.UTC().Format(time.RFC3339Nano),
			To:   filter.To.UTC().Format(time.RFC3339Nano),
		},
		Sort: sortLabel(filter.SortAsc),
		Filters: report.ActivityFilters{
			Kind:   kind,
			UserID: filter.UserID,
		},
	}, nil
}

// ExportActivityCSV implements report.ReportService.
func (s *ReportServiceImpl) ExportActivityCSV(ctx context.Context, filter shift.ActivityFilter) ([]byte, error) {
	filter.Page = 1
	filter.PageSize = report.ExportCap

	logs, _, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "userId", "userName", "gameName", "role", "type", "note", "createdAt"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, l := range logs {
		record := []string{
			l.ID,
			l.UserID,
			deref(l.UserName),
			deref(l.UserGameName),
			deref(l.UserRole),
			string(l.Kind),
			deref(l.Note),
			l.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func pages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

func sortLabel(asc bool) string {
	if asc {
		return "asc"
	}
	return "desc"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
