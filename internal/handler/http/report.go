package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/report"
	"github.com/fichajeapp/fichaje-backend-go/internal/domain/shift"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/validator"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ReportHandler interface {
	Sessions(w http.ResponseWriter, r *http.Request)
	Activity(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// Sessions implements ReportHandler.
func (h *ReportHandlerImpl) Sessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, to, ok := parseRange(w, q.Get("from"), q.Get("to"))
	if !ok {
		return
	}

	filter := shift.SessionFilter{
		From:    from,
		To:      to,
		Page:    parsePage(q.Get("page")),
		SortAsc: q.Get("sort") == "asc",
	}
	filter.PageSize = parsePageSize(q.Get("pageSize"))

	if v := q.Get("userId"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("minDurationMs"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil || ms < 0 {
			response.BadRequest(w, "minDurationMs must be a non-negative integer", nil)
			return
		}
		filter.MinDurationMs = ms
	}

	if q.Get("format") == "csv" {
		data, err := h.reportService.ExportSessionsCSV(r.Context(), filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.CSV(w, "sessions.csv", data)
		return
	}

	result, err := h.reportService.ListSessions(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Activity implements ReportHandler.
func (h *ReportHandlerImpl) Activity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, to, ok := parseRange(w, q.Get("from"), q.Get("to"))
	if !ok {
		return
	}

	filter := shift.ActivityFilter{
		From:    from,
		To:      to,
		Page:    parsePage(q.Get("page")),
		SortAsc: q.Get("sort") == "asc",
	}
	filter.PageSize = parsePageSize(q.Get("pageSize"))

	if v := q.Get("userId"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("type"); v != "" && v != "ALL" {
		if !shift.ValidLogKind(v) {
			response.BadRequest(w, "type must be IN, OUT or ALL", nil)
			return
		}
		kind := shift.LogKind(v)
		filter.Kind = &kind
	}

	if q.Get("format") == "csv" {
		data, err := h.reportService.ExportActivityCSV(r.Context(), filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.CSV(w, "activity.csv", data)
		return
	}

	result, err := h.reportService.ListActivity(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// parseRange reads the from/to bounds, defaulting to the last 7 days
// (midnight UTC) up to now.
func parseRange(w http.ResponseWriter, fromStr, toStr string) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	from := time.Date(weekAgo.Year(), weekAgo.Month(), weekAgo.Day(), 0, 0, 0, 0, time.UTC)
	to := now

	if fromStr != "" {
		parsed, ok := validator.IsValidDateTime(fromStr)
		if !ok {
			response.BadRequest(w, "from must be a valid ISO8601 timestamp", nil)
			return time.Time{}, time.Time{}, false
		}
		from = parsed.UTC()
	}
	if toStr != "" {
		parsed, ok := validator.IsValidDateTime(toStr)
		if !ok {
			response.BadRequest(w, "to must be a valid ISO8601 timestamp", nil)
			return time.Time{}, time.Time{}, false
		}
		to = parsed.UTC()
	}
	if to.Before(from) {
		response.BadRequest(w, "to must not precede from", nil)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parsePage(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parsePageSize(s string) int {
	size, err := strconv.Atoi(s)
	if err != nil || size < 1 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
