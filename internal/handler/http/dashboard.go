package http

import (
	"net/http"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/dashboard"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	WeeklySummary(w http.ResponseWriter, r *http.Request)
	TopWorkers(w http.ResponseWriter, r *http.Request)
}

type DashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &DashboardHandlerImpl{dashboardService: dashboardService}
}

// WeeklySummary implements DashboardHandler.
func (h *DashboardHandlerImpl) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.WeeklySummary(r.Context(), time.Now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// TopWorkers implements DashboardHandler.
func (h *DashboardHandlerImpl) TopWorkers(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.TopWorkers(r.Context(), time.Now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
