package http

import (
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	Overview(w http.ResponseWriter, r *http.Request)
	// Monthly is the personnel month summary.
	Monthly(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func statsQueryFrom(r *http.Request) dashboard.StatsQuery {
	return dashboard.StatsQuery{
		Period:   r.URL.Query().Get("period"),
		DeviceID: r.URL.Query().Get("device_id"),
	}
}

func (h *dashboardHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context(), statsQueryFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

func (h *dashboardHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.GetOverview(r.Context(), statsQueryFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, overview)
}

func (h *dashboardHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	q := dashboard.MonthlyQuery{
		Year:  getIntQueryParam(r, "year", 0),
		Month: getIntQueryParam(r, "month", 0),
	}
	summary, err := h.dashboardService.GetMonthly(r.Context(), deviceIDOf(r), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}
