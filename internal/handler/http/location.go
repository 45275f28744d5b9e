package http

import (
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/i18n"
)

type LocationHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	Trails(w http.ResponseWriter, r *http.Request)
}

type locationHandlerImpl struct {
	locationService location.LocationService
}

func NewLocationHandler(locationService location.LocationService) LocationHandler {
	return &locationHandlerImpl{locationService: locationService}
}

func (h *locationHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req location.RecordPingRequest
	if !decodeJSON(w, r, &req, "RecordPing") {
		return
	}
	ping, err := h.locationService.Record(r.Context(), deviceIDOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Location recorded", ping)
}

func (h *locationHandlerImpl) Trails(w http.ResponseWriter, r *http.Request) {
	trails, err := h.locationService.Trails(r.Context(), location.TrailQuery{
		DeviceID: r.URL.Query().Get("device_id"),
		Limit:    getIntQueryParam(r, "limit", 0),
		Lang:     i18n.FromRequest(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, trails)
}
