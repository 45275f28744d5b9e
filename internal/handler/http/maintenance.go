package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/maintenance"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MaintenanceHandler interface {
	DeleteReportsByDevice(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
	DeletePendingDeviceRequests(w http.ResponseWriter, r *http.Request)
	DeleteSelectedReports(w http.ResponseWriter, r *http.Request)
	ClearResolvedSupport(w http.ResponseWriter, r *http.Request)
	Backup(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
	ChangeDevice(w http.ResponseWriter, r *http.Request)
}

type maintenanceHandlerImpl struct {
	maintenanceService maintenance.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService maintenance.MaintenanceService) MaintenanceHandler {
	return &maintenanceHandlerImpl{maintenanceService: maintenanceService}
}

// writeDeleteResult keeps the partial result visible when some steps failed.
func writeDeleteResult(w http.ResponseWriter, result maintenance.DeleteResult, err error) {
	if err != nil {
		if errors.Is(err, maintenance.ErrPartialDeletion) {
			response.WithCodeAndData(w, http.StatusMultiStatus, "PARTIAL_FAILURE", err.Error(), result)
			return
		}
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, fmt.Sprintf("%d records deleted", result.Deleted), result)
}

func (h *maintenanceHandlerImpl) DeleteReportsByDevice(w http.ResponseWriter, r *http.Request) {
	result, err := h.maintenanceService.DeleteReportsByDevice(r.Context(), chi.URLParam(r, "deviceID"))
	writeDeleteResult(w, result, err)
}

func (h *maintenanceHandlerImpl) DeleteUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.maintenanceService.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	writeDeleteResult(w, result, err)
}

func (h *maintenanceHandlerImpl) DeletePendingDeviceRequests(w http.ResponseWriter, r *http.Request) {
	result, err := h.maintenanceService.DeletePendingDeviceRequests(r.Context())
	writeDeleteResult(w, result, err)
}

func (h *maintenanceHandlerImpl) DeleteSelectedReports(w http.ResponseWriter, r *http.Request) {
	var req report.DeleteSelectedRequest
	if !decodeJSON(w, r, &req, "DeleteSelectedReports") {
		return
	}
	result, err := h.maintenanceService.DeleteSelectedReports(r.Context(), req.IDs)
	writeDeleteResult(w, result, err)
}

func (h *maintenanceHandlerImpl) ClearResolvedSupport(w http.ResponseWriter, r *http.Request) {
	result, err := h.maintenanceService.ClearResolvedSupport(r.Context())
	writeDeleteResult(w, result, err)
}

// Backup answers with the backup itself as a JSON download.
func (h *maintenanceHandlerImpl) Backup(w http.ResponseWriter, r *http.Request) {
	backup, filename, err := h.maintenanceService.Backup(r.Context(), chi.URLParam(r, "deviceID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(backup)
}

func (h *maintenanceHandlerImpl) Restore(w http.ResponseWriter, r *http.Request) {
	var req maintenance.RestoreRequest
	if !decodeJSON(w, r, &req, "Restore") {
		return
	}
	result, err := h.maintenanceService.Restore(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Backup restored", result)
}

func (h *maintenanceHandlerImpl) ChangeDevice(w http.ResponseWriter, r *http.Request) {
	var req maintenance.ChangeDeviceRequest
	if !decodeJSON(w, r, &req, "ChangeDevice") {
		return
	}
	result, err := h.maintenanceService.ChangeDevice(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device changed", result)
}
