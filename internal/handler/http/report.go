package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Personnel
	Today(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListOpen(w http.ResponseWriter, r *http.Request)
	StartWork(w http.ResponseWriter, r *http.Request)
	EndWork(w http.ResponseWriter, r *http.Request)
	StartOvertime(w http.ResponseWriter, r *http.Request)
	EndOvertime(w http.ResponseWriter, r *http.Request)
	SaveOvertime(w http.ResponseWriter, r *http.Request)
	SaveManualEntry(w http.ResponseWriter, r *http.Request)

	// Admin
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	DeleteSelected(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportXLSX(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

func reportFilterFromQuery(r *http.Request) report.ReportFilter {
	q := r.URL.Query()
	return report.ReportFilter{
		DeviceID: q.Get("device_id"),
		Status:   q.Get("status"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Month:    q.Get("month"),
		Search:   q.Get("search"),
		Page:     getIntQueryParam(r, "page", 0),
		Limit:    getIntQueryParam(r, "limit", 0),
	}
}

func writeReportList(w http.ResponseWriter, result report.ListReportResponse) {
	response.SuccessWithMeta(w, result.Reports, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func (h *reportHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.reportService.GetToday(r.Context(), deviceIDOf(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, today)
}

func (h *reportHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ListMine(r.Context(), deviceIDOf(r), reportFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeReportList(w, result)
}

func (h *reportHandlerImpl) ListOpen(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.ListOpenBacklog(r.Context(), deviceIDOf(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, reports)
}

func (h *reportHandlerImpl) StartWork(w http.ResponseWriter, r *http.Request) {
	var req report.StartWorkRequest
	if !decodeJSON(w, r, &req, "StartWork") {
		return
	}
	rep, err := h.reportService.StartWork(r.Context(), deviceIDOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Work started", rep)
}

func (h *reportHandlerImpl) EndWork(w http.ResponseWriter, r *http.Request) {
	var req report.EndWorkRequest
	if !decodeJSON(w, r, &req, "EndWork") {
		return
	}
	rep, err := h.reportService.EndWork(r.Context(), deviceIDOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work ended", rep)
}

func (h *reportHandlerImpl) StartOvertime(w http.ResponseWriter, r *http.Request) {
	var req report.StartOvertimeRequest
	if !decodeJSON(w, r, &req, "StartOvertime") {
		return
	}
	rep, err := h.reportService.StartOvertime(r.Context(), deviceIDOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overtime started", rep)
}

func (h *reportHandlerImpl) EndOvertime(w http.ResponseWriter, r *http.Request) {
	var req report.EndOvertimeRequest
	if !decodeJSON(w, r, &req, "EndOvertime") {
		return
	}
	rep, err := h.reportService.EndOvertime(r.Context(), deviceIDOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overtime ended", rep)
}

func (h *reportHandlerImpl) SaveOvertime(w http.ResponseWriter, r *http.Request) {
	var req report.SaveOvertimeRequest
	if !decodeJSON(w, r, &req, "SaveOvertime") {
		return
	}
	rep, err := h.reportService.SaveOvertime(r.Context(), deviceIDOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overtime saved", rep)
}

func (h *reportHandlerImpl) SaveManualEntry(w http.ResponseWriter, r *http.Request) {
	var req report.ManualEntryRequest
	if !decodeJSON(w, r, &req, "SaveManualEntry") {
		return
	}
	result, err := h.reportService.SaveManualEntry(r.Context(), deviceIDOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result.LeaveRequestID != "" {
		response.Created(w, "Leave request submitted", result)
		return
	}
	response.Created(w, "Report saved", result)
}

func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.List(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeReportList(w, result)
}

func (h *reportHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reportService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rep)
}

func (h *reportHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req report.AdminUpdateReportRequest
	if !decodeJSON(w, r, &req, "UpdateReport") {
		return
	}
	rep, err := h.reportService.AdminUpdate(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Report updated", rep)
}

func (h *reportHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reportService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Report deleted", nil)
}

func (h *reportHandlerImpl) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	var req report.DeleteSelectedRequest
	if !decodeJSON(w, r, &req, "DeleteSelected") {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	deleted, err := h.reportService.DeleteSelected(r.Context(), req.IDs)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Reports deleted", map[string]int64{"deleted": deleted})
}

// export renders into a buffer first so a failure still gets a JSON error.
func (h *reportHandlerImpl) export(w http.ResponseWriter, r *http.Request, ext, contentType string,
	render func(r *http.Request, filter report.ReportFilter, buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(r, reportFilterFromQuery(r), &buf); err != nil {
		if !errors.Is(err, report.ErrNothingToExport) {
			slog.Error("Report export failed", "format", ext, "error", err)
		}
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("reports_%s.%s", time.Now().Format(time.DateOnly), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv; charset=utf-8", func(r *http.Request, filter report.ReportFilter, buf *bytes.Buffer) error {
		return h.reportService.ExportCSV(r.Context(), filter, buf)
	})
}

func (h *reportHandlerImpl) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func(r *http.Request, filter report.ReportFilter, buf *bytes.Buffer) error {
		return h.reportService.ExportXLSX(r.Context(), filter, buf)
	})
}
