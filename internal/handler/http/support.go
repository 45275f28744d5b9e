package http

import (
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/support"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SupportHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type supportHandlerImpl struct {
	supportService support.SupportService
}

func NewSupportHandler(supportService support.SupportService) SupportHandler {
	return &supportHandlerImpl{supportService: supportService}
}

func (h *supportHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	requests, err := h.supportService.ListMine(r.Context(), deviceIDOf(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

func (h *supportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req support.CreateSupportRequest
	if !decodeJSON(w, r, &req, "CreateSupport") {
		return
	}
	created, err := h.supportService.Create(r.Context(), deviceIDOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Support request submitted", created)
}

func (h *supportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.supportService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

func (h *supportHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req support.ResolveRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req, "ResolveSupport") {
		return
	}
	resolved, err := h.supportService.Resolve(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Support request resolved", resolved)
}

func (h *supportHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.supportService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Support request deleted", nil)
}
