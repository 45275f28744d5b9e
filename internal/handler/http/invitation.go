package http

import (
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InvitationHandler interface {
	// Public
	Lookup(w http.ResponseWriter, r *http.Request)

	// Invite email action, authorization happens inside the service.
	SendInviteEmail(w http.ResponseWriter, r *http.Request)

	// Admin
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
	Resend(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
}

func NewInvitationHandler(invitationService invitation.InvitationService) InvitationHandler {
	return &invitationHandlerImpl{invitationService: invitationService}
}

func callerOf(r *http.Request) invitation.Caller {
	id, _ := middleware.IdentityFromContext(r.Context())
	return invitation.Caller{Email: id.Email, IsAdmin: id.IsAdmin}
}

func (h *invitationHandlerImpl) Lookup(w http.ResponseWriter, r *http.Request) {
	result, err := h.invitationService.Lookup(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *invitationHandlerImpl) SendInviteEmail(w http.ResponseWriter, r *http.Request) {
	var req invitation.SendInviteRequest
	if !decodeJSON(w, r, &req, "SendInviteEmail") {
		return
	}
	if err := h.invitationService.SendInviteEmail(r.Context(), callerOf(r), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invite email sent", map[string]bool{"success": true})
}

func (h *invitationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req invitation.CreateInviteRequest
	if !decodeJSON(w, r, &req, "CreateInvite") {
		return
	}
	created, err := h.invitationService.Create(r.Context(), callerOf(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Invite created", created)
}

func (h *invitationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	invites, err := h.invitationService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, invites)
}

func (h *invitationHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.invitationService.Revoke(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invite revoked", revoked)
}

func (h *invitationHandlerImpl) Resend(w http.ResponseWriter, r *http.Request) {
	resent, err := h.invitationService.Resend(r.Context(), callerOf(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invite email sent", resent)
}

func (h *invitationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.invitationService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Invite deleted", nil)
}
