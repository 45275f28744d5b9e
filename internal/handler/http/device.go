package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type DeviceHandler interface {
	// Public
	Register(w http.ResponseWriter, r *http.Request)

	// Personnel
	CheckAccess(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	UpdatePhoto(w http.ResponseWriter, r *http.Request)
	UploadPhoto(w http.ResponseWriter, r *http.Request)

	// Admin
	ListRequests(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	ListAccess(w http.ResponseWriter, r *http.Request)
	SetAccess(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	deviceService device.DeviceService
	fileService   file.FileService
}

// NewDeviceHandler wires the device routes. A nil fileService disables photo uploads.
func NewDeviceHandler(deviceService device.DeviceService, fileService file.FileService) DeviceHandler {
	return &deviceHandlerImpl{
		deviceService: deviceService,
		fileService:   fileService,
	}
}

func (h *deviceHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req device.RegisterDeviceRequest
	if !decodeJSON(w, r, &req, "RegisterDevice") {
		return
	}
	created, err := h.deviceService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Device registration submitted", created)
}

func (h *deviceHandlerImpl) CheckAccess(w http.ResponseWriter, r *http.Request) {
	access, err := h.deviceService.CheckAccess(r.Context(), deviceIDOf(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, access)
}

func (h *deviceHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.deviceService.GetProfile(r.Context(), deviceIDOf(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

func (h *deviceHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req device.UpdateProfileRequest
	if !decodeJSON(w, r, &req, "UpdateProfile") {
		return
	}
	profile, err := h.deviceService.UpdateProfile(r.Context(), deviceIDOf(r), r.Header.Get("Accept-Language"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile updated", profile)
}

func (h *deviceHandlerImpl) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	var req device.UpdatePhotoRequest
	if !decodeJSON(w, r, &req, "UpdatePhoto") {
		return
	}
	profile, err := h.deviceService.UpdatePhoto(r.Context(), deviceIDOf(r), r.Header.Get("Accept-Language"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile photo updated", profile)
}

// UploadPhoto takes a multipart "photo" file, stores it and sets it as the
// profile photo.
func (h *deviceHandlerImpl) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.fileService == nil {
		response.WithCode(w, http.StatusNotImplemented, "UPLOADS_DISABLED", "Photo uploads are not configured")
		return
	}
	deviceID := deviceIDOf(r)
	if _, err := h.deviceService.GetProfile(r.Context(), deviceID); err != nil {
		response.HandleError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, file.MaxPhotoUploadBytes+1<<20)
	photo, header, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, device.ErrPhotoTooLarge)
			return
		}
		response.BadRequest(w, "Photo file is required", map[string]string{"photo": "photo file is required"})
		return
	}
	defer photo.Close()

	url, key, err := h.fileService.UploadProfilePhoto(r.Context(), deviceID, photo, header.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	profile, err := h.deviceService.UpdatePhoto(r.Context(), deviceID, r.Header.Get("Accept-Language"), device.UpdatePhotoRequest{PhotoURL: url})
	if err != nil {
		if delErr := h.fileService.DeleteFile(r.Context(), key); delErr != nil {
			slog.Warn("Failed to remove orphaned photo", "key", key, "error", delErr)
		}
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile photo updated", profile)
}

func (h *deviceHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.deviceService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

func (h *deviceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	approved, err := h.deviceService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device request approved", approved)
}

func (h *deviceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	rejected, err := h.deviceService.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device request rejected", rejected)
}

func (h *deviceHandlerImpl) ListAccess(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deviceService.ListAccess(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, entries)
}

func (h *deviceHandlerImpl) SetAccess(w http.ResponseWriter, r *http.Request) {
	var req device.SetAccessRequest
	if !decodeJSON(w, r, &req, "SetAccess") {
		return
	}
	access, err := h.deviceService.SetAccess(r.Context(), chi.URLParam(r, "deviceID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device access updated", access)
}
