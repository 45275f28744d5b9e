package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/response"
)

const DeviceIDHeader = "X-Device-ID"

type deviceIDKey struct{}

// DeviceRequired reads the personnel device identifier from the request and
// stores it in the context. Write authorization happens in the services.
func DeviceRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
		if deviceID == "" || len(deviceID) > 128 {
			response.HandleError(w, device.ErrDeviceIDRequired)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithDeviceID(r.Context(), deviceID)))
	})
}

func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDKey{}, deviceID)
}

func DeviceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey{}).(string)
	return id
}
