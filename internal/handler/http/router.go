package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/config"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

// Handlers bundles every route handler the router mounts.
type Handlers struct {
	Auth         AuthHandler
	Device       DeviceHandler
	Report       ReportHandler
	Leave        LeaveHandler
	Invitation   InvitationHandler
	Support      SupportHandler
	Holiday      HolidayHandler
	Notification NotificationHandler
	Dashboard    DashboardHandler
	Location     LocationHandler
	Maintenance  MaintenanceHandler
}

func NewRouter(cfg config.Config, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timetrack"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token", middleware.DeviceIDHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Storage.Type == "local" && cfg.Storage.BasePath != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.BasePath))))
	}

	publicLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.PublicRPS), cfg.RateLimit.PublicBurst)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitByIP(publicLimiter)).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))

				r.Get("/me", h.Auth.Me)
				r.Post("/sse-token", h.Auth.SSEToken)
			})
		})

		r.Get("/invites/lookup", h.Invitation.Lookup)
		r.With(middleware.RateLimitByIP(publicLimiter)).Post("/devices/register", h.Device.Register)
		r.Get("/holidays", h.Holiday.List)

		// EventSource cannot send headers; the stream checks its own token.
		r.Get("/admin/stream", h.Notification.Stream)

		// Personnel, identified by device
		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.DeviceRequired)

			r.Get("/access", h.Device.CheckAccess)
			r.Get("/profile", h.Device.GetProfile)
			r.Put("/profile", h.Device.UpdateProfile)
			r.Put("/profile/photo", h.Device.UpdatePhoto)
			r.Post("/profile/photo/upload", h.Device.UploadPhoto)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", h.Report.ListMine)
				r.Get("/today", h.Report.Today)
				r.Get("/open", h.Report.ListOpen)
				r.Post("/start", h.Report.StartWork)
				r.Post("/end", h.Report.EndWork)
				r.Post("/overtime", h.Report.SaveOvertime)
				r.Post("/overtime/start", h.Report.StartOvertime)
				r.Post("/overtime/end", h.Report.EndOvertime)
				r.Post("/manual", h.Report.SaveManualEntry)
			})

			r.Get("/stats/monthly", h.Dashboard.Monthly)

			r.Get("/leaves", h.Leave.ListMine)
			r.Post("/leaves", h.Leave.Create)

			r.Get("/support", h.Support.ListMine)
			r.Post("/support", h.Support.Create)

			r.Post("/locations", h.Location.Record)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			// The action authorizes the caller itself.
			r.Post("/functions/send-invite", h.Invitation.SendInviteEmail)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/reports", func(r chi.Router) {
					r.Get("/", h.Report.List)
					r.Get("/export.csv", h.Report.ExportCSV)
					r.Get("/export.xlsx", h.Report.ExportXLSX)
					r.Post("/delete", h.Report.DeleteSelected)
					r.Get("/{id}", h.Report.Get)
					r.Put("/{id}", h.Report.Update)
					r.Delete("/{id}", h.Report.Delete)
				})

				r.Route("/leaves", func(r chi.Router) {
					r.Get("/", h.Leave.List)
					r.Post("/{id}/approve", h.Leave.Approve)
					r.Post("/{id}/reject", h.Leave.Reject)
					r.Delete("/{id}", h.Leave.Delete)
				})

				r.Route("/devices", func(r chi.Router) {
					r.Get("/requests", h.Device.ListRequests)
					r.Post("/requests/{id}/approve", h.Device.Approve)
					r.Post("/requests/{id}/reject", h.Device.Reject)
					r.Get("/access", h.Device.ListAccess)
					r.Put("/{deviceID}/access", h.Device.SetAccess)
				})

				r.Route("/invites", func(r chi.Router) {
					r.Get("/", h.Invitation.List)
					r.Post("/", h.Invitation.Create)
					r.Post("/{id}/revoke", h.Invitation.Revoke)
					r.Post("/{id}/resend", h.Invitation.Resend)
					r.Delete("/{id}", h.Invitation.Delete)
				})

				r.Route("/support", func(r chi.Router) {
					r.Get("/", h.Support.List)
					r.Post("/{id}/resolve", h.Support.Resolve)
					r.Delete("/{id}", h.Support.Delete)
				})

				r.Route("/holidays", func(r chi.Router) {
					r.Post("/", h.Holiday.Create)
					r.Delete("/{id}", h.Holiday.Delete)
				})

				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", h.Notification.List)
					r.Get("/unread-count", h.Notification.UnreadCount)
					r.Post("/mark-read", h.Notification.MarkAsRead)
					r.Post("/mark-all-read", h.Notification.MarkAllAsRead)
					r.Delete("/{id}", h.Notification.Delete)
				})

				r.Get("/dashboard/stats", h.Dashboard.Stats)
				r.Get("/dashboard/overview", h.Dashboard.Overview)

				r.Get("/locations/trails", h.Location.Trails)

				r.Route("/maintenance", func(r chi.Router) {
					r.Delete("/devices/{deviceID}/reports", h.Maintenance.DeleteReportsByDevice)
					r.Get("/devices/{deviceID}/backup", h.Maintenance.Backup)
					r.Delete("/users/{id}", h.Maintenance.DeleteUser)
					r.Delete("/device-requests/pending", h.Maintenance.DeletePendingDeviceRequests)
					r.Post("/reports/delete", h.Maintenance.DeleteSelectedReports)
					r.Delete("/support/resolved", h.Maintenance.ClearResolvedSupport)
					r.Post("/restore", h.Maintenance.Restore)
					r.Post("/change-device", h.Maintenance.ChangeDevice)
				})
			})
		})
	})

	return r
}
