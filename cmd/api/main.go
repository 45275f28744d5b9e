package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timetrack-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/timetrack-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/dashboard"
	deviceService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/device"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/service/file"
	holidayService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/holiday"
	invitationService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/invitation"
	leaveService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/leave"
	locationService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/location"
	maintenanceService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/maintenance"
	notificationService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/report"
	supportService "github.com/cmlabs-hris/timetrack-backend-go/internal/service/support"
	"github.com/redis/go-redis/v9"
)

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.App.LogLevel),
	})))

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Invalid APP_TIMEZONE: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	// Redis backs the access cache; without it every check reads postgres.
	var accessCache redis.Cmdable
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Warn("Redis unreachable, access cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			accessCache = rdb
		}
		cancel()
	}

	hub := sse.NewHub()
	publishers := []events.Publisher{events.NewStreamPublisher(hub)}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
	}
	publisher := events.Multi(publishers...)

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	deviceRequestRepo := postgresql.NewDeviceRequestRepository(db)
	deviceAccessRepo := postgresql.NewDeviceAccessRepository(db)
	inviteRepo := postgresql.NewInviteRepository(db)
	supportRepo := postgresql.NewSupportRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	pingRepo := postgresql.NewPingRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env != "development")
	var GoogleService oauth.GoogleService
	if cfg.OAuth2Google.ClientID != "" {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	var fileService file.FileService
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
		fileService = file.NewFileService(fileStorage)
	case "none":
		slog.Info("Photo uploads disabled")
	}

	access := deviceService.NewAccessChecker(deviceAccessRepo, accessCache)
	notifSvc := notificationService.NewNotificationService(notificationRepo, publisher, notificationService.Config{})
	defer notifSvc.Stop()

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService, JWTRepository, GoogleService, cfg.Admin, tx)
	holidaySvc := holidayService.NewHolidayService(holidayRepo, publisher)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, reportRepo, deviceRequestRepo, access, tx, publisher)
	reportSvc := reportService.NewReportService(reportRepo, access, holidaySvc, leaveSvc, publisher, loc)
	deviceSvc := deviceService.NewDeviceService(deviceRequestRepo, deviceAccessRepo, access, inviteRepo, userRepo, notifSvc, tx, publisher)
	invitationSvc := invitationService.NewInvitationService(inviteRepo, deviceRequestRepo, emailService, cfg.Admin, cfg.App.FrontendURL, publisher)
	supportSvc := supportService.NewSupportService(supportRepo, deviceRequestRepo, access, publisher)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, reportRepo, loc)
	locationSvc := locationService.NewLocationService(pingRepo, reportRepo, userRepo, access, publisher, cfg.Location.TrailLimit)
	maintenanceSvc := maintenanceService.NewMaintenanceService(maintenanceService.Repositories{
		Reports:        reportRepo,
		Leaves:         leaveRepo,
		DeviceRequests: deviceRequestRepo,
		DeviceAccess:   deviceAccessRepo,
		Users:          userRepo,
		Support:        supportRepo,
		Pings:          pingRepo,
	}, access, tx, publisher, loc)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.EnsureBootstrapAdmin(bootstrapCtx, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword); err != nil {
		slog.Error("Failed to ensure bootstrap admin", "error", err)
	}
	cancelBootstrap()

	scheduler := cron.NewScheduler()
	cron.NewReportJobs(reportRepo, pingRepo, publisher, cfg.Location.RetentionDays, loc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(*cfg, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, cfg.App.FrontendURL),
		Device:       appHTTP.NewDeviceHandler(deviceSvc, fileService),
		Report:       appHTTP.NewReportHandler(reportSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Invitation:   appHTTP.NewInvitationHandler(invitationSvc),
		Support:      appHTTP.NewSupportHandler(supportSvc),
		Holiday:      appHTTP.NewHolidayHandler(holidaySvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService, hub),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Location:     appHTTP.NewLocationHandler(locationSvc),
		Maintenance:  appHTTP.NewMaintenanceHandler(maintenanceSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
