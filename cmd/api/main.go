package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fichajeapp/fichaje-backend-go/internal/config"
	appHTTP "github.com/fichajeapp/fichaje-backend-go/internal/handler/http"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/cron"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/database"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/jwt"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/oauth"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/sse"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/storage"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/webhook"
	"github.com/fichajeapp/fichaje-backend-go/internal/repository/postgresql"
	absenceService "github.com/fichajeapp/fichaje-backend-go/internal/service/absence"
	authService "github.com/fichajeapp/fichaje-backend-go/internal/service/auth"
	dashboardService "github.com/fichajeapp/fichaje-backend-go/internal/service/dashboard"
	reportService "github.com/fichajeapp/fichaje-backend-go/internal/service/report"
	settingsService "github.com/fichajeapp/fichaje-backend-go/internal/service/settings"
	shiftService "github.com/fichajeapp/fichaje-backend-go/internal/service/shift"
	userService "github.com/fichajeapp/fichaje-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	timeLogRepo := postgresql.NewTimeLogRepository(db)
	workSessionRepo := postgresql.NewWorkSessionRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	configRepo := postgresql.NewConfigRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	discordService := oauth.NewDiscordService(
		cfg.OAuth2Discord.ClientID,
		cfg.OAuth2Discord.ClientSecret,
		cfg.OAuth2Discord.RedirectURL,
		cfg.OAuth2Discord.Scopes,
	)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	var notifier webhook.Notifier = webhook.NopNotifier{}
	if cfg.Webhook.DiscordURL != "" {
		notifier = webhook.NewDiscordNotifier(cfg.Webhook.DiscordURL)
	}

	hub := sse.NewHub()
	roleCache := userService.NewRoleCache(userRepo)

	authSvc := authService.NewAuthService(txManager, userRepo, discordService, JWTService)
	shiftSvc := shiftService.NewShiftService(txManager, userRepo, timeLogRepo, workSessionRepo, notifier, hub)
	absenceSvc := absenceService.NewAbsenceService(absenceRepo)
	settingsSvc := settingsService.NewSettingsService(txManager, configRepo, fileStorage)
	userSvc := userService.NewUserService(txManager, userRepo, roleCache)
	dashboardSvc := dashboardService.NewDashboardService(userRepo, workSessionRepo, absenceRepo, settingsSvc)
	reportSvc := reportService.NewReportService(timeLogRepo, workSessionRepo)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc, cfg.App.FrontendURL)
	clockHandler := appHTTP.NewClockHandler(shiftSvc)
	absenceHandler := appHTTP.NewAbsenceHandler(absenceSvc)
	userHandler := appHTTP.NewUserHandler(userSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	dashboardHandler := appHTTP.NewDashboardHandler(dashboardSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub)
	fivemHandler := appHTTP.NewFiveMHandler(shiftSvc)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("sweep-revoked-tokens", time.Hour, func(ctx context.Context) error {
		JWTService.SweepRevoked(time.Now())
		return nil
	})
	scheduler.AddJob("sweep-login-states", 15*time.Minute, func(ctx context.Context) error {
		authSvc.SweepStates()
		return nil
	})
	scheduler.AddJob("sweep-role-cache", 5*time.Minute, func(ctx context.Context) error {
		roleCache.Sweep()
		return nil
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			FrontendURL: cfg.App.FrontendURL,
			FiveMAPIKey: cfg.FiveM.APIKey,
			UploadsDir:  cfg.Storage.BasePath,
		},
		JWTService,
		roleCache,
		authHandler,
		clockHandler,
		absenceHandler,
		userHandler,
		reportHandler,
		dashboardHandler,
		settingsHandler,
		eventsHandler,
		fivemHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
