package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/user"
	"github.com/fichajeapp/fichaje-backend-go/internal/handler/http/middleware"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the request-path wiring that comes from the
// environment rather than from services.
type RouterConfig struct {
	Env         string
	FrontendURL string
	FiveMAPIKey string
	UploadsDir  string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	roles user.RoleLookup,
	authHandler AuthHandler,
	clockHandler ClockHandler,
	absenceHandler AbsenceHandler,
	userHandler UserHandler,
	reportHandler ReportHandler,
	dashboardHandler DashboardHandler,
	settingsHandler SettingsHandler,
	eventsHandler EventsHandler,
	fivemHandler FiveMHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fichaje-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Uploaded logos are served as plain static files.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login/discord", authHandler.LoginWithDiscord)
			r.Get("/oauth/callback/discord", authHandler.OAuthCallbackDiscord)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Game-server integration, guarded by a shared API key instead of JWTs.
		r.Route("/fivem", func(r chi.Router) {
			r.Use(middleware.APIKeyRequired(cfg.FiveMAPIKey))
			r.Post("/punch", fivemHandler.Punch)
			r.Get("/last/{discordId}", fivemHandler.LastPunch)
		})

		// Requires authentication. Roles come from the store, not the token.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.WithAccess(roles))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", userHandler.Me)
				r.Put("/", userHandler.UpdateMe)
			})

			r.Get("/settings", settingsHandler.Get)

			// Staff only (visitors are locked out of time tracking)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)

				r.Route("/clock", func(r chi.Router) {
					r.Get("/", clockHandler.Status)
					r.Post("/in", clockHandler.ClockIn)
					r.Post("/out", clockHandler.ClockOut)
				})

				r.Route("/absences", func(r chi.Router) {
					r.Get("/", absenceHandler.List)
					r.Post("/", absenceHandler.Create)
					r.Put("/{id}", absenceHandler.Update)
					r.Delete("/{id}", absenceHandler.Delete)
				})

				r.Get("/events", eventsHandler.Stream)
			})

			// Manager and owner only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.Get("/users", userHandler.Directory)

				r.Route("/reports", func(r chi.Router) {
					r.Get("/sessions", reportHandler.Sessions)
					r.Get("/activity", reportHandler.Activity)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/weekly-summary", dashboardHandler.WeeklySummary)
					r.Get("/top-workers", dashboardHandler.TopWorkers)
				})
			})

			// Owner only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOwner)

				r.Route("/admin/users", func(r chi.Router) {
					r.Get("/", userHandler.AdminList)
					r.Put("/{id}", userHandler.AdminUpdate)
				})

				r.Put("/settings", settingsHandler.Update)
				r.Post("/settings/logo", settingsHandler.UploadLogo)
				r.Delete("/settings/logo", settingsHandler.DeleteLogo)
			})
		})
	})
	return r
}
