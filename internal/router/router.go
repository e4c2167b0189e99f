// file: internal/router/router.go
package router

import (
	"net/http"

	"castnfish/internal/cache"
	"castnfish/internal/config"
	"castnfish/internal/contextutils"
	"castnfish/internal/database"
	"castnfish/internal/handlers/api/v1/achievements"
	"castnfish/internal/handlers/api/v1/activities"
	"castnfish/internal/handlers/api/v1/auth"
	"castnfish/internal/handlers/api/v1/events"
	"castnfish/internal/handlers/api/v1/forum"
	"castnfish/internal/handlers/api/v1/gear"
	"castnfish/internal/handlers/api/v1/reports"
	"castnfish/internal/handlers/api/v1/users"
	"castnfish/internal/handlers/api/v1/weather"
	"castnfish/internal/middleware"
	"castnfish/internal/notifications"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs to wire routes.
type Dependencies struct {
	Config   *config.Config
	Services *services.Collection
	Hub      *notifications.Hub
	DB       *database.Manager
	Cache    cache.Cache
	Builder  *response.Builder
	Logger   *zap.Logger
}

// New configures all HTTP routes and returns the main handler.
func New(deps Dependencies) http.Handler {
	cfg := deps.Config
	logger := deps.Logger
	builder := deps.Builder

	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigin))
	if cfg.Server.RateLimiting {
		r.Use(middleware.RateLimit(deps.Cache, middleware.DefaultRateLimiterConfig(), logger))
	}

	requireAuth := middleware.Auth(deps.Services.Auth, builder)
	optionalAuth := middleware.OptionalAuth(deps.Services.Auth)

	authController := auth.NewAuthController(deps.Services, logger, builder)
	userController := users.NewUserController(deps.Services, logger, builder)
	activityController := activities.NewActivityController(deps.Services, logger, builder)
	achievementController := achievements.NewAchievementController(deps.Services, logger, builder)
	forumController := forum.NewForumController(deps.Services, logger, builder)
	eventController := events.NewEventController(deps.Services, logger, builder)
	reportController := reports.NewReportController(deps.Services, logger, builder)
	gearController := gear.NewGearController(deps.Services, logger, builder)
	weatherController := weather.NewWeatherController(deps.Services, logger, builder)

	r.Get("/health", healthHandler(deps))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authController.Register)
			r.Post("/login", authController.Login)
			r.With(requireAuth).Get("/me", authController.Me)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/{username}", userController.GetProfile)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Patch("/me", userController.UpdateProfile)
				r.Post("/me/avatar", userController.UploadAvatar)
			})
		})

		r.Route("/activities", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/catches", activityController.LogCatch)
			r.Post("/catches/{id}/like", activityController.LikeCatch)
			r.Post("/trips", activityController.LogTrip)
			r.Get("/stats", activityController.GetStats)
			r.Get("/history", activityController.History)
		})

		r.Route("/achievements", func(r chi.Router) {
			r.Get("/catalog", achievementController.Catalog)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/summary", achievementController.Summary)
				r.Post("/check", achievementController.CheckAll)
			})
		})

		r.Route("/forum", func(r chi.Router) {
			r.Get("/topics", forumController.ListTopics)
			r.Get("/topics/search", forumController.SearchTopics)
			r.Get("/topics/{id}", forumController.GetTopic)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/topics", forumController.CreateTopic)
				r.Post("/topics/{id}/replies", forumController.CreateReply)
				r.Post("/replies/{replyID}/helpful", forumController.MarkHelpful)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.With(optionalAuth).Get("/", eventController.ListEvents)
			r.With(optionalAuth).Get("/{id}", eventController.GetEvent)
			r.Get("/{id}/attendees", eventController.Attendees)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", eventController.CreateEvent)
				r.Post("/{id}/register", eventController.Register)
				r.Delete("/{id}/register", eventController.Unregister)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reportController.ListReports)
			r.Get("/locations", reportController.Locations)
			r.Get("/{id}", reportController.GetReport)
			r.With(requireAuth).Post("/", reportController.CreateReport)
		})

		r.Route("/gear", func(r chi.Router) {
			r.Get("/products", gearController.ListProducts)
			r.Get("/products/{id}", gearController.GetProduct)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/products", gearController.CreateProduct)
				r.Put("/products/{id}/prices", gearController.RecordPrices)
				r.Post("/alerts", gearController.CreateAlert)
				r.Get("/alerts", gearController.ListAlerts)
				r.Delete("/alerts/{id}", gearController.DeleteAlert)
			})
		})

		r.Get("/weather", weatherController.Current)
	})

	// Websocket endpoint for achievement and price-alert pushes. Auth comes
	// from the bearer header or the ?token= fallback.
	r.With(requireAuth).Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		userID := contextutils.GetUserID(req.Context())
		if userID == 0 {
			builder.WriteUnauthorized(w, req, "user not authenticated")
			return
		}
		deps.Hub.HandleConnection(w, req, userID)
	})

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, req, "./docs/swagger.json")
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	).ServeHTTP)

	logger.Info("router setup completed",
		zap.String("swagger_ui", "/swagger/index.html"),
		zap.Bool("rate_limiting", cfg.Server.RateLimiting),
	)
	return r
}

func healthHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}
		healthy := true
		if err := deps.DB.Health(r.Context()); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
		if err := deps.Cache.Health(r.Context()); err != nil {
			checks["cache"] = err.Error()
			healthy = false
		}
		if !healthy {
			deps.Builder.WriteError(w, r, services.NewServiceUnavailableError("dependency check failed"))
			return
		}
		deps.Builder.WriteSuccess(w, r, checks)
	}
}
