package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/services"
	"github.com/jeffa5/matcher/infrastructure/config"
	"github.com/jeffa5/matcher/interfaces/http/rest/handlers"
	"github.com/jeffa5/matcher/interfaces/http/rest/middleware"
	"github.com/jeffa5/matcher/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg                *config.Config
	authService        *services.AuthService
	participantService *services.ParticipantService
	roundService       *services.RoundService
	logger             *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	authService *services.AuthService,
	participantService *services.ParticipantService,
	roundService *services.RoundService,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:                cfg,
		authService:        authService,
		participantService: participantService,
		roundService:       roundService,
		logger:             logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics())

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := handlers.NewAuthHandler(rt.authService, rt.logger)

		// Public auth endpoints
		r.Post("/auth/signup", authHandler.SignUp)
		r.Post("/auth/signin", authHandler.SignIn)

		// Session-protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.authService))

			r.Post("/auth/signout", authHandler.SignOut)

			participantHandler := handlers.NewParticipantHandler(rt.participantService, rt.logger)
			r.Route("/participants", func(r chi.Router) {
				r.Get("/", participantHandler.List)
				r.Get("/{participantID}", participantHandler.Get)
				r.Post("/{participantID}/waiting", participantHandler.ToggleWaiting)
				r.Get("/{participantID}/matches", participantHandler.Matches)
			})

			matchHandler := handlers.NewMatchHandler(rt.roundService, rt.participantService, rt.logger)
			r.Route("/matches", func(r chi.Router) {
				r.Post("/rounds", matchHandler.TriggerRound)
				r.Get("/latest", matchHandler.Latest)
				r.Get("/{generation}", matchHandler.AtGeneration)
			})
		})
	})

	return router
}

// healthCheck reports liveness.
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports readiness to serve traffic.
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
