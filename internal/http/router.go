package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/taskflow/internal/auth"
	"github.com/redmonkez12/taskflow/internal/config"
	"github.com/redmonkez12/taskflow/internal/httputil"
	"github.com/redmonkez12/taskflow/internal/logging"
	"github.com/redmonkez12/taskflow/internal/task"
	"github.com/redmonkez12/taskflow/internal/team"
	"github.com/redmonkez12/taskflow/internal/web"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth *auth.Handler
	Task *task.Handler
	Team *team.Handler
	Site *web.Site
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Preflight answers every OPTIONS request itself, so it must run before cors
	r.Use(Preflight)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.TrustedOrigins,
		AllowedMethods: allowedMethods,
		AllowedHeaders: allowedHeaders,
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300, // 5 minutes
	}))

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleNotFound)

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", h.Auth.SignUp)
		r.Post("/signin", h.Auth.SignIn)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Get("/user", h.Auth.GetProfile)
			r.Put("/user", h.Auth.UpdateProfile)

			r.Get("/tasks", h.Task.List)
			r.Post("/tasks", h.Task.Create)
			r.Put("/tasks/{id}", h.Task.Update)
			r.Delete("/tasks/{id}", h.Task.Delete)

			r.Get("/team", h.Team.List)
			r.Post("/team", h.Team.Create)
		})
	})

	if h.Site != nil {
		h.Site.Mount(r)
	}

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondError(w, "Not Found", http.StatusNotFound)
}
