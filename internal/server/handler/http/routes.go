package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/MediaKeeper/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// MediaKeeper API. It applies request logging and metrics collection
// globally, JSON content-type enforcement on the auth endpoints, and
// bearer-token authentication on everything under /users and /media.
//
// Parameters:
//
//	authHandler  - handler for registration, login, and refresh endpoints
//	userHandler  - handler for the profile endpoint
//	mediaHandler - handler for media upload, listing, download, and permissions
//	auth         - bearer authentication middleware
//	logger       - structured logger for request logging middleware
//
// Routes:
//
//	POST   /auth/register           → authHandler.Register
//	POST   /auth/login              → authHandler.Login
//	POST   /auth/refresh            → authHandler.Refresh
//	GET    /users/me                → userHandler.Me           (protected)
//	POST   /media/upload            → mediaHandler.Upload      (protected)
//	GET    /media/my                → mediaHandler.List        (protected)
//	GET    /media/{id}              → mediaHandler.Get         (protected)
//	GET    /media/{id}/download     → mediaHandler.Download    (protected)
//	DELETE /media/{id}              → mediaHandler.Delete      (protected)
//	GET    /media/{id}/permissions  → mediaHandler.GetPermissions (protected)
//	POST   /media/{id}/permissions  → mediaHandler.SetPermission  (protected)
//	GET    /health                  → liveness probe
//	GET    /metrics                 → prometheus metrics
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	mediaHandler *MediaHandler,
	auth func(http.Handler) http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and record metrics
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithMetrics())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public endpoints
	r.Route("/auth", func(r chi.Router) {
		// Only allow requests with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/users/me", userHandler.Me)

		r.Route("/media", func(r chi.Router) {
			r.Post("/upload", mediaHandler.Upload)
			r.Get("/my", mediaHandler.List)
			r.Get("/{id}", mediaHandler.Get)
			r.Get("/{id}/download", mediaHandler.Download)
			r.Delete("/{id}", mediaHandler.Delete)
			r.Get("/{id}/permissions", mediaHandler.GetPermissions)
			r.Post("/{id}/permissions", mediaHandler.SetPermission)
		})
	})

	return r
}
