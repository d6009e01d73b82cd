package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/camwarden/camwarden/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter constructs and returns an HTTP handler that serves the
// camera surveillance API. It applies JSON content-type enforcement and
// request logging everywhere, and bearer-token authentication to every
// route under /api.
//
// Routes:
//
//	POST /auth/register                → authHandler.Register (public)
//	POST /auth/login                   → authHandler.Login    (public)
//	GET  /api/cameras                  → cameraHandler.List
//	POST /api/cameras                  → cameraHandler.Create
//	PUT  /api/cameras/{id}             → cameraHandler.Update
//	DELETE /api/cameras/{id}           → cameraHandler.Delete
//	POST /api/cameras/{id}/start       → cameraHandler.Start
//	POST /api/cameras/{id}/stop        → cameraHandler.Stop
//	GET  /api/cameras/{id}/status      → cameraHandler.Status
//	GET  /api/alerts                   → alertHandler.List
//	POST /api/alerts                   → alertHandler.Create
//	GET  /api/alerts/ws                → wsHandler.Subscribe
//	GET  /health                       → liveness probe (public)
func NewRouter(
	authHandler *AuthHandler,
	cameraHandler *CameraHandler,
	alertHandler *AlertHandler,
	wsHandler *WSHandler,
	tokens middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// The browser frontend is served from another origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Only allow requests with Content-Type: application/json.
	// Bodyless requests (GETs, the WebSocket upgrade) pass through.
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Protected group: requires a valid bearer token
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens))

		r.Route("/cameras", func(r chi.Router) {
			r.Get("/", cameraHandler.List)
			r.Post("/", cameraHandler.Create)
			r.Put("/{id}", cameraHandler.Update)
			r.Delete("/{id}", cameraHandler.Delete)
			r.Post("/{id}/start", cameraHandler.Start)
			r.Post("/{id}/stop", cameraHandler.Stop)
			r.Get("/{id}/status", cameraHandler.Status)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", alertHandler.List)
			r.Post("/", alertHandler.Create)
			r.Get("/ws", wsHandler.Subscribe)
		})
	})

	return r
}
