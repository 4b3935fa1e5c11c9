// Package rest exposes the application over HTTP. The same router is
// served by a local listener in development and through the API Gateway
// adapter in Lambda.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"flock-backend/infrastructure/di"
	"flock-backend/interfaces/http/rest/handlers"
	"flock-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
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

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*.flock.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	authHandler := handlers.NewAuthHandler(rt.container.UserService, rt.logger)
	userHandler := handlers.NewUserHandler(rt.container.UserService, rt.logger)
	followHandler := handlers.NewFollowHandler(rt.container.FollowService, rt.logger)
	statusHandler := handlers.NewStatusHandler(
		rt.container.PostService,
		rt.container.StatusService,
		rt.container.UserService,
		rt.logger,
	)

	router.Route("/api/v1", func(r chi.Router) {
		// Unauthenticated entry points
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Everything else requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.container.AuthService, rt.logger))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/users/{alias}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Get("/followers", followHandler.Followers)
				r.Get("/followees", followHandler.Followees)
				r.Get("/follower-count", followHandler.FollowerCount)
				r.Get("/followee-count", followHandler.FolloweeCount)
				r.Get("/story", statusHandler.Story)
			})

			r.Route("/follows", func(r chi.Router) {
				r.Post("/", followHandler.Follow)
				r.Delete("/{followeeAlias}", followHandler.Unfollow)
				r.Get("/{followerAlias}/is-following/{followeeAlias}", followHandler.IsFollowing)
			})

			r.Route("/statuses", func(r chi.Router) {
				r.Post("/", statusHandler.PostStatus)
				r.Delete("/{timestamp}", statusHandler.DeleteStatus)
			})

			r.Get("/feed", statusHandler.Feed)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
