package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mentormatch/mentor-match-be/internal/api/handlers"
	"github.com/mentormatch/mentor-match-be/internal/auth"
	"github.com/mentormatch/mentor-match-be/internal/models"
	"github.com/mentormatch/mentor-match-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	matchService services.MatchRequestServiceProvider,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	matchHandler := handlers.NewMatchRequestHandler(matchService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/signup", userHandler.Signup)
		r.Post("/login", userHandler.Login)
		r.Get("/images/{role}/{id}", userHandler.GetImage)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())

			r.Get("/me", userHandler.GetMe)
			r.Put("/profile", userHandler.UpdateProfile)

			r.With(auth.RequireRole(models.RoleMentee)).Get("/mentors", userHandler.ListMentors)

			r.Route("/match-requests", func(r chi.Router) {
				r.With(auth.RequireRole(models.RoleMentee)).Post("/", matchHandler.Create)
				r.With(auth.RequireRole(models.RoleMentor)).Get("/incoming", matchHandler.Incoming)
				r.With(auth.RequireRole(models.RoleMentee)).Get("/outgoing", matchHandler.Outgoing)
				r.With(auth.RequireRole(models.RoleMentor)).Put("/{id}/accept", matchHandler.Accept)
				r.With(auth.RequireRole(models.RoleMentor)).Put("/{id}/reject", matchHandler.Reject)
				r.With(auth.RequireRole(models.RoleMentee)).Delete("/{id}", matchHandler.Cancel)
			})
		})
	})

	return r
}
