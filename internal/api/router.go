package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/notewise/notewise-be/internal/api/handlers"
	"github.com/notewise/notewise-be/internal/auth"
	"github.com/notewise/notewise-be/internal/monitoring"
	"github.com/notewise/notewise-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	noteService services.NoteServiceProvider,
	monitor *monitoring.Monitor,
	allowedOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	noteHandler := handlers.NewNoteHandler(noteService)
	systemHandler := handlers.NewSystemHandler(monitor)

	requireAuth := tokens.Middleware(userService)

	r.Get("/healthz", systemHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", userHandler.GetMe)
				r.Put("/profile", userHandler.UpdateProfile)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", noteHandler.GetAll)
			r.Post("/", noteHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.Get)
				r.Put("/", noteHandler.Update)
				r.Delete("/", noteHandler.Delete)
			})
		})
	})

	return r
}
