// Package api provides the HTTP API server and handlers for the BookBook application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
	"github.com/bookbookapp/bookbook-server/internal/media/covers"
	"github.com/bookbookapp/bookbook-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService           *service.AuthService
	userService           *service.UserService
	bookService           *service.BookService
	commentService        *service.CommentService
	recommendationService *service.RecommendationService
	narrationService      *service.NarrationService
	coverStorage          *covers.Storage
	router                *chi.Mux
	logger                *slog.Logger
}

// Services bundles the server's dependencies.
type Services struct {
	Auth           *service.AuthService
	User           *service.UserService
	Book           *service.BookService
	Comment        *service.CommentService
	Recommendation *service.RecommendationService
	Narration      *service.NarrationService
	CoverStorage   *covers.Storage
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(svcs Services, logger *slog.Logger) *Server {
	s := &Server{
		authService:           svcs.Auth,
		userService:           svcs.User,
		bookService:           svcs.Book,
		commentService:        svcs.Comment,
		recommendationService: svcs.Recommendation,
		narrationService:      svcs.Narration,
		coverStorage:          svcs.CoverStorage,
		router:                chi.NewRouter(),
		logger:                logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		MaxAge:           300,
		AllowCredentials: false,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
		})

		// Account endpoints.
		r.Route("/user", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Patch("/profile", s.handleUpdateProfile)
			r.Delete("/delete", s.handleDeleteAccount)
			r.Get("/library", s.handleGetLibrary)
		})

		// Catalog and recommendations.
		r.Route("/books", func(r chi.Router) {
			r.Use(s.optionalAuth)
			r.Get("/", s.handleListBooks)
			r.Get("/bestsellers", s.handleBestsellers)
			r.Get("/recommendations", s.handlePersonalized)
			r.Get("/{bookID}", s.handleGetBook)
			r.Get("/{bookID}/similar", s.handleSimilarBooks)
			r.Get("/{bookID}/cover", s.handleGetCover)
			r.Get("/{bookID}/narration", s.handleNarration)

			// Mutations require auth.
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/bestsellers/refresh", s.handleRefreshBestsellers)
				r.Post("/{bookID}/comments", s.handleCreateComment)
				r.Delete("/{bookID}/comments/{commentID}", s.handleDeleteComment)
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
