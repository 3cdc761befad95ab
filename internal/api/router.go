package api

import (
	"net/http"
	"time"

	"bookswap/internal/api/handler"
	"bookswap/internal/app/service"
	"bookswap/internal/common"
	"bookswap/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AuthService *service.AuthService
	BookService *service.BookService
	// UploadsDir is served under /uploads when covers are stored on disk.
	UploadsDir string
	// Verbose enables chi's request logger.
	Verbose bool
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if cfg.Verbose {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifier only parses the token; routes that need it add middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", Message: "Server is running"})
	})

	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(cfg.AuthService)
		api.Group(authHandler.RegisterRoutes)

		bookHandler := handler.NewBookHandler(cfg.BookService)
		api.Route("/books", bookHandler.RegisterRoutes)
	})

	return r
}
