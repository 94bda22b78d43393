package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"entrepreneur/backend/internal/config"
	"entrepreneur/backend/internal/logging"
	authusecase "entrepreneur/backend/internal/usecase/auth"
	projectusecase "entrepreneur/backend/internal/usecase/project"
	userusecase "entrepreneur/backend/internal/usecase/user"

	"github.com/rs/zerolog"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer     *http.Server
	router         *http.ServeMux
	authService    *authusecase.Service
	userService    *userusecase.Service
	projectService *projectusecase.Service
	allowedOrigins []string
	addr           string
	log            zerolog.Logger
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(
	cfg config.Config,
	log zerolog.Logger,
	authService *authusecase.Service,
	userService *userusecase.Service,
	projectService *projectusecase.Service,
) *Server {
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	srv := &Server{
		router:         mux,
		authService:    authService,
		userService:    userService,
		projectService: projectService,
		allowedOrigins: cfg.AllowedOrigins,
		addr:           addr,
		log:            logging.Component(log, "http"),
	}

	handler := srv.withRecover(srv.withLogging(withCORS(srv.withAuthentication(mux), cfg.AllowedOrigins)))

	srv.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
	}
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the fully wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
