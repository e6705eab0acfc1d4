package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/todo-app/api"
	"github.com/xiaoyuanzhu-com/todo-app/db"
	"github.com/xiaoyuanzhu-com/todo-app/log"
)

// Server owns and coordinates all application components
type Server struct {
	cfg *Config

	// Components (owned by server)
	store db.Store

	// HTTP
	router *gin.Engine
	http   *http.Server
}

// New opens the configured store and builds the router
func New(ctx context.Context, cfg *Config) (*Server, error) {
	log.Info().Msg("initializing todo store")
	store, err := db.Open(ctx, cfg.ToDBConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return NewWithStore(cfg, store), nil
}

// NewWithStore builds a server around an already opened store.
// The server takes ownership and closes the store on Shutdown.
func NewWithStore(cfg *Config, store db.Store) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
	}
	s.setupRouter()
	s.http = &http.Server{
		Handler:  s.router,
		ErrorLog: log.StdErrorLogger(), // Route Go's internal HTTP errors through zerolog
	}

	log.Info().Msg("server initialized successfully")
	return s
}

// setupRouter creates and configures the Gin router
func (s *Server) setupRouter() {
	if !s.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Middleware
	s.router.Use(gin.Recovery())
	s.router.Use(log.GinLogger())
	s.router.Use(corsMiddleware())

	// Security headers (production only)
	if !s.cfg.IsDevelopment() {
		s.router.Use(securityHeadersMiddleware())
	}

	s.router.Use(gzip.Gzip(gzip.DefaultCompression))

	s.router.SetTrustedProxies(nil)

	api.SetupRoutes(s.router, api.NewHandlers(s.store))
}

// corsMiddleware lets any origin call the API. The mobile and terminal
// clients are not served from this host.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// securityHeadersMiddleware adds security headers for production
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve serves HTTP on ln and blocks until the server stops.
// Returns nil after a graceful Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	log.Info().
		Str("addr", ln.Addr().String()).
		Str("env", s.cfg.Env).
		Msg("HTTP server starting")

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down server")

	// Stop accepting new requests and wait for existing ones
	if err := s.http.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	// Close store last
	if s.store != nil {
		if err := s.store.Close(ctx); err != nil {
			log.Error().Err(err).Msg("store close error")
			return err
		}
	}

	log.Info().Msg("server shutdown complete")
	return nil
}

// Store returns the todo store the API delegates to
func (s *Server) Store() db.Store {
	return s.store
}

// Router returns the configured Gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}
