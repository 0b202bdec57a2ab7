// Package server exposes the to-do store over HTTP as a JSON API. Handlers
// parse and bind input, call the store, and map its typed failures to
// statuses; every access decision lives in the store.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dooby/internal/auth"
	"dooby/internal/store"
)

// Server wires the store, token codec, and router together.
type Server struct {
	store  *store.Store
	tokens *auth.Tokens
	logger *zap.Logger
	router *gin.Engine
}

// New builds a server around an opened store.
func New(st *store.Store, tokens *auth.Tokens, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		store:  st,
		tokens: tokens,
		logger: logger,
		router: router,
	}

	router.Use(s.requestID(), s.requestLogger())
	s.registerRoutes()
	return s
}

// Router returns the underlying gin engine, used by tests and by Run.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("Serving HTTP", zap.String("addr", addr))
	return s.router.Run(addr)
}
