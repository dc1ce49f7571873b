package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/search"
	"github.com/foliohq/folio/pkg/search/keyword"
)

// Server is the API server for querying the folio system.
type Server struct {
	config   Config
	store    content.Store
	searcher *search.Searcher
	keyword  *keyword.Engine
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server.
// The store, searcher, and keyword engine are injected to allow sharing
// with the backfill worker and CLI commands.
func NewServer(config Config, store content.Store, searcher *search.Searcher, kw *keyword.Engine, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		store:    store,
		searcher: searcher,
		keyword:  kw,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/search", s.handleSearch)
	app.Get("/v1/search/availability", s.handleSearchAvailability)
	app.Get("/v1/posts/:slug", s.handleGetPost)
	app.Get("/v1/pages/:slug", s.handleGetPage)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
