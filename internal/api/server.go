package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sundiald/sundial/internal/capability"
	"github.com/sundiald/sundial/internal/infrastructure/config"
	"github.com/sundiald/sundial/internal/infrastructure/logging"
	"github.com/sundiald/sundial/internal/orchestrator"
	"github.com/sundiald/sundial/internal/rules"
	"github.com/sundiald/sundial/internal/schedule"
)

// gracefulShutdownTimeout bounds the wait for in-flight requests during
// shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config       config.APIConfig
	WS           config.WebSocketConfig
	Logger       *logging.Logger
	Orchestrator *orchestrator.Orchestrator
	Rules        rules.Repository
	Capabilities *capability.Registry
	Scheduler    *schedule.Registry
	Version      string
}

// Server is the management HTTP API for Sundial Core.
//
// It exposes rule CRUD, manual execution, capability listings, location
// settings, and a WebSocket event stream. Created with New, started with
// Start, stopped with Close.
type Server struct {
	cfg          config.APIConfig
	wsCfg        config.WebSocketConfig
	logger       *logging.Logger
	orch         *orchestrator.Orchestrator
	rules        rules.Repository
	capabilities *capability.Registry
	scheduler    *schedule.Registry
	version      string

	server *http.Server
	hub    *Hub
	cancel context.CancelFunc
}

// New creates an API server. The server does not listen until Start.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if deps.Rules == nil {
		return nil, fmt.Errorf("rules repository is required")
	}

	return &Server{
		cfg:          deps.Config,
		wsCfg:        deps.WS,
		logger:       deps.Logger,
		orch:         deps.Orchestrator,
		rules:        deps.Rules,
		capabilities: deps.Capabilities,
		scheduler:    deps.Scheduler,
		version:      deps.Version,
	}, nil
}

// Hub returns the WebSocket hub, creating it on first call so it can be
// wired into the orchestrator before Start.
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	hub := s.Hub()
	go hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", "error", err)
		}
	}()

	s.logger.Info("api server listening", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the server, waiting for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("api server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}
