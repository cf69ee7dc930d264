package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-payment-events/core"
)

const defaultShutdownTimeout = 10 * time.Second

// Server hosts the webhook endpoint described by core.ServerConfig.
type Server struct {
	config   core.ServerConfig
	handler  *Handler
	logger   core.Logger
	httpSrv  *http.Server
	shutdown time.Duration
}

func New(cfg core.ServerConfig, processor EventProcessor, logger core.Logger) (*Server, error) {
	if processor == nil {
		return nil, errors.New("server: event processor is required")
	}
	if logger == nil {
		logger = glog.Nop()
	}
	route := strings.TrimSpace(cfg.Route)
	if route == "" {
		route = "/"
	}
	cfg.Route = route

	mux := http.NewServeMux()
	handler := NewHandler(processor, logger)
	mux.Handle(route, handler)

	return &Server{
		config:  cfg,
		handler: handler,
		logger:  logger,
		httpSrv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdown: defaultShutdownTimeout,
	}, nil
}

// Handler exposes the webhook handler for embedding into an existing mux.
func (s *Server) Handler() *Handler {
	return s.handler
}

func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Start serves until the context is cancelled, then drains in-flight
// requests within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.httpSrv == nil {
		return errors.New("server: not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook server listening",
			"addr", s.httpSrv.Addr,
			"route", s.config.Route,
		)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return <-errCh
}
