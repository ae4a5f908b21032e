package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"comicvault/internal/collection"
	"comicvault/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server serves the collection views on a TCP address.
type Server struct {
	bind     string
	logger   *slog.Logger
	listener net.Listener
	server   *http.Server
}

// NewServer prepares a server for bind. Nothing listens until Listen.
func NewServer(bind string, store *collection.Store, logger *slog.Logger) (*Server, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("api bind address is empty")
	}
	if store == nil {
		return nil, errors.New("api server requires a collection store")
	}
	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(NewHandler(store, logger))
	return &Server{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "api-server"),
		server: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Listen binds the address and returns the resolved listener address.
func (s *Server) Listen() (string, error) {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return "", fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	return listener.Addr().String(), nil
}

// Serve handles requests until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()
	s.logger.Info("api server listening", logging.String("address", s.listener.Addr().String()))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown incomplete", logging.Error(err))
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api serve: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}
