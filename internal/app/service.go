package app

import (
	"context"
	"errors"
	"net/http"

	"card-service/internal/audit"
	"card-service/internal/config"
	cardhttp "card-service/internal/http"

	"go.uber.org/zap"
)

const serverAddrPrefix = ":"

// Service owns every long-lived resource of the running process.
type Service struct {
	config  *config.Config
	logger  *zap.Logger
	server  *cardhttp.Server
	audit   *audit.Logger
	closers []func() error
}

// NewService creates and initializes a new Service instance
// This is a convenience wrapper around InitializeService
func NewService(cfg *config.Config, log *zap.Logger) (*Service, error) {
	return InitializeService(cfg, log)
}

// Start serves HTTP until Shutdown is called. A graceful stop is not an error.
func (s *Service) Start() error {
	addr := serverAddrPrefix + s.config.Server.Port
	s.logger.Info("starting card service", zap.String("addr", addr))

	if err := s.server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, drains in-flight ones and pending audit
// writes, then releases the store and caches.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.audit.Wait()
	s.close()
	return err
}

func (s *Service) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("failed to release resource", zap.Error(err))
		}
	}
	s.closers = nil
}
