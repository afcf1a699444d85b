package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/state"
)

// HealthService probes the server at startup
type HealthService struct {
	gateway domain.Gateway
	state   *state.Writer
	logger  *slog.Logger
}

// NewHealthService creates a new health service
func NewHealthService(gateway domain.Gateway, w *state.Writer, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{gateway: gateway, state: w, logger: logger}
}

// Check probes the server and records whether it is reachable
func (s *HealthService) Check(ctx context.Context) (domain.Health, error) {
	health, err := s.gateway.Health(ctx)
	if err != nil {
		s.logger.Warn("health check failed", "error", err)
		s.state.SetHealth(domain.Health{}, false)
		return domain.Health{}, err
	}

	s.state.SetHealth(health, health.OK())
	return health, nil
}
