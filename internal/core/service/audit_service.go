package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/marketsquare/marketplace-api/internal/core/domain"
	"github.com/marketsquare/marketplace-api/internal/core/ports"
)

// AuditService persists audit events drained from the dispatcher. Failures
// are logged and dropped; the trail is best-effort and must never push back
// on request handling.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, event); err != nil {
		s.logger.Error().Err(err).
			Str("actor", event.Actor).
			Str("action", event.Action).
			Msg("failed to persist audit event")
		return err
	}
	return nil
}
