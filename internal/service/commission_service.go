package service

import (
	"context"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/repository"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"go.uber.org/zap"
)

// commissionService implements CommissionService
type commissionService struct {
	rangeRepo repository.CommissionRangeRepository
	log       *logger.Logger
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(rangeRepo repository.CommissionRangeRepository, log *logger.Logger) CommissionService {
	if log == nil {
		log = logger.Nop()
	}
	return &commissionService{rangeRepo: rangeRepo, log: log}
}

// ListRanges returns every range ordered by min_tickets
func (s *commissionService) ListRanges(ctx context.Context) ([]*domain.CommissionRange, error) {
	ranges, err := s.rangeRepo.List(ctx)
	if err != nil {
		return nil, gatewayError("list commission ranges", err)
	}
	return ranges, nil
}

// CreateRange validates bounds and stores a new active range
func (s *commissionService) CreateRange(ctx context.Context, actor domain.Actor, r *domain.CommissionRange) (*domain.CommissionRange, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.ID = ""
	r.IsActive = true

	if err := s.rangeRepo.Create(ctx, r, actor.UserID); err != nil {
		return nil, gatewayError("create commission range", err)
	}
	s.log.Info("commission range created",
		zap.String("range_id", r.ID),
		zap.Int("min_tickets", r.MinTickets),
		zap.Float64("percentage", r.Percentage),
		zap.String("changed_by", actor.UserID),
	)
	return r, nil
}

// UpdateRange validates bounds and overwrites an existing range
func (s *commissionService) UpdateRange(ctx context.Context, actor domain.Actor, r *domain.CommissionRange) (*domain.CommissionRange, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.rangeRepo.GetByID(ctx, r.ID)
	if err != nil {
		return nil, gatewayError("get commission range", err)
	}
	if existing == nil {
		return nil, domain.ErrRangeNotFound
	}

	if err := s.rangeRepo.Update(ctx, r, actor.UserID); err != nil {
		return nil, gatewayError("update commission range", err)
	}
	s.log.Info("commission range updated", zap.String("range_id", r.ID), zap.String("changed_by", actor.UserID))
	return r, nil
}

// DeactivateRange clears the active flag of a range
func (s *commissionService) DeactivateRange(ctx context.Context, actor domain.Actor, id string) (*domain.CommissionRange, error) {
	r, err := s.rangeRepo.Deactivate(ctx, id, actor.UserID)
	if err != nil {
		return nil, gatewayError("deactivate commission range", err)
	}
	s.log.Info("commission range deactivated", zap.String("range_id", id), zap.String("changed_by", actor.UserID))
	return r, nil
}

// ListHistory returns the audit trail of a range
func (s *commissionService) ListHistory(ctx context.Context, rangeID string) ([]*domain.CommissionRangeHistory, error) {
	existing, err := s.rangeRepo.GetByID(ctx, rangeID)
	if err != nil {
		return nil, gatewayError("get commission range", err)
	}
	if existing == nil {
		return nil, domain.ErrRangeNotFound
	}

	history, err := s.rangeRepo.ListHistory(ctx, rangeID)
	if err != nil {
		return nil, gatewayError("list commission range history", err)
	}
	return history, nil
}
