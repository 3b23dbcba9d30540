package service

import (
	"context"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/repository"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// wizardService implements WizardService
type wizardService struct {
	profiles  repository.ProfileRepository
	companies repository.CompanyRepository
	events    repository.EventStore
	contracts ContractService
	timeout   time.Duration
}

// NewWizardService creates a new WizardService
func NewWizardService(
	profiles repository.ProfileRepository,
	companies repository.CompanyRepository,
	events repository.EventStore,
	contracts ContractService,
	timeout time.Duration,
) WizardService {
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	return &wizardService{
		profiles:  profiles,
		companies: companies,
		events:    events,
		contracts: contracts,
		timeout:   timeout,
	}
}

// LoadContext returns only after every read has settled
func (s *wizardService) LoadContext(ctx context.Context, actor domain.Actor, eventID string) (*WizardContext, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.wizard.load_context")
	defer span.End()
	span.SetAttributes(attribute.String("manager_id", actor.UserID), attribute.String("event_id", eventID))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		profile  *domain.Profile
		company  *domain.Company
		contract *domain.CommissionContract
		ranges   []*domain.CommissionRange
		existing *domain.EventWithBatches
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.profiles.GetByID(gctx, actor.UserID)
		if err != nil {
			return gatewayError("get profile", err)
		}
		if p == nil {
			return domain.ErrProfileNotFound
		}
		profile = p

		if p.CompanyID == nil {
			return nil
		}
		c, err := s.companies.GetByID(gctx, *p.CompanyID)
		if err != nil {
			return gatewayError("get company", err)
		}
		company = c
		return nil
	})

	g.Go(func() error {
		c, err := s.contracts.FetchActiveContract(gctx)
		if err != nil {
			return err
		}
		contract = c
		return nil
	})

	g.Go(func() error {
		ranges = s.contracts.FetchActiveCommissionRanges(gctx)
		return nil
	})

	if eventID != "" {
		g.Go(func() error {
			e, err := s.events.GetByID(gctx, eventID)
			if err != nil {
				return gatewayError("get event", err)
			}
			if e == nil {
				return domain.ErrEventNotFound
			}
			if !e.OwnedBy(actor.UserID) && !actor.IsAdmin() {
				return domain.ErrNotEventOwner
			}
			batches, err := s.events.ListBatches(gctx, eventID)
			if err != nil {
				return gatewayError("list batches", err)
			}
			existing = &domain.EventWithBatches{Event: e, Batches: batches}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	hasContract := contract != nil
	wc := &WizardContext{
		Profile:  profile,
		Company:  company,
		Contract: contract,
		Ranges:   ranges,
		Steps:    wizard.Steps(hasContract),
		EventID:  eventID,
	}
	if hasContract {
		wc.ContractHTML = RenderContract(contract, ranges)
	}

	if existing != nil {
		wc.Form = wizard.FromEvent(existing.Event, existing.Batches)
	} else {
		wc.Form = wizard.DefaultForm()
	}
	if hasContract && wc.Form.ContractID == "" {
		wc.Form.ContractID = contract.ID
	}
	return wc, nil
}
