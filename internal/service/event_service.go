package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/metrics"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/notify"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/repository"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ManagerEventsPath is where the wizard sends the manager after saving
const ManagerEventsPath = "/manager/events"

// eventService implements EventService
type eventService struct {
	events    repository.EventStore
	lists     repository.ListCacheInvalidator
	profiles  repository.ProfileRepository
	contracts ContractService
	locker    SubmissionLocker
	publisher CatalogPublisher
	log       *logger.Logger
	timeout   time.Duration
	lockTTL   time.Duration
}

// EventServiceConfig contains configuration for event service
type EventServiceConfig struct {
	GatewayTimeout    time.Duration
	SubmissionLockTTL time.Duration
}

// NewEventService creates a new event service
func NewEventService(
	events repository.EventStore,
	lists repository.ListCacheInvalidator,
	profiles repository.ProfileRepository,
	contracts ContractService,
	locker SubmissionLocker,
	publisher CatalogPublisher,
	log *logger.Logger,
	cfg *EventServiceConfig,
) EventService {
	timeout := defaultGatewayTimeout
	lockTTL := 30 * time.Second
	if cfg != nil {
		if cfg.GatewayTimeout > 0 {
			timeout = cfg.GatewayTimeout
		}
		if cfg.SubmissionLockTTL > 0 {
			lockTTL = cfg.SubmissionLockTTL
		}
	}
	if lists == nil {
		lists = repository.NoopListCache{}
	}
	if locker == nil {
		locker = NewLocalSubmissionLocker()
	}
	if publisher == nil {
		publisher = NewNoOpCatalogPublisher()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &eventService{
		events:    events,
		lists:     lists,
		profiles:  profiles,
		contracts: contracts,
		locker:    locker,
		publisher: publisher,
		log:       log,
		timeout:   timeout,
		lockTTL:   lockTTL,
	}
}

// SaveEvent runs the submission sequence: guard, field validation, contract
// and batch rules, payload conversion, ownership, transactional write, cache
// invalidation. Nothing is written unless every check passes.
func (s *eventService) SaveEvent(ctx context.Context, actor domain.Actor, form *wizard.Form, editID string) (*SaveResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("manager_id", actor.UserID),
		attribute.String("edit_id", editID),
		attribute.Bool("is_paid", form.IsPaid),
	)

	started := time.Now()
	notifier := notify.From(ctx)

	key := submissionKey(actor.UserID, editID)
	token, acquired, err := s.locker.Acquire(ctx, key, s.lockTTL)
	switch {
	case err != nil:
		s.log.Warn("submission lock unavailable, continuing without it", zap.String("key", key), zap.Error(err))
	case !acquired:
		span.SetStatus(codes.Error, "submission in progress")
		return nil, ErrSubmissionInProgress
	default:
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
				s.log.Warn("failed to release submission lock", zap.String("key", key), zap.Error(err))
			}
		}()
	}

	notifier.Notify(ctx, notify.LevelLoading, "Saving event...")

	contract, err := s.check(ctx, form)
	if err != nil {
		s.reject(ctx, notifier, err)
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	event, batches, err := form.ToDraft()
	if err != nil {
		s.reject(ctx, notifier, err)
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	// Only the server-resolved active contract is recorded
	event.ContractID = nil
	if contract != nil {
		id := contract.ID
		event.ContractID = &id
	}

	created := editID == ""
	if created {
		if err := s.prepareCreate(ctx, actor, event); err != nil {
			notifier.Notify(ctx, notify.LevelError, err.Error())
			telemetry.SetSpanError(ctx, err)
			return nil, err
		}
	} else {
		if err := s.prepareUpdate(ctx, actor, editID, event); err != nil {
			notifier.Notify(ctx, notify.LevelError, err.Error())
			telemetry.SetSpanError(ctx, err)
			return nil, err
		}
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.events.Save(saveCtx, event, batches, event.IsPaid)
	cancel()
	if err != nil {
		err = gatewayError("save event", err)
		notifier.Notify(ctx, notify.LevelError, err.Error())
		telemetry.SetSpanError(ctx, err)
		s.log.Error("failed to save event",
			zap.String("manager_id", actor.UserID),
			zap.String("event_id", editID),
			zap.Error(err),
		)
		return nil, err
	}

	s.afterWrite(ctx, event)
	if err := s.publisher.PublishEventSaved(ctx, event, len(batches)); err != nil {
		s.log.Warn("failed to publish catalog event", zap.String("event_id", event.ID), zap.Error(err))
	}

	metrics.RecordEventSaved(ctx, created, event.IsPaid, time.Since(started).Seconds())
	if created {
		notifier.Notify(ctx, notify.LevelSuccess, "Event created successfully!")
	} else {
		notifier.Notify(ctx, notify.LevelSuccess, "Event updated successfully!")
	}
	s.log.Info("event saved",
		zap.String("event_id", event.ID),
		zap.String("manager_id", event.ManagerID),
		zap.Bool("created", created),
		zap.Int("batches", len(batches)),
	)

	if batches == nil {
		batches = []*domain.TicketBatch{}
	}
	return &SaveResult{
		Event:    event,
		Batches:  batches,
		Created:  created,
		Redirect: ManagerEventsPath,
	}, nil
}

// CheckSubmission runs field validation and the contract and batch rules
func (s *eventService) CheckSubmission(ctx context.Context, form *wizard.Form) error {
	_, err := s.check(ctx, form)
	return err
}

// check returns the active contract when every rule passes
func (s *eventService) check(ctx context.Context, form *wizard.Form) (*domain.CommissionContract, error) {
	if errs := wizard.Validate(form); len(errs) > 0 {
		return nil, errs
	}

	contract, err := s.contracts.FetchActiveContract(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkRules(form, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// checkRules enforces the cross-field rules the schema cannot express
func checkRules(form *wizard.Form, contract *domain.CommissionContract) error {
	if !form.IsPaid {
		if contract != nil && !form.ContractAccepted {
			return violation(ErrContractNotAccepted, wizard.StepContract)
		}
		return nil
	}

	if contract == nil {
		return violation(ErrNoActiveContract, wizard.StepPricing)
	}
	if !form.ContractAccepted {
		return violation(ErrContractNotAccepted, wizard.StepContract)
	}
	if len(form.Batches) == 0 {
		return violation(ErrNoBatches, wizard.StepPricing)
	}
	for i, b := range form.Batches {
		if !b.Complete() {
			return violation(fmt.Errorf("%w (batch %d)", ErrIncompleteBatch, i+1), wizard.StepPricing)
		}
	}
	return nil
}

func (s *eventService) reject(ctx context.Context, notifier notify.Notifier, err error) {
	reason, step := "validation", ""
	if fe, ok := wizard.AsFieldErrors(err); ok {
		first := fe.First()
		step = string(first.Step)
		notifier.Notify(ctx, notify.LevelError, first.Message)
	} else if rv, ok := AsRuleViolation(err); ok {
		reason, step = "rule", string(rv.Step)
		notifier.Notify(ctx, notify.LevelError, rv.Error())
	} else {
		reason = "gateway"
		notifier.Notify(ctx, notify.LevelError, err.Error())
	}
	metrics.RecordSubmissionRejected(ctx, reason, step)
}

func (s *eventService) prepareCreate(ctx context.Context, actor domain.Actor, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	profile, err := s.profiles.GetByID(ctx, actor.UserID)
	if err != nil {
		return gatewayError("get profile", err)
	}
	event.ManagerID = actor.UserID
	if profile != nil {
		event.CompanyID = profile.CompanyID
	}
	return nil
}

func (s *eventService) prepareUpdate(ctx context.Context, actor domain.Actor, editID string, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.events.GetByID(ctx, editID)
	if err != nil {
		return gatewayError("get event", err)
	}
	if existing == nil {
		return domain.ErrEventNotFound
	}
	if !existing.OwnedBy(actor.UserID) && !actor.IsAdmin() {
		return domain.ErrNotEventOwner
	}

	event.ID = existing.ID
	event.ManagerID = existing.ManagerID
	event.CompanyID = existing.CompanyID
	event.CreatedAt = existing.CreatedAt
	return nil
}

// afterWrite drops cached listings; failures only cost freshness
func (s *eventService) afterWrite(ctx context.Context, event *domain.Event) {
	if err := s.lists.InvalidateManagerLists(ctx, event.ManagerID); err != nil {
		s.log.Warn("failed to invalidate manager list cache", zap.String("manager_id", event.ManagerID), zap.Error(err))
	}
	if err := s.lists.InvalidateCatalogLists(ctx); err != nil {
		s.log.Warn("failed to invalidate catalog list cache", zap.Error(err))
	}
}

// GetPublicEvent returns an approved event with its batches
func (s *eventService) GetPublicEvent(ctx context.Context, id string) (*domain.EventWithBatches, error) {
	out, err := s.loadWithBatches(ctx, id)
	if err != nil {
		return nil, err
	}
	if out.Event.Status != domain.EventStatusApproved {
		return nil, domain.ErrEventNotFound
	}
	return out, nil
}

// GetManagedEvent returns an event the actor owns, or any event for admins
func (s *eventService) GetManagedEvent(ctx context.Context, actor domain.Actor, id string) (*domain.EventWithBatches, error) {
	out, err := s.loadWithBatches(ctx, id)
	if err != nil {
		return nil, err
	}
	if !out.Event.OwnedBy(actor.UserID) && !actor.IsAdmin() {
		return nil, domain.ErrNotEventOwner
	}
	return out, nil
}

func (s *eventService) loadWithBatches(ctx context.Context, id string) (*domain.EventWithBatches, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, gatewayError("get event", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	batches, err := s.events.ListBatches(ctx, id)
	if err != nil {
		return nil, gatewayError("list batches", err)
	}
	if batches == nil {
		batches = []*domain.TicketBatch{}
	}
	return &domain.EventWithBatches{Event: event, Batches: batches}, nil
}

// ListCatalog lists approved events
func (s *eventService) ListCatalog(ctx context.Context, limit, offset int) ([]*domain.Event, int, error) {
	return s.list(ctx, domain.EventFilter{Status: domain.EventStatusApproved, Limit: limit, Offset: offset})
}

// ListManagerEvents lists the actor's own events
func (s *eventService) ListManagerEvents(ctx context.Context, actor domain.Actor, status domain.EventStatus, limit, offset int) ([]*domain.Event, int, error) {
	return s.list(ctx, domain.EventFilter{ManagerID: actor.UserID, Status: status, Limit: limit, Offset: offset})
}

// ListAllEvents lists every event for moderation
func (s *eventService) ListAllEvents(ctx context.Context, status domain.EventStatus, limit, offset int) ([]*domain.Event, int, error) {
	return s.list(ctx, domain.EventFilter{Status: status, Limit: limit, Offset: offset})
}

func (s *eventService) list(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, 0, gatewayError("list events", err)
	}
	return events, total, nil
}

// UpdateStatus moderates an event and announces the change
func (s *eventService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.EventStatus) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.update_status")
	defer span.End()
	span.SetAttributes(attribute.String("event_id", id), attribute.String("status", string(status)))

	if !actor.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if _, err := domain.ParseEventStatus(string(status)); err != nil {
		return nil, err
	}

	event, err := s.events.UpdateStatus(ctx, id, status)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, gatewayError("update event status", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	s.afterWrite(ctx, event)
	if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
		s.log.Warn("failed to publish catalog event", zap.String("event_id", event.ID), zap.Error(err))
	}
	s.log.Info("event status changed",
		zap.String("event_id", id),
		zap.String("status", string(status)),
		zap.String("moderator", actor.UserID),
	)
	return event, nil
}
