package service

import (
	"context"
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
)

// EventService defines the interface for event business logic
type EventService interface {
	// SaveEvent validates and persists a wizard submission. An empty editID creates a new event.
	SaveEvent(ctx context.Context, actor domain.Actor, form *wizard.Form, editID string) (*SaveResult, error)
	// CheckSubmission runs every check SaveEvent runs without persisting anything
	CheckSubmission(ctx context.Context, form *wizard.Form) error
	// GetPublicEvent returns an approved event with its batches
	GetPublicEvent(ctx context.Context, id string) (*domain.EventWithBatches, error)
	// GetManagedEvent returns an event the actor may edit, with its batches
	GetManagedEvent(ctx context.Context, actor domain.Actor, id string) (*domain.EventWithBatches, error)
	// ListCatalog lists approved events
	ListCatalog(ctx context.Context, limit, offset int) ([]*domain.Event, int, error)
	// ListManagerEvents lists the actor's own events
	ListManagerEvents(ctx context.Context, actor domain.Actor, status domain.EventStatus, limit, offset int) ([]*domain.Event, int, error)
	// ListAllEvents lists every event for moderation
	ListAllEvents(ctx context.Context, status domain.EventStatus, limit, offset int) ([]*domain.Event, int, error)
	// UpdateStatus moderates an event
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.EventStatus) (*domain.Event, error)
}

// ContractService defines the interface for contract and commission tier reads
// used by the wizard, plus contract administration
type ContractService interface {
	// FetchActiveContract returns the contract in force, or nil when none exists
	FetchActiveContract(ctx context.Context) (*domain.CommissionContract, error)
	// FetchActiveCommissionRanges returns active ranges; failures yield an empty list
	FetchActiveCommissionRanges(ctx context.Context) []*domain.CommissionRange
	// ListContracts lists every contract version
	ListContracts(ctx context.Context) ([]*domain.CommissionContract, error)
	// GetContract retrieves a contract by ID
	GetContract(ctx context.Context, id string) (*domain.CommissionContract, error)
	// CreateContract creates an inactive contract with the next version number
	CreateContract(ctx context.Context, title, content string) (*domain.CommissionContract, error)
	// UpdateContract changes title and content
	UpdateContract(ctx context.Context, id, title, content string) (*domain.CommissionContract, error)
	// ActivateContract makes one contract the active one
	ActivateContract(ctx context.Context, id string) (*domain.CommissionContract, error)
}

// CommissionService defines the interface for commission tier administration
type CommissionService interface {
	ListRanges(ctx context.Context) ([]*domain.CommissionRange, error)
	CreateRange(ctx context.Context, actor domain.Actor, r *domain.CommissionRange) (*domain.CommissionRange, error)
	UpdateRange(ctx context.Context, actor domain.Actor, r *domain.CommissionRange) (*domain.CommissionRange, error)
	DeactivateRange(ctx context.Context, actor domain.Actor, id string) (*domain.CommissionRange, error)
	ListHistory(ctx context.Context, rangeID string) ([]*domain.CommissionRangeHistory, error)
}

// WizardService assembles what the wizard needs before the first render
type WizardService interface {
	// LoadContext fetches profile, company, contract and ranges concurrently.
	// With an eventID the form is built from the stored event.
	LoadContext(ctx context.Context, actor domain.Actor, eventID string) (*WizardContext, error)
}

// SubmissionLocker guards against concurrent submissions of the same form
type SubmissionLocker interface {
	// Acquire returns false when the key is already held. The token identifies
	// this holder to Release.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Release frees key only while it is still held with token
	Release(ctx context.Context, key, token string) error
}

// CatalogPublisher announces catalog changes to other services
type CatalogPublisher interface {
	PublishEventSaved(ctx context.Context, event *domain.Event, batches int) error
	PublishStatusChanged(ctx context.Context, event *domain.Event) error
	Close() error
}

// SaveResult is the outcome of a successful SaveEvent
type SaveResult struct {
	Event    *domain.Event         `json:"event"`
	Batches  []*domain.TicketBatch `json:"batches"`
	Created  bool                  `json:"created"`
	Redirect string                `json:"redirect"`
}

// WizardContext is everything the wizard renders from
type WizardContext struct {
	Profile      *domain.Profile            `json:"profile"`
	Company      *domain.Company            `json:"company,omitempty"`
	Contract     *domain.CommissionContract `json:"contract,omitempty"`
	ContractHTML string                     `json:"contract_html,omitempty"`
	Ranges       []*domain.CommissionRange  `json:"ranges"`
	Steps        []wizard.Step              `json:"steps"`
	Form         *wizard.Form               `json:"form"`
	EventID      string                     `json:"event_id,omitempty"`
}
