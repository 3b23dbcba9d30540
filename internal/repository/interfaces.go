package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxDB is a DBTX that can open transactions
type TxDB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// EventStore defines the interface for event and batch data access.
// Lookups return (nil, nil) when no row matches.
type EventStore interface {
	// GetByID retrieves an event by ID
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// List lists events with filters and pagination
	List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error)
	// ListBatches returns the batches of an event ordered by sort_order
	ListBatches(ctx context.Context, eventID string) ([]*domain.TicketBatch, error)
	// Save inserts (empty ID) or updates the event. When replaceBatches is
	// set the batch set is replaced. Both happen in one transaction.
	Save(ctx context.Context, event *domain.Event, batches []*domain.TicketBatch, replaceBatches bool) error
	// UpdateStatus sets the moderation status and returns the updated event
	UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error)
}

// ContractRepository defines the interface for commission contract data access
type ContractRepository interface {
	// ListActive returns every row flagged active
	ListActive(ctx context.Context) ([]*domain.CommissionContract, error)
	// GetLatestUpdated returns the most recently updated row regardless of the active flag
	GetLatestUpdated(ctx context.Context) (*domain.CommissionContract, error)
	// GetByID retrieves a contract by ID
	GetByID(ctx context.Context, id string) (*domain.CommissionContract, error)
	// List returns every contract, newest version first
	List(ctx context.Context) ([]*domain.CommissionContract, error)
	// Create inserts a contract with the next version number
	Create(ctx context.Context, contract *domain.CommissionContract) error
	// Update updates title and content
	Update(ctx context.Context, contract *domain.CommissionContract) error
	// Activate marks one contract active and every other inactive
	Activate(ctx context.Context, id string) (*domain.CommissionContract, error)
}

// CommissionRangeRepository defines the interface for commission tier data access.
// Every mutation appends a history row in the same transaction.
type CommissionRangeRepository interface {
	// ListActive returns active ranges ordered by min_tickets ascending
	ListActive(ctx context.Context) ([]*domain.CommissionRange, error)
	// List returns every range ordered by min_tickets ascending
	List(ctx context.Context) ([]*domain.CommissionRange, error)
	// GetByID retrieves a range by ID
	GetByID(ctx context.Context, id string) (*domain.CommissionRange, error)
	// Create inserts a range after checking it against the active ones
	Create(ctx context.Context, r *domain.CommissionRange, changedBy string) error
	// Update updates bounds and percentage after the same check
	Update(ctx context.Context, r *domain.CommissionRange, changedBy string) error
	// Deactivate clears the active flag
	Deactivate(ctx context.Context, id, changedBy string) (*domain.CommissionRange, error)
	// ListHistory returns the audit trail of a range, newest first
	ListHistory(ctx context.Context, rangeID string) ([]*domain.CommissionRangeHistory, error)
}

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
}
