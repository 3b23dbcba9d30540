package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/database"
)

// PostgresContractRepository implements ContractRepository using PostgreSQL
type PostgresContractRepository struct {
	db TxDB
}

// NewPostgresContractRepository creates a new PostgresContractRepository
func NewPostgresContractRepository(db TxDB) *PostgresContractRepository {
	return &PostgresContractRepository{db: db}
}

const contractColumns = `id, version, title, content, is_active, created_at, updated_at`

func scanContract(row pgx.Row) (*domain.CommissionContract, error) {
	c := &domain.CommissionContract{}
	err := row.Scan(&c.ID, &c.Version, &c.Title, &c.Content, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresContractRepository) queryContracts(ctx context.Context, query string, args ...any) ([]*domain.CommissionContract, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var contracts []*domain.CommissionContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, mapError(rows.Err())
}

func (r *PostgresContractRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.CommissionContract, error) {
	c, err := scanContract(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return c, nil
}

// ListActive returns every row flagged active, most recently updated first
func (r *PostgresContractRepository) ListActive(ctx context.Context) ([]*domain.CommissionContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_contracts WHERE is_active ORDER BY updated_at DESC`, contractColumns)
	return r.queryContracts(ctx, query)
}

// GetLatestUpdated returns the most recently updated row regardless of the active flag
func (r *PostgresContractRepository) GetLatestUpdated(ctx context.Context) (*domain.CommissionContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_contracts ORDER BY updated_at DESC LIMIT 1`, contractColumns)
	return r.queryOne(ctx, query)
}

// GetByID retrieves a contract by ID
func (r *PostgresContractRepository) GetByID(ctx context.Context, id string) (*domain.CommissionContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_contracts WHERE id = $1`, contractColumns)
	return r.queryOne(ctx, query, id)
}

// List returns every contract, newest version first
func (r *PostgresContractRepository) List(ctx context.Context) ([]*domain.CommissionContract, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_contracts ORDER BY version DESC`, contractColumns)
	return r.queryContracts(ctx, query)
}

// Create inserts a contract with the next version number. New contracts
// start inactive.
func (r *PostgresContractRepository) Create(ctx context.Context, c *domain.CommissionContract) error {
	query := fmt.Sprintf(`
		INSERT INTO event_contracts (version, title, content, is_active)
		SELECT COALESCE(MAX(version), 0) + 1, $1, $2, false FROM event_contracts
		RETURNING %s
	`, contractColumns)

	created, err := scanContract(r.db.QueryRow(ctx, query, c.Title, c.Content))
	if err != nil {
		return mapError(err)
	}
	*c = *created
	return nil
}

// Update updates title and content
func (r *PostgresContractRepository) Update(ctx context.Context, c *domain.CommissionContract) error {
	query := fmt.Sprintf(`
		UPDATE event_contracts SET title = $2, content = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, contractColumns)

	updated, err := scanContract(r.db.QueryRow(ctx, query, c.ID, c.Title, c.Content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrContractNotFound
		}
		return mapError(err)
	}
	*c = *updated
	return nil
}

// Activate marks one contract active and every other inactive in one transaction
func (r *PostgresContractRepository) Activate(ctx context.Context, id string) (*domain.CommissionContract, error) {
	var activated *domain.CommissionContract

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE event_contracts SET is_active = false, updated_at = now() WHERE is_active AND id <> $1`, id); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			UPDATE event_contracts SET is_active = true, updated_at = now()
			WHERE id = $1
			RETURNING %s
		`, contractColumns)
		c, err := scanContract(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrContractNotFound
			}
			return err
		}
		activated = c
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return activated, nil
}
