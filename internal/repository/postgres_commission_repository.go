package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/database"
)

// PostgresCommissionRangeRepository implements CommissionRangeRepository using PostgreSQL
type PostgresCommissionRangeRepository struct {
	db TxDB
}

// NewPostgresCommissionRangeRepository creates a new PostgresCommissionRangeRepository
func NewPostgresCommissionRangeRepository(db TxDB) *PostgresCommissionRangeRepository {
	return &PostgresCommissionRangeRepository{db: db}
}

const rangeColumns = `id, min_tickets, max_tickets, percentage::float8, is_active, created_at, updated_at`

func scanRange(row pgx.Row) (*domain.CommissionRange, error) {
	r := &domain.CommissionRange{}
	err := row.Scan(&r.ID, &r.MinTickets, &r.MaxTickets, &r.Percentage, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func queryRanges(ctx context.Context, db DBTX, query string, args ...any) ([]*domain.CommissionRange, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranges := []*domain.CommissionRange{}
	for rows.Next() {
		r, err := scanRange(rows)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, rows.Err()
}

// ListActive returns active ranges ordered by min_tickets ascending
func (r *PostgresCommissionRangeRepository) ListActive(ctx context.Context) ([]*domain.CommissionRange, error) {
	query := fmt.Sprintf(`SELECT %s FROM commission_ranges WHERE is_active ORDER BY min_tickets ASC`, rangeColumns)
	ranges, err := queryRanges(ctx, r.db, query)
	return ranges, mapError(err)
}

// List returns every range ordered by min_tickets ascending
func (r *PostgresCommissionRangeRepository) List(ctx context.Context) ([]*domain.CommissionRange, error) {
	query := fmt.Sprintf(`SELECT %s FROM commission_ranges ORDER BY min_tickets ASC, created_at DESC`, rangeColumns)
	ranges, err := queryRanges(ctx, r.db, query)
	return ranges, mapError(err)
}

// GetByID retrieves a range by ID
func (r *PostgresCommissionRangeRepository) GetByID(ctx context.Context, id string) (*domain.CommissionRange, error) {
	query := fmt.Sprintf(`SELECT %s FROM commission_ranges WHERE id = $1`, rangeColumns)
	cr, err := scanRange(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return cr, nil
}

// checkOverlap locks the active ranges and rejects cr if it overlaps one.
// Inactive candidates never conflict.
func checkOverlap(ctx context.Context, tx pgx.Tx, cr *domain.CommissionRange) error {
	if !cr.IsActive {
		return nil
	}
	query := fmt.Sprintf(`SELECT %s FROM commission_ranges WHERE is_active ORDER BY min_tickets FOR UPDATE`, rangeColumns)
	active, err := queryRanges(ctx, tx, query)
	if err != nil {
		return err
	}
	if other := domain.FindOverlap(cr, active); other != nil {
		return fmt.Errorf("%w: range %s covers %d+", domain.ErrRangeOverlap, other.ID, other.MinTickets)
	}
	return nil
}

func appendHistory(ctx context.Context, tx pgx.Tx, cr *domain.CommissionRange, action domain.RangeAction, changedBy string) error {
	snapshot, err := json.Marshal(cr)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO commission_ranges_history (range_id, action, snapshot, changed_by) VALUES ($1, $2, $3, $4)`,
		cr.ID, action, snapshot, changedBy)
	return err
}

// Create inserts a range and its history row
func (r *PostgresCommissionRangeRepository) Create(ctx context.Context, cr *domain.CommissionRange, changedBy string) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := checkOverlap(ctx, tx, cr); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			INSERT INTO commission_ranges (min_tickets, max_tickets, percentage, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING %s
		`, rangeColumns)
		created, err := scanRange(tx.QueryRow(ctx, query, cr.MinTickets, cr.MaxTickets, cr.Percentage, cr.IsActive))
		if err != nil {
			return err
		}
		*cr = *created
		return appendHistory(ctx, tx, cr, domain.RangeActionCreated, changedBy)
	})
	return mapError(err)
}

// Update updates bounds, percentage and the active flag, and records history
func (r *PostgresCommissionRangeRepository) Update(ctx context.Context, cr *domain.CommissionRange, changedBy string) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := checkOverlap(ctx, tx, cr); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			UPDATE commission_ranges
			SET min_tickets = $2, max_tickets = $3, percentage = $4, is_active = $5, updated_at = now()
			WHERE id = $1
			RETURNING %s
		`, rangeColumns)
		updated, err := scanRange(tx.QueryRow(ctx, query, cr.ID, cr.MinTickets, cr.MaxTickets, cr.Percentage, cr.IsActive))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRangeNotFound
			}
			return err
		}
		*cr = *updated
		return appendHistory(ctx, tx, cr, domain.RangeActionUpdated, changedBy)
	})
	return mapError(err)
}

// Deactivate clears the active flag and records history
func (r *PostgresCommissionRangeRepository) Deactivate(ctx context.Context, id, changedBy string) (*domain.CommissionRange, error) {
	var out *domain.CommissionRange

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`
			UPDATE commission_ranges SET is_active = false, updated_at = now()
			WHERE id = $1
			RETURNING %s
		`, rangeColumns)
		cr, err := scanRange(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRangeNotFound
			}
			return err
		}
		out = cr
		return appendHistory(ctx, tx, cr, domain.RangeActionDeactivated, changedBy)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ListHistory returns the audit trail of a range, newest first
func (r *PostgresCommissionRangeRepository) ListHistory(ctx context.Context, rangeID string) ([]*domain.CommissionRangeHistory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, range_id, action, snapshot, changed_by, changed_at
		FROM commission_ranges_history
		WHERE range_id = $1
		ORDER BY changed_at DESC
	`, rangeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	history := []*domain.CommissionRangeHistory{}
	for rows.Next() {
		h := &domain.CommissionRangeHistory{}
		var snapshot []byte
		if err := rows.Scan(&h.ID, &h.RangeID, &h.Action, &snapshot, &h.ChangedBy, &h.ChangedAt); err != nil {
			return nil, err
		}
		if len(snapshot) > 0 {
			h.Snapshot = &domain.CommissionRange{}
			if err := json.Unmarshal(snapshot, h.Snapshot); err != nil {
				return nil, fmt.Errorf("history %s snapshot: %w", h.ID, err)
			}
		}
		history = append(history, h)
	}
	return history, mapError(rows.Err())
}
