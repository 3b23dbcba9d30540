package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/database"
)

// PostgresEventRepository implements EventStore using PostgreSQL
type PostgresEventRepository struct {
	db TxDB
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db TxDB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

const eventColumns = `id, manager_id, company_id, title, description, date, time,
	location, address, image_url_1, image_url_2, image_url_3, min_age, category,
	capacity, duration, is_paid, ticket_price::text, contract_id, contract_accepted,
	status, created_at, updated_at`

const batchColumns = `id, event_id, name, quantity, price::text, start_date, end_date, sort_order`

// scanEvent scans a row into an Event struct
func scanEvent(row pgx.Row) (*domain.Event, error) {
	e := &domain.Event{}
	var price *string

	err := row.Scan(
		&e.ID,
		&e.ManagerID,
		&e.CompanyID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.Time,
		&e.Location,
		&e.Address,
		&e.ImageURL1,
		&e.ImageURL2,
		&e.ImageURL3,
		&e.MinAge,
		&e.Category,
		&e.Capacity,
		&e.Duration,
		&e.IsPaid,
		&price,
		&e.ContractID,
		&e.ContractAccepted,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if price != nil {
		m, err := domain.ParseMoney(*price)
		if err != nil {
			return nil, fmt.Errorf("event %s ticket_price: %w", e.ID, err)
		}
		e.TicketPrice = &m
	}
	return e, nil
}

func scanBatch(row pgx.Row) (*domain.TicketBatch, error) {
	b := &domain.TicketBatch{}
	var qty int
	var price string

	if err := row.Scan(&b.ID, &b.EventID, &b.Name, &qty, &price, &b.StartDate, &b.EndDate, &b.SortOrder); err != nil {
		return nil, err
	}

	m, err := domain.ParseMoney(price)
	if err != nil {
		return nil, fmt.Errorf("batch %s price: %w", b.ID, err)
	}
	b.Price = m
	b.Quantity = domain.Quantity(qty)
	return b, nil
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return event, nil
}

// List lists events with filters and pagination, newest first
func (r *PostgresEventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	var conditions []string
	var args []any

	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		conditions = append(conditions, fmt.Sprintf("manager_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM events "+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM events %s ORDER BY date ASC, created_at DESC LIMIT $%d OFFSET $%d`,
		eventColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err)
	}
	return events, total, nil
}

// ListBatches returns the batches of an event ordered by sort_order
func (r *PostgresEventRepository) ListBatches(ctx context.Context, eventID string) ([]*domain.TicketBatch, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_batches WHERE event_id = $1 ORDER BY sort_order, name`, batchColumns)
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var batches []*domain.TicketBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, mapError(rows.Err())
}

// Save writes the event and, when asked, replaces its batches in one
// transaction. A failure leaves the previous event and batches in place.
func (r *PostgresEventRepository) Save(ctx context.Context, event *domain.Event, batches []*domain.TicketBatch, replaceBatches bool) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if event.ID == "" {
			if err := insertEvent(ctx, tx, event); err != nil {
				return err
			}
		} else if err := updateEvent(ctx, tx, event); err != nil {
			return err
		}

		if !replaceBatches {
			return nil
		}
		return replaceEventBatches(ctx, tx, event.ID, batches)
	})
	return mapError(err)
}

func priceArg(m *domain.Money) any {
	if m == nil {
		return nil
	}
	return m.String()
}

func insertEvent(ctx context.Context, tx pgx.Tx, e *domain.Event) error {
	query := `
		INSERT INTO events (
			manager_id, company_id, title, description, date, time, location, address,
			image_url_1, image_url_2, image_url_3, min_age, category, capacity, duration,
			is_paid, ticket_price, contract_id, contract_accepted, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17::text::numeric, $18, $19, $20
		)
		RETURNING id, created_at, updated_at
	`
	return tx.QueryRow(ctx, query,
		e.ManagerID,
		e.CompanyID,
		e.Title,
		e.Description,
		e.Date,
		e.Time,
		e.Location,
		e.Address,
		e.ImageURL1,
		e.ImageURL2,
		e.ImageURL3,
		e.MinAge,
		e.Category,
		e.Capacity,
		e.Duration,
		e.IsPaid,
		priceArg(e.TicketPrice),
		e.ContractID,
		e.ContractAccepted,
		e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func updateEvent(ctx context.Context, tx pgx.Tx, e *domain.Event) error {
	query := `
		UPDATE events SET
			title = $2, description = $3, date = $4, time = $5, location = $6, address = $7,
			image_url_1 = $8, image_url_2 = $9, image_url_3 = $10, min_age = $11, category = $12,
			capacity = $13, duration = $14, is_paid = $15, ticket_price = $16::text::numeric,
			contract_id = $17, contract_accepted = $18, status = $19, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := tx.QueryRow(ctx, query,
		e.ID,
		e.Title,
		e.Description,
		e.Date,
		e.Time,
		e.Location,
		e.Address,
		e.ImageURL1,
		e.ImageURL2,
		e.ImageURL3,
		e.MinAge,
		e.Category,
		e.Capacity,
		e.Duration,
		e.IsPaid,
		priceArg(e.TicketPrice),
		e.ContractID,
		e.ContractAccepted,
		e.Status,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEventNotFound
	}
	return err
}

func replaceEventBatches(ctx context.Context, tx pgx.Tx, eventID string, batches []*domain.TicketBatch) error {
	if _, err := tx.Exec(ctx, `DELETE FROM event_batches WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	if len(batches) == 0 {
		return nil
	}

	query := `
		INSERT INTO event_batches (event_id, name, quantity, price, start_date, end_date, sort_order)
		VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7)
		RETURNING id
	`
	b := &pgx.Batch{}
	for i, batch := range batches {
		batch.EventID = eventID
		batch.SortOrder = i
		b.Queue(query, eventID, batch.Name, int(batch.Quantity), batch.Price.String(),
			batch.StartDate, batch.EndDate, batch.SortOrder).QueryRow(func(row pgx.Row) error {
			return row.Scan(&batch.ID)
		})
	}
	return tx.SendBatch(ctx, b).Close()
}

// UpdateStatus sets the moderation status and returns the updated event
func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	query := fmt.Sprintf(`UPDATE events SET status = $2, updated_at = now() WHERE id = $1 RETURNING %s`, eventColumns)
	event, err := scanEvent(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return event, nil
}
