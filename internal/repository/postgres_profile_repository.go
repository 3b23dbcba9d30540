package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
)

// PostgresProfileRepository implements ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	db DBTX
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db DBTX) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// GetByID retrieves a profile by user ID
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := r.db.QueryRow(ctx, `SELECT id, full_name, role, company_id FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.FullName, &p.Role, &p.CompanyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return p, nil
}

// PostgresCompanyRepository implements CompanyRepository using PostgreSQL
type PostgresCompanyRepository struct {
	db DBTX
}

// NewPostgresCompanyRepository creates a new PostgresCompanyRepository
func NewPostgresCompanyRepository(db DBTX) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

// GetByID retrieves a company by ID
func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	c := &domain.Company{}
	err := r.db.QueryRow(ctx, `SELECT id, name, document, city, state FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Document, &c.City, &c.State)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return c, nil
}
