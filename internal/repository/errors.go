package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
)

const (
	pgInsufficientPrivilege = "42501"
	pgForeignKeyViolation   = "23503"
)

// mapError converts PostgreSQL errors the services care about into domain
// errors and leaves the rest untouched
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgInsufficientPrivilege:
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, pgErr.Message)
	case pgForeignKeyViolation:
		if pgErr.ConstraintName == "events_contract_id_fkey" {
			return fmt.Errorf("%w: %s", domain.ErrContractNotFound, pgErr.Detail)
		}
	}
	return err
}
