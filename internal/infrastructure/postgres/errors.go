package postgres

import (
	"errors"
	"fmt"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/txn"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"

	constraintProductName  = "products_owner_name_key"
	constraintProductStock = "products_current_stock_check"
	constraintSaleNumber   = "sales_owner_number_key"
)

func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

func isViolation(err error, code, constraint string) bool {
	pgErr := pgError(err)
	return pgErr != nil && pgErr.Code == code && pgErr.ConstraintName == constraint
}

// mapError turns serialization failures and deadlocks into txn.ErrAborted.
func mapError(err error) error {
	pgErr := pgError(err)
	if pgErr == nil {
		return err
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("postgres: %w: %w", txn.ErrAborted, err)
	}
	return err
}
