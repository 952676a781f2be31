package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qrave1/ListenRoom/internal/domain"
)

const uniqueViolation = "23505"

// mapErr переводит ошибки драйвера в ошибки предметной области, остальное оборачивает
func mapErr(err error, op, entity string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s not found", entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.Conflict("%s already exists", entity)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func rollback(tx interface{ Rollback() error }) {
	// после Commit вернет sql.ErrTxDone, это нормально
	_ = tx.Rollback()
}
