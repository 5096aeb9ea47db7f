package repositories

import (
	"errors"
	"fmt"

	"budget-server/common"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation   = "23505"
	pgNumericOutOfRange = "22003"
)

// translateError maps driver and gorm errors onto the common taxonomy.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, common.ErrConflict)
		case pgNumericOutOfRange:
			return fmt.Errorf("%s: %w", op, common.Validation("Amount is out of range"))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
