package database

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	mysqlDuplicateEntry = 1062
	mysqlOutOfRange     = 1264
	mysqlRowReferenced  = 1451
	mysqlNoReferenced   = 1452
	mysqlLockWait       = 1205
	mysqlDeadlock       = 1213
)

// Classify maps driver and context failures onto the apperror taxonomy.
// Errors that already carry a code pass through untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.Unavailable(err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlOutOfRange:
			return apperror.Wrap(apperror.CodeInvalidArgument, "value out of range", err)
		case mysqlDuplicateEntry:
			return apperror.Wrap(apperror.CodeConflict, "record was created concurrently, retry", err)
		case mysqlRowReferenced:
			return apperror.Wrap(apperror.CodeConflict, "record is still referenced", err)
		case mysqlNoReferenced:
			return apperror.Wrap(apperror.CodeNotFound, "referenced record does not exist", err)
		case mysqlLockWait, mysqlDeadlock:
			return apperror.Wrap(apperror.CodeConflict, "concurrent update, retry", err)
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "22003":
			return apperror.Wrap(apperror.CodeInvalidArgument, "value out of range", err)
		case "23505":
			return apperror.Wrap(apperror.CodeConflict, "record was created concurrently, retry", err)
		case "23503":
			return apperror.Wrap(apperror.CodeConflict, "record is still referenced", err)
		case "40001", "40P01", "55P03":
			return apperror.Wrap(apperror.CodeConflict, "concurrent update, retry", err)
		}
	}

	// Bad connections, network failures and anything unexpected surface as Unavailable.
	return apperror.Unavailable(err)
}
