// Package sqlxrepos implements the repositories on Postgres with jmoiron/sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core"
)

const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqForeignKeyViolation = pq.ErrorCode("23503")
	pqConnectionException = "08"
)

// pqError returns the Postgres error behind err, if any.
func pqError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// violates reports whether err is a violation of the named constraint.
func violates(err error, code pq.ErrorCode, constraint string) bool {
	pqErr, ok := pqError(err)
	return ok && pqErr.Code == code && pqErr.Constraint == constraint
}

// mapErr translates driver errors into core errors. Unknown errors are returned as is.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := pqError(err); ok {
		switch {
		case pqErr.Code == pqUniqueViolation:
			return errors.Wrap(core.ErrDuplicateKey, pqErr.Constraint)
		case pqErr.Code.Class() == pqConnectionException:
			return errors.Wrap(core.ErrStorageUnavailable, pqErr.Message)
		}
		return err
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return errors.Wrap(core.ErrStorageUnavailable, err.Error())
	}
	return err
}

// trapNoRowsErr maps sql.ErrNoRows to notFound.
func trapNoRowsErr(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return mapErr(err)
}

// withTx runs fn in a transaction, committed only if fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(mapErr(err), "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(mapErr(tx.Commit()), "committing transaction")
}

// deleteWhere deletes the rows of table whose column equals value, inside a transaction or not.
// notFound, when non-nil, is returned if nothing was deleted.
func deleteWhere(ctx context.Context, exec core.DBExecutor, table, column string, value interface{}, notFound error) error {
	res, err := exec.ExecContext(ctx, exec.Rebind("DELETE FROM "+table+" WHERE "+column+" = ?"), value)
	if err != nil {
		return mapErr(err)
	}
	if notFound == nil {
		return nil
	}
	if n, err := res.RowsAffected(); err != nil {
		return mapErr(err)
	} else if n == 0 {
		return notFound
	}
	return nil
}

// orderBy is an ORDER BY clause for orderings.
func orderBy(orderings []core.DBOrdering) string {
	return " ORDER BY " + core.OrderBy(orderings...)
}

var (
	_ core.DBExecutor = (*sqlx.Tx)(nil)
	_ core.DBExecutor = (*sqlx.DB)(nil)
)
