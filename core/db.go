package core

import (
	"context"
	"database/sql"
)

// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

// DBOrdering is one term of an ORDER BY clause.
// Every list operation declares its orderings; the UI renders rows in that order without re-sorting.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderBy joins orderings into an ORDER BY clause body, e.g. "date DESC, id DESC".
func OrderBy(orderings ...DBOrdering) string {
	s := ""
	for i, ord := range orderings {
		if i > 0 {
			s += ", "
		}
		s += ord.String()
	}
	return s
}
