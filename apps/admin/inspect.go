package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core"
)

const columnsQuery = `
SELECT table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema = 'public' AND ($1 = '' OR table_name = $1)
ORDER BY table_name, ordinal_position`

type column struct {
	Table    string `db:"table_name"`
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
}

// inspect prints every table of the public schema with its columns, in declaration order.
func (cli *commandLine) inspect(ctx context.Context, table string) error {
	var cols []column
	if err := cli.db.SelectContext(ctx, &cols, columnsQuery, core.CleanString(table)); err != nil {
		return errors.Wrap(err, "querying columns")
	}
	if len(cols) == 0 {
		fmt.Fprintln(cli.out, "No tables found.")
		return nil
	}

	fmt.Fprintln(cli.out, "Tables and columns in the database:")
	current := ""
	for _, col := range cols {
		if col.Table != current {
			current = col.Table
			fmt.Fprintf(cli.out, "\nTable: %s\n", current)
		}
		fmt.Fprintf(cli.out, "  - %s (%s)\n", col.Name, col.DataType)
	}
	return nil
}
