package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/settings"
	"github.com/trezcool/carnet/core/teacher"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db          *sqlx.DB
	teacherSvc  *teacher.Service
	settingsSvc *settings.Service
	out         io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, redo, version, ...)")
	fmt.Fprintln(cli.out, "  inspect [-table NAME]  - list the tables of the database and their columns")
	fmt.Fprintln(cli.out, "  levels                 - report the levels held by more than one teacher")
	fmt.Fprintln(cli.out, "  settings-reset         - overwrite every setting with its default")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()

	inspectCmd := flag.NewFlagSet("inspect", flag.ContinueOnError)
	inspectCmd.SetOutput(cli.out)
	inspectTable := inspectCmd.String("table", "", "Only inspect this table.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "inspect":
		if err := inspectCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.inspect(ctx, *inspectTable)
	case "levels":
		return cli.levels(ctx)
	case "settings-reset":
		return cli.resetSettings(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}
