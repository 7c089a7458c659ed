package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/carnet/core/settings"
	"github.com/trezcool/carnet/tests"
)

func setup(t *testing.T) (*commandLine, sqlmock.Sqlmock, *testutil.Services, *bytes.Buffer) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	svcs := testutil.NewServices()
	out := new(bytes.Buffer)

	// start CLI
	cli := &commandLine{
		db:          sqlx.NewDb(mockDB, "sqlmock"),
		teacherSvc:  svcs.Teacher,
		settingsSvc: svcs.Settings,
		out:         out,
	}
	return cli, mock, svcs, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() expected an error")
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, _, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "inspect with an unknown flag", args: []string{"inspect", "-lol"}, wantErr: errHelp},
	})
	assert.Contains(t, out.String(), "settings-reset")
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _, _ := setup(t)

	origRun := gooseRunFunc
	defer func() { gooseRunFunc = origRun }()

	gooseRunFunc = func(ctx context.Context, db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "observations", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	})
}

func Test_commandLine_inspect(t *testing.T) {
	cli, mock, _, out := setup(t)

	cols := []string{"table_name", "column_name", "data_type"}
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("attendance", "id", "integer").
			AddRow("attendance", "name", "text").
			AddRow("teachers", "id", "integer"))
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("nothing").
		WillReturnRows(sqlmock.NewRows(cols))

	runCLITests(t, cli, []cliTest{
		{name: "all tables", args: []string{"inspect"}},
		{name: "unknown table", args: []string{"inspect", "-table", " nothing "}},
	})

	want := "Tables and columns in the database:\n" +
		"\nTable: attendance\n  - id (integer)\n  - name (text)\n" +
		"\nTable: teachers\n  - id (integer)\n" +
		"No tables found.\n"
	assert.Equal(t, want, out.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_commandLine_levels(t *testing.T) {
	cli, _, svcs, out := setup(t)
	testutil.CreateTeacher(t, svcs.Teacher, "Amina Diallo", "1A")

	runCLITests(t, cli, []cliTest{{name: "unique levels", args: []string{"levels"}}})
	assert.Equal(t, "Every level is held by a single teacher.\n", out.String())
}

func Test_commandLine_resetSettings(t *testing.T) {
	cli, _, svcs, out := setup(t)

	_, err := svcs.Settings.Save(context.Background(), settings.Settings{Subjects: []string{"Only"}})
	require.NoError(t, err)

	runCLITests(t, cli, []cliTest{{name: "reset", args: []string{"settings-reset"}}})

	s, err := svcs.Settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults().Subjects, s.Subjects)
	assert.Contains(t, out.String(), "Settings reset: 7 subjects")
}
