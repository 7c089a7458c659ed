package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/carnet/apps/api/echo"
	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/cahier"
	"github.com/trezcool/carnet/core/devoir"
	"github.com/trezcool/carnet/core/journal"
	"github.com/trezcool/carnet/core/material"
	"github.com/trezcool/carnet/core/overview"
	"github.com/trezcool/carnet/core/rapport"
	"github.com/trezcool/carnet/core/settings"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/core/teacher"
	logsvc "github.com/trezcool/carnet/services/logger"
	"github.com/trezcool/carnet/storage/database"
	"github.com/trezcool/carnet/storage/database/inmem"
	sqlxrepos "github.com/trezcool/carnet/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Store is the backing database: Postgres, or in-memory when conf.Store is "inmem".
	Store struct {
		DB  *sqlx.DB
		Mem *inmemdb.DB
	}

	Repositories struct {
		dig.Out
		Teacher    teacher.Repository
		Attendance attendance.Repository
		Journal    journal.Repository
		Cahier     cahier.Repository
		Material   material.Repository
		Rapport    rapport.Repository
		Devoir     devoir.Repository
		Settings   settings.Repository
	}

	// Clocks are the configured attendance thresholds.
	Clocks struct {
		Cutoff status.Clock
		Grace  status.Clock
	}

	serverParams struct {
		dig.In
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Teacher    *teacher.Service
		Attendance *attendance.Service
		Journal    *journal.Service
		Cahier     *cahier.Service
		Material   *material.Service
		Rapport    *rapport.Service
		Devoir     *devoir.Service
		Settings   *settings.Service
		Overview   *overview.Service
	}
)

func (s *Store) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func newRollbarLogger(conf *core.Config) *logsvc.RollbarLogger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newLogger(l *logsvc.RollbarLogger) core.Logger {
	return l
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStore(conf *core.Config, loggerParam DBLoggerParam) *Store {
	if conf.Store == core.StoreInMem {
		loggerParam.Logger.Warn("using the in-memory store: records are lost on exit")
		return &Store{Mem: inmemdb.Open()}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(context.Background(), db.DB); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return &Store{DB: db}
}

func newRepositories(s *Store) Repositories {
	if s.Mem != nil {
		return Repositories{
			Teacher:    inmemdb.NewTeacherRepository(s.Mem),
			Attendance: inmemdb.NewAttendanceRepository(s.Mem),
			Journal:    inmemdb.NewJournalRepository(s.Mem),
			Cahier:     inmemdb.NewCahierRepository(s.Mem),
			Material:   inmemdb.NewMaterialRepository(s.Mem),
			Rapport:    inmemdb.NewRapportRepository(s.Mem),
			Devoir:     inmemdb.NewDevoirRepository(s.Mem),
			Settings:   inmemdb.NewSettingsRepository(s.Mem),
		}
	}
	return Repositories{
		Teacher:    sqlxrepos.NewTeacherRepository(s.DB),
		Attendance: sqlxrepos.NewAttendanceRepository(s.DB),
		Journal:    sqlxrepos.NewJournalRepository(s.DB),
		Cahier:     sqlxrepos.NewCahierRepository(s.DB),
		Material:   sqlxrepos.NewMaterialRepository(s.DB),
		Rapport:    sqlxrepos.NewRapportRepository(s.DB),
		Devoir:     sqlxrepos.NewDevoirRepository(s.DB),
		Settings:   sqlxrepos.NewSettingsRepository(s.DB),
	}
}

func newClocks(conf *core.Config) (Clocks, error) {
	cutoff, err := status.ParseClock(conf.Attendance.Cutoff)
	if err != nil {
		return Clocks{}, errors.Wrap(err, "attendance.cutoff")
	}
	grace, err := status.ParseClock(conf.Attendance.Grace)
	if err != nil {
		return Clocks{}, errors.Wrap(err, "attendance.grace")
	}
	if grace < cutoff {
		return Clocks{}, errors.New("attendance.grace cannot be before attendance.cutoff")
	}
	return Clocks{Cutoff: cutoff, Grace: grace}, nil
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newDirectory(svc *teacher.Service) teacher.Directory {
	return svc
}

func newChoices(svc *settings.Service) settings.Choices {
	return svc
}

func newAttendanceService(repo attendance.Repository, teachers teacher.Directory, validate *validator.Validate, clocks Clocks) *attendance.Service {
	return attendance.NewService(repo, teachers, validate, clocks.Cutoff)
}

func newDevoirService(repo devoir.Repository, teachers teacher.Directory, validate *validator.Validate, conf *core.Config) *devoir.Service {
	return devoir.NewService(repo, teachers, validate, conf.Devoir.Weekday)
}

func newOverviewService(
	teachers *teacher.Service,
	attendanceSvc *attendance.Service,
	rapports *rapport.Service,
	devoirs *devoir.Service,
	clocks Clocks,
) *overview.Service {
	return overview.NewService(teachers, attendanceSvc, rapports, devoirs, clocks.Cutoff, clocks.Grace)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf, &echoapi.Deps{
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		Services: echoapi.Services{
			Teacher:    p.Teacher,
			Attendance: p.Attendance,
			Journal:    p.Journal,
			Cahier:     p.Cahier,
			Material:   p.Material,
			Rapport:    p.Rapport,
			Devoir:     p.Devoir,
			Settings:   p.Settings,
			Overview:   p.Overview,
		},
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newRollbarLogger))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newRepositories))
	must(c.Provide(newClocks))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(settings.NewService))
	must(c.Provide(newChoices))
	must(c.Provide(teacher.NewService))
	must(c.Provide(newDirectory))
	must(c.Provide(newAttendanceService))
	must(c.Provide(journal.NewService))
	must(c.Provide(cahier.NewService))
	must(c.Provide(material.NewService))
	must(c.Provide(rapport.NewService))
	must(c.Provide(newDevoirService))
	must(c.Provide(newOverviewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
