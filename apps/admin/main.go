package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/settings"
	"github.com/trezcool/carnet/core/teacher"
	"github.com/trezcool/carnet/storage/database"
	sqlxrepos "github.com/trezcool/carnet/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// start CLI
	settingsSvc := settings.NewService(sqlxrepos.NewSettingsRepository(db))
	cli := commandLine{
		db:          db,
		teacherSvc:  teacher.NewService(sqlxrepos.NewTeacherRepository(db), validate, settingsSvc),
		settingsSvc: settingsSvc,
		out:         os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %+v\n", err)
		}
		db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
