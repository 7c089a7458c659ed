// Package testutil wires the services on the in-memory store for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/cahier"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/devoir"
	"github.com/trezcool/carnet/core/journal"
	"github.com/trezcool/carnet/core/material"
	"github.com/trezcool/carnet/core/overview"
	"github.com/trezcool/carnet/core/rapport"
	"github.com/trezcool/carnet/core/settings"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/core/teacher"
	"github.com/trezcool/carnet/storage/database/inmem"
)

var (
	Cutoff = status.MustParseClock("08:30")
	Grace  = status.MustParseClock("08:45")
)

type Services struct {
	DB         *inmemdb.DB
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

func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := validator.New(), core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// NewServices returns every service backed by a fresh in-memory DB.
func NewServices() *Services {
	db := inmemdb.Open()
	validate, translator := NewValidator()

	s := &Services{DB: db, Validate: validate, Translator: translator}
	s.Settings = settings.NewService(inmemdb.NewSettingsRepository(db))
	s.Teacher = teacher.NewService(inmemdb.NewTeacherRepository(db), validate, s.Settings)
	s.Attendance = attendance.NewService(inmemdb.NewAttendanceRepository(db), s.Teacher, validate, Cutoff)
	s.Journal = journal.NewService(inmemdb.NewJournalRepository(db), s.Teacher, validate)
	s.Cahier = cahier.NewService(inmemdb.NewCahierRepository(db), s.Teacher, validate, s.Settings)
	s.Material = material.NewService(inmemdb.NewMaterialRepository(db), s.Teacher, validate, s.Settings)
	s.Rapport = rapport.NewService(inmemdb.NewRapportRepository(db), s.Teacher, validate)
	s.Devoir = devoir.NewService(inmemdb.NewDevoirRepository(db), s.Teacher, validate, time.Thursday)
	s.Overview = overview.NewService(s.Teacher, s.Attendance, s.Rapport, s.Devoir, Cutoff, Grace)
	return s
}

func CreateTeacher(t *testing.T, svc *teacher.Service, name, level string, classes ...string) teacher.Teacher {
	tchr, err := svc.Create(context.Background(), teacher.NewTeacher{
		Name:            name,
		FirstDay:        calendar.New(2023, time.September, 4),
		Subjects:        []string{"French"},
		AssignedClasses: classes,
		Level:           level,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tchr
}

// FieldErrors returns the field errors carried by err, keyed by field, or nil.
func FieldErrors(err error) map[string]string {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		flds := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			flds[fe.Field()] = fe.Tag()
		}
		return flds
	}
	if !core.IsValidationError(err) {
		return nil
	}
	verr := errors.Cause(err).(*core.ValidationError)
	flds := make(map[string]string, len(verr.Fields))
	for _, fe := range verr.Fields {
		flds[fe.Field] = fe.Error
	}
	return flds
}
