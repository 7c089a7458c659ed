// Package journal records lesson-journal checks.
package journal

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/core/teacher"
)

// Ordering of List: newest first.
var Ordering = []core.DBOrdering{{Field: "date"}, {Field: "id"}}

type Check struct {
	ID           int            `json:"id"`
	TeacherName  string         `json:"teacher_name"`
	Date         calendar.Date  `json:"date"`
	Status       status.Journal `json:"status"`
	Observation  string         `json:"observation"`
	OutdatedDays int            `json:"outdated_days"`
}

type NewCheck struct {
	TeacherName  string         `json:"teacher_name" validate:"required,notblank"`
	Date         calendar.Date  `json:"date" validate:"required"`
	Status       status.Journal `json:"status" validate:"required"`
	Observation  string         `json:"observation"`
	OutdatedDays int            `json:"outdated_days" validate:"min=0"`
}

func (nc *NewCheck) Validate(validate *validator.Validate) error {
	nc.TeacherName = core.CleanString(nc.TeacherName)
	nc.Observation = core.CleanString(nc.Observation)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	if !nc.Status.Valid() {
		return core.NewFieldError("status", "must be one of Checked, Outdated, Forgotten")
	}
	if nc.Status == status.Outdated && nc.OutdatedDays < 1 {
		return core.NewFieldError("outdated_days", "an outdated journal is at least 1 day behind")
	}
	if nc.Status != status.Outdated {
		nc.OutdatedDays = 0
	}
	return nil
}

type (
	Repository interface {
		CreateCheck(ctx context.Context, c Check) (Check, error)
		// QueryChecks lists every check, or only those of date when it is set.
		QueryChecks(ctx context.Context, date calendar.Date) ([]Check, error)
	}

	Service struct {
		repo     Repository
		teachers teacher.Directory
		validate *validator.Validate
	}
)

func NewService(repo Repository, teachers teacher.Directory, validate *validator.Validate) *Service {
	return &Service{repo: repo, teachers: teachers, validate: validate}
}

func (svc *Service) Create(ctx context.Context, nc NewCheck) (Check, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Check{}, err
	}
	if _, err := svc.teachers.Lookup(ctx, nc.TeacherName); err != nil {
		return Check{}, err
	}
	c, err := svc.repo.CreateCheck(ctx, Check{
		TeacherName:  nc.TeacherName,
		Date:         nc.Date,
		Status:       nc.Status,
		Observation:  nc.Observation,
		OutdatedDays: nc.OutdatedDays,
	})
	if err != nil {
		return Check{}, errors.Wrap(err, "creating journal check")
	}
	return c, nil
}

// List returns the checks of date, or all checks when date is zero.
func (svc *Service) List(ctx context.Context, date calendar.Date) ([]Check, error) {
	checks, err := svc.repo.QueryChecks(ctx, date)
	if err != nil {
		return nil, errors.Wrap(err, "querying journal checks")
	}
	return checks, nil
}
