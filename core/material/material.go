// Package material logs materials handed out to teachers.
package material

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/settings"
	"github.com/trezcool/carnet/core/teacher"
)

var Ordering = []core.DBOrdering{{Field: "date"}, {Field: "id"}}

type Distribution struct {
	ID          int           `json:"id"`
	TeacherName string        `json:"teacher_name"`
	Material    string        `json:"material"`
	Quantity    int           `json:"quantity"`
	Date        calendar.Date `json:"date"`
}

type NewDistribution struct {
	TeacherName string        `json:"teacher_name" validate:"required,notblank"`
	Material    string        `json:"material" validate:"required,notblank"`
	Quantity    int           `json:"quantity" validate:"min=1"`
	Date        calendar.Date `json:"date" validate:"required"`
}

func (nd *NewDistribution) Validate(validate *validator.Validate) error {
	nd.TeacherName = core.CleanString(nd.TeacherName)
	nd.Material = core.CleanString(nd.Material)
	return validate.Struct(nd)
}

type (
	Repository interface {
		CreateDistribution(ctx context.Context, d Distribution) (Distribution, error)
		QueryDistributions(ctx context.Context) ([]Distribution, error)
	}

	Service struct {
		repo     Repository
		teachers teacher.Directory
		validate *validator.Validate
		choices  settings.Choices
	}
)

func NewService(repo Repository, teachers teacher.Directory, validate *validator.Validate, choices settings.Choices) *Service {
	return &Service{repo: repo, teachers: teachers, validate: validate, choices: choices}
}

func (svc *Service) Create(ctx context.Context, nd NewDistribution) (Distribution, error) {
	if err := nd.Validate(svc.validate); err != nil {
		return Distribution{}, err
	}
	if _, err := svc.teachers.Lookup(ctx, nd.TeacherName); err != nil {
		return Distribution{}, err
	}
	if err := settings.CheckChoice(ctx, svc.choices, settings.KeyMaterials, "material", nd.Material); err != nil {
		return Distribution{}, err
	}
	d, err := svc.repo.CreateDistribution(ctx, Distribution{
		TeacherName: nd.TeacherName,
		Material:    nd.Material,
		Quantity:    nd.Quantity,
		Date:        nd.Date,
	})
	if err != nil {
		return Distribution{}, errors.Wrap(err, "creating distribution")
	}
	return d, nil
}

func (svc *Service) List(ctx context.Context) ([]Distribution, error) {
	ds, err := svc.repo.QueryDistributions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying distributions")
	}
	return ds, nil
}
