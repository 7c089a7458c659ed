package cahier

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/settings"
	"github.com/trezcool/carnet/core/teacher"
)

type (
	Repository interface {
		CreateInspection(ctx context.Context, in Inspection) (Inspection, error)
		QueryInspections(ctx context.Context) ([]Inspection, error)
		// CreateCahier stores c and its uncorrected lessons atomically.
		CreateCahier(ctx context.Context, c Cahier) (Cahier, error)
		QueryCahiers(ctx context.Context) ([]Cahier, error)
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

func (svc *Service) CreateInspection(ctx context.Context, ni NewInspection) (Inspection, error) {
	if err := ni.Validate(svc.validate); err != nil {
		return Inspection{}, err
	}
	if _, err := svc.teachers.Lookup(ctx, ni.TeacherName); err != nil {
		return Inspection{}, err
	}
	if err := settings.CheckChoice(ctx, svc.choices, settings.KeyModules, "module", ni.Module); err != nil {
		return Inspection{}, err
	}
	in, err := svc.repo.CreateInspection(ctx, Inspection{
		TeacherName:    ni.TeacherName,
		InspectionDate: ni.InspectionDate,
		Module:         ni.Module,
		Submodule:      ni.Submodule,
		Title:          ni.Title,
		LessonDate:     ni.LessonDate,
		DaysDifference: calendar.DaysBetween(ni.InspectionDate, ni.LessonDate),
	})
	if err != nil {
		return Inspection{}, errors.Wrap(err, "creating inspection")
	}
	return in, nil
}

func (svc *Service) ListInspections(ctx context.Context) ([]Inspection, error) {
	ins, err := svc.repo.QueryInspections(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying inspections")
	}
	return ins, nil
}

func (svc *Service) CreateCahier(ctx context.Context, nc NewCahier) (Cahier, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Cahier{}, err
	}
	if _, err := svc.teachers.Lookup(ctx, nc.TeacherName); err != nil {
		return Cahier{}, err
	}
	c, err := svc.repo.CreateCahier(ctx, Cahier{
		TeacherName:         nc.TeacherName,
		InspectionDate:      nc.InspectionDate,
		LastCorrectedDate:   nc.LastCorrectedDate,
		LastCorrectedModule: nc.LastCorrectedModule,
		LastCorrectedTitle:  nc.LastCorrectedTitle,
		Observation:         nc.Observation,
		Uncorrected:         nc.Uncorrected,
	})
	if err != nil {
		return Cahier{}, errors.Wrap(err, "creating cahier")
	}
	return c, nil
}

// ListCahiers returns every cahier with its uncorrected lessons.
func (svc *Service) ListCahiers(ctx context.Context) ([]Cahier, error) {
	cs, err := svc.repo.QueryCahiers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying cahiers")
	}
	return cs, nil
}
