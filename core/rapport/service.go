package rapport

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/core/teacher"
)

var ErrNotFound = errors.New("rapport not found")

type (
	Repository interface {
		CreateRapport(ctx context.Context, r Rapport) (Rapport, error)
		QueryRapports(ctx context.Context) ([]Rapport, error)
		GetRapport(ctx context.Context, id int) (Rapport, error)
		UpdateRapport(ctx context.Context, r Rapport) (Rapport, error)
		// DeleteRapport removes the rapport and its deliveries in one transaction.
		DeleteRapport(ctx context.Context, id int) error
		CreateDelivery(ctx context.Context, d Delivery) (Delivery, error)
		// QueryDeliveries lists deliveries joined with their rapport, only teacherName's when set.
		QueryDeliveries(ctx context.Context, teacherName string) ([]Delivery, error)
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

func (svc *Service) Create(ctx context.Context, nr NewRapport) (Rapport, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Rapport{}, err
	}
	r, err := svc.repo.CreateRapport(ctx, Rapport{Title: nr.Title, DueDate: nr.DueDate, Classes: nr.Classes})
	if err != nil {
		return Rapport{}, errors.Wrap(err, "creating rapport")
	}
	return r, nil
}

func (svc *Service) List(ctx context.Context) ([]Rapport, error) {
	rs, err := svc.repo.QueryRapports(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying rapports")
	}
	return rs, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Rapport, error) {
	return svc.repo.GetRapport(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ur UpdateRapport) (Rapport, error) {
	if err := ur.Validate(svc.validate); err != nil {
		return Rapport{}, err
	}
	r, err := svc.repo.UpdateRapport(ctx, Rapport{ID: id, Title: ur.Title, DueDate: ur.DueDate, Classes: ur.Classes})
	if err != nil {
		return Rapport{}, errors.Wrap(err, "updating rapport")
	}
	return r, nil
}

// Delete removes the rapport along with every delivery made against it.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if err := svc.repo.DeleteRapport(ctx, id); err != nil {
		return errors.Wrap(err, "deleting rapport")
	}
	return nil
}

// Deliver records that a teacher handed in the rapport for some of its classes.
func (svc *Service) Deliver(ctx context.Context, rapportID int, nd NewDelivery) (Delivery, error) {
	if err := nd.Validate(svc.validate); err != nil {
		return Delivery{}, err
	}
	r, err := svc.repo.GetRapport(ctx, rapportID)
	if err != nil {
		return Delivery{}, err
	}
	for _, class := range nd.DeliveredClasses {
		if !core.Contains(r.Classes, class) {
			return Delivery{}, core.NewFieldError("delivered_classes", fmt.Sprintf("%q is not a class of this rapport", class))
		}
	}
	if _, err := svc.teachers.Lookup(ctx, nd.TeacherName); err != nil {
		return Delivery{}, err
	}

	d, err := svc.repo.CreateDelivery(ctx, Delivery{
		RapportID:        r.ID,
		TeacherName:      nd.TeacherName,
		DeliveredDay:     nd.DeliveredDay,
		DeliveredClasses: nd.DeliveredClasses,
		DaysLate:         status.DaysLate(nd.DeliveredDay, r.DueDate),
	})
	if err != nil {
		return Delivery{}, errors.Wrap(err, "creating delivery")
	}
	d.RapportTitle, d.DueDate = r.Title, r.DueDate
	return d, nil
}

// Deliveries lists deliveries with their rapport's title and due date, only teacherName's when set.
func (svc *Service) Deliveries(ctx context.Context, teacherName string) ([]Delivery, error) {
	ds, err := svc.repo.QueryDeliveries(ctx, core.CleanString(teacherName))
	if err != nil {
		return nil, errors.Wrap(err, "querying deliveries")
	}
	return ds, nil
}
