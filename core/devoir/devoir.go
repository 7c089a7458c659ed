// Package devoir records the weekly homework checks, one per teacher and class.
package devoir

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/core/teacher"
)

var Ordering = []core.DBOrdering{{Field: "thursday_date"}, {Field: "id"}}

type Check struct {
	ID          int           `json:"id"`
	TeacherName string        `json:"teacher_name"`
	ClassName   string        `json:"class_name"`
	WeekDate    calendar.Date `json:"thursday_date"`
	Status      status.Devoir `json:"status"`
	SentDate    calendar.Date `json:"sent_date"` // only for Sent Late
	DaysLate    int           `json:"days_late"`
}

type NewCheck struct {
	TeacherName string        `json:"teacher_name" validate:"required,notblank"`
	ClassName   string        `json:"class_name" validate:"required,notblank"`
	WeekDate    calendar.Date `json:"thursday_date"` // defaults to the next check day
	Status      status.Devoir `json:"status" validate:"required"`
	SentDate    calendar.Date `json:"sent_date"`
}

func (nc *NewCheck) Validate(validate *validator.Validate) error {
	nc.TeacherName = core.CleanString(nc.TeacherName)
	nc.ClassName = core.CleanString(nc.ClassName)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	if !nc.Status.Valid() {
		return core.NewFieldError("status", "must be one of Sent, Not Sent, Sent Late")
	}
	return nil
}

type (
	Repository interface {
		CreateCheck(ctx context.Context, c Check) (Check, error)
		// QueryChecks lists every check, only teacherName's when set.
		QueryChecks(ctx context.Context, teacherName string) ([]Check, error)
	}

	Service struct {
		repo     Repository
		teachers teacher.Directory
		validate *validator.Validate
		weekday  time.Weekday
		today    func() calendar.Date
	}
)

func NewService(repo Repository, teachers teacher.Directory, validate *validator.Validate, weekday time.Weekday) *Service {
	return &Service{repo: repo, teachers: teachers, validate: validate, weekday: weekday, today: calendar.Today}
}

// NextWeek is the default week date for a check entered on from: the next check day, from included.
func (svc *Service) NextWeek(from calendar.Date) calendar.Date {
	if from.IsZero() {
		from = svc.today()
	}
	return calendar.NextWeekday(from, svc.weekday)
}

func (svc *Service) Create(ctx context.Context, nc NewCheck) (Check, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Check{}, err
	}
	t, err := svc.teachers.Lookup(ctx, nc.TeacherName)
	if err != nil {
		return Check{}, err
	}
	if !t.Teaches(nc.ClassName) {
		return Check{}, core.NewFieldError("class_name", fmt.Sprintf("%s is not assigned to %s", nc.ClassName, t.Name))
	}

	c := Check{
		TeacherName: t.Name,
		ClassName:   nc.ClassName,
		WeekDate:    nc.WeekDate,
		Status:      nc.Status,
	}
	if c.WeekDate.IsZero() {
		c.WeekDate = svc.NextWeek(calendar.Date{})
	}
	if c.Status == status.SentLate {
		c.SentDate = nc.SentDate
		if c.SentDate.IsZero() {
			c.SentDate = c.WeekDate
		}
		c.DaysLate = status.DaysLate(c.SentDate, c.WeekDate)
	}

	c, err = svc.repo.CreateCheck(ctx, c)
	if err != nil {
		return Check{}, errors.Wrap(err, "creating devoir check")
	}
	return c, nil
}

func (svc *Service) List(ctx context.Context, teacherName string) ([]Check, error) {
	cs, err := svc.repo.QueryChecks(ctx, core.CleanString(teacherName))
	if err != nil {
		return nil, errors.Wrap(err, "querying devoir checks")
	}
	return cs, nil
}
