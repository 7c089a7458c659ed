package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/calendar"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.POST("", api.save)
	ag.GET("", api.byDate)
	ag.GET("/pending", api.pending)
	ag.GET("/exists", api.exists)
}

type ExistsQuery struct {
	Name string        `query:"name"`
	Date calendar.Date `query:"date"`
}

// save answers 201 for a new record and 200 when an earlier record of that day was overwritten.
func (api *attendanceApi) save(ctx echo.Context) error {
	var data attendance.SaveRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveRecord")
	}
	saved, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	if saved.Overwritten {
		return ctx.JSON(http.StatusOK, saved)
	}
	return ctx.JSON(http.StatusCreated, saved)
}

// byDate lists the records of ?date, today by default.
func (api *attendanceApi) byDate(ctx echo.Context) error {
	var filter DateFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to DateFilter")
	}
	if filter.Date.IsZero() {
		filter.Date = calendar.Today()
	}
	recs, err := api.svc.ListByDate(ctx.Request().Context(), filter.Date)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(recs))
}

func (api *attendanceApi) pending(ctx echo.Context) error {
	var filter DateFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to DateFilter")
	}
	if filter.Date.IsZero() {
		filter.Date = calendar.Today()
	}
	names, err := api.svc.Pending(ctx.Request().Context(), filter.Date)
	if err != nil {
		return errors.Wrap(err, "querying pending teachers")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(names))
}

func (api *attendanceApi) exists(ctx echo.Context) error {
	var q ExistsQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to ExistsQuery")
	}
	if q.Date.IsZero() {
		q.Date = calendar.Today()
	}
	ok, err := api.svc.Exists(ctx.Request().Context(), q.Name, q.Date)
	if err != nil {
		return errors.Wrap(err, "checking attendance")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"exists": ok})
}
