package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/devoir"
)

type devoirApi struct {
	svc *devoir.Service
}

func registerDevoirAPI(g *echo.Group, svc *devoir.Service) {
	api := devoirApi{svc: svc}

	dg := g.Group("/devoirs")
	dg.POST("", api.create)
	dg.GET("", api.query)
	dg.GET("/next-week", api.nextWeek)
}

type NextWeekQuery struct {
	From calendar.Date `query:"from"`
}

func (api *devoirApi) create(ctx echo.Context) error {
	var data devoir.NewCheck
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCheck")
	}
	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating devoir check")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *devoirApi) query(ctx echo.Context) error {
	var filter TeacherFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to TeacherFilter")
	}
	checks, err := api.svc.List(ctx.Request().Context(), filter.Teacher)
	if err != nil {
		return errors.Wrap(err, "querying devoir checks")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(checks))
}

// nextWeek gives the week date a check entered on ?from (today by default) defaults to.
func (api *devoirApi) nextWeek(ctx echo.Context) error {
	var q NextWeekQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to NextWeekQuery")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"thursday_date": api.svc.NextWeek(q.From)})
}
