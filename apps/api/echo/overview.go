package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/overview"
)

type overviewApi struct {
	svc *overview.Service
}

func registerOverviewAPI(g *echo.Group, svc *overview.Service) {
	api := overviewApi{svc: svc}

	og := g.Group("/overview")
	og.GET("/teachers/:id", api.details)
	og.GET("/timeline", api.timeline)
	og.GET("/devoir-status", api.devoirStatus)
	og.GET("/levels", api.levels)
}

type TimelineQuery struct {
	Name string `query:"name"`
}

func (api *overviewApi) details(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	d, err := api.svc.TeacherDetails(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "building teacher details")
	}
	d.Deliveries = emptyIfNil(d.Deliveries)
	d.Devoirs = emptyIfNil(d.Devoirs)
	d.Attendance = emptyIfNil(d.Attendance)
	return ctx.JSON(http.StatusOK, d)
}

func (api *overviewApi) timeline(ctx echo.Context) error {
	var q TimelineQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to TimelineQuery")
	}
	entries, err := api.svc.Timeline(ctx.Request().Context(), q.Name)
	if err != nil {
		return errors.Wrap(err, "building timeline")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(entries))
}

func (api *overviewApi) devoirStatus(ctx echo.Context) error {
	counts, err := api.svc.DevoirStatusCounts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting devoir statuses")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(counts))
}

func (api *overviewApi) levels(ctx echo.Context) error {
	groups, err := api.svc.DuplicateLevels(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "grouping levels")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(groups))
}
