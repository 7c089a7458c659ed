package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/rapport"
)

type rapportApi struct {
	svc *rapport.Service
}

func registerRapportAPI(g *echo.Group, svc *rapport.Service) {
	api := rapportApi{svc: svc}

	rg := g.Group("/rapports")
	rg.GET("", api.query)
	rg.POST("", api.create)

	// detail endpoints
	dg := rg.Group("/:id", objectMiddleware(svc.Get))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/deliveries", api.deliver)

	g.GET("/deliveries", api.queryDeliveries)
}

func (api *rapportApi) query(ctx echo.Context) error {
	rapports, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying rapports")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(rapports))
}

func (api *rapportApi) create(ctx echo.Context) error {
	var data rapport.NewRapport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRapport")
	}
	r, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating rapport")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *rapportApi) retrieve(ctx echo.Context) error {
	r, err := contextObject[rapport.Rapport](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *rapportApi) update(ctx echo.Context) error {
	r, err := contextObject[rapport.Rapport](ctx)
	if err != nil {
		return err
	}
	var data rapport.UpdateRapport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRapport")
	}
	r, err = api.svc.Update(ctx.Request().Context(), r.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating rapport")
	}
	return ctx.JSON(http.StatusOK, r)
}

// destroy removes the rapport along with its deliveries.
func (api *rapportApi) destroy(ctx echo.Context) error {
	r, err := contextObject[rapport.Rapport](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), r.ID); err != nil {
		return errors.Wrap(err, "deleting rapport")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *rapportApi) deliver(ctx echo.Context) error {
	r, err := contextObject[rapport.Rapport](ctx)
	if err != nil {
		return err
	}
	var data rapport.NewDelivery
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDelivery")
	}
	d, err := api.svc.Deliver(ctx.Request().Context(), r.ID, data)
	if err != nil {
		return errors.Wrap(err, "delivering rapport")
	}
	return ctx.JSON(http.StatusCreated, d)
}

// queryDeliveries lists every delivery, only ?teacher's when given.
func (api *rapportApi) queryDeliveries(ctx echo.Context) error {
	var filter TeacherFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to TeacherFilter")
	}
	ds, err := api.svc.Deliveries(ctx.Request().Context(), filter.Teacher)
	if err != nil {
		return errors.Wrap(err, "querying deliveries")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(ds))
}
