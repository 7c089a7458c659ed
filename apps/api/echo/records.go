package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/cahier"
	"github.com/trezcool/carnet/core/journal"
	"github.com/trezcool/carnet/core/material"
)

// Journal, cahier and material records are append-only: create and list.

type journalApi struct {
	svc *journal.Service
}

func registerJournalAPI(g *echo.Group, svc *journal.Service) {
	api := journalApi{svc: svc}

	jg := g.Group("/journal")
	jg.POST("", api.create)
	jg.GET("", api.query)
}

func (api *journalApi) create(ctx echo.Context) error {
	var data journal.NewCheck
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCheck")
	}
	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating journal check")
	}
	return ctx.JSON(http.StatusCreated, c)
}

// query lists every check, only those of ?date when given.
func (api *journalApi) query(ctx echo.Context) error {
	var filter DateFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to DateFilter")
	}
	checks, err := api.svc.List(ctx.Request().Context(), filter.Date)
	if err != nil {
		return errors.Wrap(err, "querying journal checks")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(checks))
}

type cahierApi struct {
	svc *cahier.Service
}

func registerCahierAPI(g *echo.Group, svc *cahier.Service) {
	api := cahierApi{svc: svc}

	ig := g.Group("/inspections")
	ig.POST("", api.createInspection)
	ig.GET("", api.queryInspections)

	cg := g.Group("/cahiers")
	cg.POST("", api.createCahier)
	cg.GET("", api.queryCahiers)
}

func (api *cahierApi) createInspection(ctx echo.Context) error {
	var data cahier.NewInspection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInspection")
	}
	insp, err := api.svc.CreateInspection(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating inspection")
	}
	return ctx.JSON(http.StatusCreated, insp)
}

func (api *cahierApi) queryInspections(ctx echo.Context) error {
	insps, err := api.svc.ListInspections(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying inspections")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(insps))
}

func (api *cahierApi) createCahier(ctx echo.Context) error {
	var data cahier.NewCahier
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCahier")
	}
	c, err := api.svc.CreateCahier(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating cahier")
	}
	c.Uncorrected = emptyIfNil(c.Uncorrected)
	return ctx.JSON(http.StatusCreated, c)
}

func (api *cahierApi) queryCahiers(ctx echo.Context) error {
	cahiers, err := api.svc.ListCahiers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying cahiers")
	}
	for i := range cahiers {
		cahiers[i].Uncorrected = emptyIfNil(cahiers[i].Uncorrected)
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(cahiers))
}

type materialApi struct {
	svc *material.Service
}

func registerMaterialAPI(g *echo.Group, svc *material.Service) {
	api := materialApi{svc: svc}

	mg := g.Group("/materials")
	mg.POST("", api.create)
	mg.GET("", api.query)
}

func (api *materialApi) create(ctx echo.Context) error {
	var data material.NewDistribution
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDistribution")
	}
	d, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating distribution")
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api *materialApi) query(ctx echo.Context) error {
	dists, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying distributions")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(dists))
}
