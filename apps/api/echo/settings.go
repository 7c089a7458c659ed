package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/settings"
)

type settingsApi struct {
	svc *settings.Service
}

func registerSettingsAPI(g *echo.Group, svc *settings.Service) {
	api := settingsApi{svc: svc}

	sg := g.Group("/settings")
	sg.GET("", api.retrieve)
	sg.PUT("", api.update)
	sg.POST("/reset", api.reset)
}

func (api *settingsApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.Load(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading settings")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *settingsApi) update(ctx echo.Context) error {
	var data settings.Settings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Settings")
	}
	s, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *settingsApi) reset(ctx echo.Context) error {
	s, err := api.svc.Reset(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "resetting settings")
	}
	return ctx.JSON(http.StatusOK, s)
}
