package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/teacher"
)

type teacherApi struct {
	svc        *teacher.Service
	attendance *attendance.Service
}

func registerTeacherAPI(g *echo.Group, svc *teacher.Service, attendanceSvc *attendance.Service) {
	api := teacherApi{svc: svc, attendance: attendanceSvc}

	tg := g.Group("/teachers")
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/level-available", api.levelAvailable)

	// detail endpoints
	dg := tg.Group("/:id", objectMiddleware(svc.GetByID))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/attendance", api.attendanceHistory)
}

type LevelQuery struct {
	Level     string `query:"level"`
	ExcludeID int    `query:"exclude_id"`
}

func (api *teacherApi) query(ctx echo.Context) error {
	teachers, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(teachers))
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teacherApi) levelAvailable(ctx echo.Context) error {
	var q LevelQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to LevelQuery")
	}
	unique, err := api.svc.IsLevelUnique(ctx.Request().Context(), q.Level, q.ExcludeID)
	if err != nil {
		return errors.Wrap(err, "checking level")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"available": unique})
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	t, err := contextObject[teacher.Teacher](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) update(ctx echo.Context) error {
	t, err := contextObject[teacher.Teacher](ctx)
	if err != nil {
		return err
	}
	var data teacher.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	t, err = api.svc.Update(ctx.Request().Context(), t.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	t, err := contextObject[teacher.Teacher](ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), t.ID); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *teacherApi) attendanceHistory(ctx echo.Context) error {
	t, err := contextObject[teacher.Teacher](ctx)
	if err != nil {
		return err
	}
	recs, err := api.attendance.History(ctx.Request().Context(), t.Name)
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	return ctx.JSON(http.StatusOK, emptyIfNil(recs))
}
