package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/carnet/core/calendar"
)

type (
	// DateFilter binds the optional ?date=YYYY-MM-DD query parameter.
	DateFilter struct {
		Date calendar.Date `query:"date"`
	}

	// TeacherFilter binds the optional ?teacher= query parameter.
	TeacherFilter struct {
		Teacher string `query:"teacher"`
	}
)

// idParam parses the :id path parameter. Anything but a positive integer matches no record.
func idParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// emptyIfNil makes empty lists encode as [] rather than null.
func emptyIfNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
