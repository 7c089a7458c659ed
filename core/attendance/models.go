package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/status"
)

var (
	// Ordering of a day's records.
	DayOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}
	// Ordering of a single teacher's history.
	HistoryOrdering = []core.DBOrdering{{Field: "date", Ascending: true}}
)

// Record is the attendance of one teacher on one day. (TeacherName, Date) is unique.
type Record struct {
	ID          int               `json:"id"`
	TeacherName string            `json:"name"`
	Date        calendar.Date     `json:"date"`
	Time        string            `json:"time"` // HH:MM; empty for Absent and Unsigned
	Status      status.Attendance `json:"status"`
}

// SaveRecord is what the sign-in form submits.
// Exactly one path is taken: Absent, else Unsigned, else Time is classified against the cutoff.
type SaveRecord struct {
	TeacherName string        `json:"name" validate:"required,notblank"`
	Date        calendar.Date `json:"date" validate:"required"`
	Time        string        `json:"time"`
	Unsigned    bool          `json:"unsigned"`
	Absent      bool          `json:"absent"`
}

func (sr *SaveRecord) Validate(validate *validator.Validate) error {
	sr.TeacherName = core.CleanString(sr.TeacherName)
	sr.Time = core.CleanString(sr.Time)
	return validate.Struct(sr)
}

// Saved is the outcome of a save: the stored row, and whether it replaced an earlier one.
type Saved struct {
	Record      Record `json:"record"`
	Overwritten bool   `json:"overwritten"`
}
