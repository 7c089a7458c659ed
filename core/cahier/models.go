package cahier

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/calendar"
)

var (
	// Ordering of inspections and cahiers: latest inspection first.
	InspectionOrdering = []core.DBOrdering{{Field: "inspection_date"}, {Field: "id"}}
	CahierOrdering     = []core.DBOrdering{{Field: "inspection_date"}, {Field: "id"}}
	// Ordering of the uncorrected lessons within a cahier: in entry order.
	LessonOrdering = []core.DBOrdering{{Field: "id", Ascending: true}}
)

// Inspection is a single lesson checked in a teacher's notebook.
type Inspection struct {
	ID             int           `json:"id"`
	TeacherName    string        `json:"teacher_name"`
	InspectionDate calendar.Date `json:"inspection_date"`
	Module         string        `json:"module"`
	Submodule      string        `json:"submodule"`
	Title          string        `json:"title"`
	LessonDate     calendar.Date `json:"lesson_date"`
	// DaysDifference is InspectionDate - LessonDate, negative for lessons inspected in advance.
	DaysDifference int `json:"days_difference"`
}

type NewInspection struct {
	TeacherName    string        `json:"teacher_name" validate:"required,notblank"`
	InspectionDate calendar.Date `json:"inspection_date" validate:"required"`
	Module         string        `json:"module" validate:"required,notblank"`
	Submodule      string        `json:"submodule"`
	Title          string        `json:"title"`
	LessonDate     calendar.Date `json:"lesson_date" validate:"required"`
}

func (ni *NewInspection) Validate(validate *validator.Validate) error {
	ni.TeacherName = core.CleanString(ni.TeacherName)
	ni.Module = core.CleanString(ni.Module)
	ni.Submodule = core.CleanString(ni.Submodule)
	ni.Title = core.CleanString(ni.Title)
	return validate.Struct(ni)
}

// Cahier is a notebook review: the last corrected lesson and the lessons left uncorrected since.
type Cahier struct {
	ID                  int           `json:"id"`
	TeacherName         string        `json:"teacher_name"`
	InspectionDate      calendar.Date `json:"inspection_date"`
	LastCorrectedDate   calendar.Date `json:"last_corrected_date"`
	LastCorrectedModule string        `json:"last_corrected_module"`
	LastCorrectedTitle  string        `json:"last_corrected_title"`
	Observation         string        `json:"observation"`
	Uncorrected         []Lesson      `json:"uncorrected"`
}

type Lesson struct {
	ID         int           `json:"id"`
	CahierID   int           `json:"cahier_id"`
	LessonDate calendar.Date `json:"lesson_date" validate:"required"`
	Module     string        `json:"module"`
	Title      string        `json:"title"`
}

type NewCahier struct {
	TeacherName         string        `json:"teacher_name" validate:"required,notblank"`
	InspectionDate      calendar.Date `json:"inspection_date" validate:"required"`
	LastCorrectedDate   calendar.Date `json:"last_corrected_date"`
	LastCorrectedModule string        `json:"last_corrected_module"`
	LastCorrectedTitle  string        `json:"last_corrected_title"`
	Observation         string        `json:"observation"`
	Uncorrected         []Lesson      `json:"uncorrected" validate:"dive"`
}

func (nc *NewCahier) Validate(validate *validator.Validate) error {
	nc.TeacherName = core.CleanString(nc.TeacherName)
	nc.LastCorrectedModule = core.CleanString(nc.LastCorrectedModule)
	nc.LastCorrectedTitle = core.CleanString(nc.LastCorrectedTitle)
	nc.Observation = core.CleanString(nc.Observation)
	for i := range nc.Uncorrected {
		nc.Uncorrected[i].ID, nc.Uncorrected[i].CahierID = 0, 0
		nc.Uncorrected[i].Module = core.CleanString(nc.Uncorrected[i].Module)
		nc.Uncorrected[i].Title = core.CleanString(nc.Uncorrected[i].Title)
	}
	return validate.Struct(nc)
}
