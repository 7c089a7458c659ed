package teacher

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/calendar"
)

// Ordering of List: by name.
var Ordering = []core.DBOrdering{{Field: "name", Ascending: true}}

type Teacher struct {
	ID              int           `json:"id"`
	Name            string        `json:"name"`
	FirstDay        calendar.Date `json:"first_day"`
	Subjects        []string      `json:"subjects"`
	AssignedClasses []string      `json:"assigned_classes"`
	Level           string        `json:"level"`
}

// Teaches reports whether class is one of the teacher's assigned classes.
func (t Teacher) Teaches(class string) bool {
	return core.Contains(t.AssignedClasses, class)
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Name            string        `json:"name" validate:"required,notblank"`
	FirstDay        calendar.Date `json:"first_day"`
	Subjects        []string      `json:"subjects"`
	AssignedClasses []string      `json:"assigned_classes"`
	Level           string        `json:"level" validate:"required,notblank"`
}

func (nt *NewTeacher) clean() {
	nt.Name = core.CleanString(nt.Name)
	nt.Level = strings.ToUpper(core.CleanString(nt.Level))
	nt.Subjects = core.CleanList(nt.Subjects)
	nt.AssignedClasses = core.CleanList(nt.AssignedClasses)
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.clean()
	return validate.Struct(nt)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
// Every field is replaced.
type UpdateTeacher struct {
	Name            string        `json:"name" validate:"required,notblank"`
	FirstDay        calendar.Date `json:"first_day"`
	Subjects        []string      `json:"subjects"`
	AssignedClasses []string      `json:"assigned_classes"`
	Level           string        `json:"level" validate:"required,notblank"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate) error {
	ut.Name = core.CleanString(ut.Name)
	ut.Level = strings.ToUpper(core.CleanString(ut.Level))
	ut.Subjects = core.CleanList(ut.Subjects)
	ut.AssignedClasses = core.CleanList(ut.AssignedClasses)
	return validate.Struct(ut)
}

// GetFilter selects a single Teacher, by ID or by Name.
type GetFilter struct {
	ID   int
	Name string
}
