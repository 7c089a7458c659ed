package rapport

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/calendar"
)

var (
	Ordering         = []core.DBOrdering{{Field: "due_date"}, {Field: "id"}}
	DeliveryOrdering = []core.DBOrdering{{Field: "due_date"}, {Field: "delivered_day", Ascending: true}, {Field: "id", Ascending: true}}
)

// Rapport is a report teachers must hand in, per class, by DueDate.
type Rapport struct {
	ID      int           `json:"id"`
	Title   string        `json:"title"`
	DueDate calendar.Date `json:"due_date"`
	Classes []string      `json:"classes"`
}

type NewRapport struct {
	Title   string        `json:"title" validate:"required,notblank"`
	DueDate calendar.Date `json:"due_date" validate:"required"`
	Classes []string      `json:"classes" validate:"required,min=1"`
}

func (nr *NewRapport) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Classes = core.CleanList(nr.Classes)
	return validate.Struct(nr)
}

// UpdateRapport replaces every field of a Rapport.
type UpdateRapport = NewRapport

type Delivery struct {
	ID               int           `json:"id"`
	RapportID        int           `json:"rapport_id"`
	TeacherName      string        `json:"teacher_name"`
	DeliveredDay     calendar.Date `json:"delivered_day"`
	DeliveredClasses []string      `json:"delivered_classes"`
	DaysLate         int           `json:"days_late"`

	// from the rapport, filled when listing
	RapportTitle string        `json:"rapport_title,omitempty"`
	DueDate      calendar.Date `json:"due_date"`
}

type NewDelivery struct {
	TeacherName      string        `json:"teacher_name" validate:"required,notblank"`
	DeliveredDay     calendar.Date `json:"delivered_day" validate:"required"`
	DeliveredClasses []string      `json:"delivered_classes" validate:"required,min=1"`
}

func (nd *NewDelivery) Validate(validate *validator.Validate) error {
	nd.TeacherName = core.CleanString(nd.TeacherName)
	nd.DeliveredClasses = core.CleanList(nd.DeliveredClasses)
	return validate.Struct(nd)
}
