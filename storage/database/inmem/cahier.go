package inmemdb

import (
	"context"

	"github.com/trezcool/carnet/core/cahier"
)

type cahierRepository struct {
	db *DB
}

var _ cahier.Repository = (*cahierRepository)(nil)

func NewCahierRepository(db *DB) cahier.Repository {
	return &cahierRepository{db: db}
}

func inspectionField(in cahier.Inspection, field string) interface{} {
	switch field {
	case "id":
		return in.ID
	case "inspection_date":
		return in.InspectionDate
	case "lesson_date":
		return in.LessonDate
	}
	panic("inmemdb: unknown cahiers_inspection column " + field)
}

func cahierField(c cahier.Cahier, field string) interface{} {
	switch field {
	case "id":
		return c.ID
	case "inspection_date":
		return c.InspectionDate
	}
	panic("inmemdb: unknown cahiers column " + field)
}

func lessonField(l cahier.Lesson, field string) interface{} {
	switch field {
	case "id":
		return l.ID
	case "lesson_date":
		return l.LessonDate
	}
	panic("inmemdb: unknown cahiers_uncorrected column " + field)
}

func (repo *cahierRepository) CreateInspection(_ context.Context, in cahier.Inspection) (cahier.Inspection, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	in.ID = repo.db.nextID("cahiers_inspection")
	repo.db.inspections[in.ID] = in
	return in, nil
}

func (repo *cahierRepository) QueryInspections(context.Context) ([]cahier.Inspection, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ins := values(repo.db.inspections)
	sortRows(ins, inspectionField, cahier.InspectionOrdering)
	return ins, nil
}

func (repo *cahierRepository) CreateCahier(_ context.Context, c cahier.Cahier) (cahier.Cahier, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = repo.db.nextID("cahiers")
	lessons := make([]cahier.Lesson, 0, len(c.Uncorrected))
	for _, l := range c.Uncorrected {
		l.ID = repo.db.nextID("cahiers_uncorrected")
		l.CahierID = c.ID
		repo.db.lessons[l.ID] = l
		lessons = append(lessons, l)
	}
	c.Uncorrected = nil
	repo.db.cahiers[c.ID] = c

	c.Uncorrected = lessons
	return c, nil
}

func (repo *cahierRepository) QueryCahiers(context.Context) ([]cahier.Cahier, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	byCahier := make(map[int][]cahier.Lesson)
	for _, l := range repo.db.lessons {
		byCahier[l.CahierID] = append(byCahier[l.CahierID], l)
	}
	cs := values(repo.db.cahiers)
	for i := range cs {
		lessons := byCahier[cs[i].ID]
		if lessons == nil {
			lessons = []cahier.Lesson{}
		}
		sortRows(lessons, lessonField, cahier.LessonOrdering)
		cs[i].Uncorrected = lessons
	}
	sortRows(cs, cahierField, cahier.CahierOrdering)
	return cs, nil
}
