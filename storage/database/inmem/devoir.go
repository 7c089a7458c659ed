package inmemdb

import (
	"context"

	"github.com/trezcool/carnet/core/devoir"
)

type devoirRepository struct {
	db *DB
}

var _ devoir.Repository = (*devoirRepository)(nil)

func NewDevoirRepository(db *DB) devoir.Repository {
	return &devoirRepository{db: db}
}

func devoirField(c devoir.Check, field string) interface{} {
	switch field {
	case "id":
		return c.ID
	case "thursday_date":
		return c.WeekDate
	case "teacher_name":
		return c.TeacherName
	}
	panic("inmemdb: unknown devoir column " + field)
}

func (repo *devoirRepository) CreateCheck(_ context.Context, c devoir.Check) (devoir.Check, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = repo.db.nextID("devoir")
	repo.db.devoirs[c.ID] = c
	return c, nil
}

func (repo *devoirRepository) QueryChecks(_ context.Context, teacherName string) ([]devoir.Check, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	checks := make([]devoir.Check, 0, len(repo.db.devoirs))
	for _, c := range repo.db.devoirs {
		if teacherName == "" || c.TeacherName == teacherName {
			checks = append(checks, c)
		}
	}
	sortRows(checks, devoirField, devoir.Ordering)
	return checks, nil
}
