package inmemdb

import (
	"context"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/journal"
)

type journalRepository struct {
	db *DB
}

var _ journal.Repository = (*journalRepository)(nil)

func NewJournalRepository(db *DB) journal.Repository {
	return &journalRepository{db: db}
}

func journalField(c journal.Check, field string) interface{} {
	switch field {
	case "id":
		return c.ID
	case "date":
		return c.Date
	case "teacher_name":
		return c.TeacherName
	}
	panic("inmemdb: unknown journal column " + field)
}

func (repo *journalRepository) CreateCheck(_ context.Context, c journal.Check) (journal.Check, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = repo.db.nextID("journal")
	repo.db.journal[c.ID] = c
	return c, nil
}

func (repo *journalRepository) QueryChecks(_ context.Context, date calendar.Date) ([]journal.Check, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	checks := make([]journal.Check, 0, len(repo.db.journal))
	for _, c := range repo.db.journal {
		if date.IsZero() || c.Date.Equal(date) {
			checks = append(checks, c)
		}
	}
	sortRows(checks, journalField, journal.Ordering)
	return checks, nil
}
