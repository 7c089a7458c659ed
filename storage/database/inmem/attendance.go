package inmemdb

import (
	"context"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/calendar"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func attendanceField(r attendance.Record, field string) interface{} {
	switch field {
	case "id":
		return r.ID
	case "name":
		return r.TeacherName
	case "date":
		return r.Date
	}
	panic("inmemdb: unknown attendance column " + field)
}

func (repo *attendanceRepository) find(name string, date calendar.Date) (attendance.Record, bool) {
	for _, r := range repo.db.attendance {
		if r.TeacherName == name && r.Date.Equal(date) {
			return r, true
		}
	}
	return attendance.Record{}, false
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, existed := repo.find(rec.TeacherName, rec.Date)
	if existed {
		rec.ID = existing.ID
	} else {
		rec.ID = repo.db.nextID("attendance")
	}
	repo.db.attendance[rec.ID] = rec
	return rec, existed, nil
}

func (repo *attendanceRepository) GetRecord(_ context.Context, name string, date calendar.Date) (attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.find(name, date); ok {
		return r, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryRecordsByDate(_ context.Context, date calendar.Date) ([]attendance.Record, error) {
	return repo.query(func(r attendance.Record) bool { return r.Date.Equal(date) }, attendance.DayOrdering), nil
}

func (repo *attendanceRepository) QueryRecordsByTeacher(_ context.Context, name string) ([]attendance.Record, error) {
	return repo.query(func(r attendance.Record) bool { return r.TeacherName == name }, attendance.HistoryOrdering), nil
}

func (repo *attendanceRepository) query(match func(attendance.Record) bool, orderings []core.DBOrdering) []attendance.Record {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, r := range repo.db.attendance {
		if match(r) {
			recs = append(recs, r)
		}
	}
	sortRows(recs, attendanceField, orderings)
	return recs
}
