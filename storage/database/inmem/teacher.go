package inmemdb

import (
	"context"

	"github.com/trezcool/carnet/core/teacher"
)

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func teacherField(t teacher.Teacher, field string) interface{} {
	switch field {
	case "id":
		return t.ID
	case "name":
		return t.Name
	case "level":
		return t.Level
	case "first_day":
		return t.FirstDay
	}
	panic("inmemdb: unknown teachers column " + field)
}

func cloneTeacher(t teacher.Teacher) teacher.Teacher {
	t.Subjects = copyStrings(t.Subjects)
	t.AssignedClasses = copyStrings(t.AssignedClasses)
	return t
}

// checkUnique mimics the UNIQUE(name) and UNIQUE(level) constraints. Callers hold the lock.
func (repo *teacherRepository) checkUnique(t teacher.Teacher) error {
	for _, other := range repo.db.teachers {
		if other.ID == t.ID {
			continue
		}
		if other.Name == t.Name {
			return teacher.ErrNameExists
		}
		if other.Level == t.Level {
			return teacher.ErrLevelExists
		}
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = 0
	if err := repo.checkUnique(t); err != nil {
		return teacher.Teacher{}, err
	}
	t.ID = repo.db.nextID("teachers")
	repo.db.teachers[t.ID] = cloneTeacher(t)
	return t, nil
}

func (repo *teacherRepository) QueryTeachers(context.Context) ([]teacher.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		teachers = append(teachers, cloneTeacher(t))
	}
	sortRows(teachers, teacherField, teacher.Ordering)
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(_ context.Context, filter teacher.GetFilter) (teacher.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.ID != 0 {
		if t, ok := repo.db.teachers[filter.ID]; ok {
			return cloneTeacher(t), nil
		}
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	for _, t := range repo.db.teachers {
		if t.Name == filter.Name {
			return cloneTeacher(t), nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[t.ID]; !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	if err := repo.checkUnique(t); err != nil {
		return teacher.Teacher{}, err
	}
	repo.db.teachers[t.ID] = cloneTeacher(t)
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return teacher.ErrNotFound
	}
	delete(repo.db.teachers, id)
	return nil
}

func (repo *teacherRepository) NameExists(_ context.Context, name string, excludeID int) (bool, error) {
	return repo.exists(func(t teacher.Teacher) bool { return t.Name == name }, excludeID), nil
}

func (repo *teacherRepository) LevelExists(_ context.Context, level string, excludeID int) (bool, error) {
	return repo.exists(func(t teacher.Teacher) bool { return t.Level == level }, excludeID), nil
}

func (repo *teacherRepository) exists(match func(teacher.Teacher) bool, excludeID int) bool {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.db.teachers {
		if t.ID != excludeID && match(t) {
			return true
		}
	}
	return false
}
