package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/teacher"
)

type teacherRow struct {
	ID              int            `db:"id"`
	Name            string         `db:"name"`
	FirstDay        calendar.Date  `db:"first_day"`
	Subjects        pq.StringArray `db:"subjects"`
	AssignedClasses pq.StringArray `db:"assigned_classes"`
	Level           string         `db:"level"`
}

func (r teacherRow) teacher() teacher.Teacher {
	return teacher.Teacher{
		ID:              r.ID,
		Name:            r.Name,
		FirstDay:        r.FirstDay,
		Subjects:        nonNil(r.Subjects),
		AssignedClasses: nonNil(r.AssignedClasses),
		Level:           r.Level,
	}
}

const teacherColumns = "id, name, first_day, subjects, assigned_classes, level"

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

// uniqueErr maps the teachers unique constraints to the teacher errors.
func (repo *teacherRepository) uniqueErr(err error) error {
	switch {
	case violates(err, pqUniqueViolation, "teachers_name_key"):
		return teacher.ErrNameExists
	case violates(err, pqUniqueViolation, "teachers_level_key"):
		return teacher.ErrLevelExists
	}
	return mapErr(err)
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	q := `INSERT INTO teachers (name, first_day, subjects, assigned_classes, level)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.GetContext(ctx, &t.ID, q,
		t.Name, t.FirstDay, pq.StringArray(nonNil(t.Subjects)), pq.StringArray(nonNil(t.AssignedClasses)), t.Level)
	if err != nil {
		return teacher.Teacher{}, repo.uniqueErr(err)
	}
	return t, nil
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+teacherColumns+" FROM teachers"+orderBy(teacher.Ordering)); err != nil {
		return nil, mapErr(err)
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.teacher())
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(ctx context.Context, filter teacher.GetFilter) (teacher.Teacher, error) {
	var (
		row teacherRow
		err error
	)
	if filter.ID != 0 {
		err = repo.db.GetContext(ctx, &row, "SELECT "+teacherColumns+" FROM teachers WHERE id = $1", filter.ID)
	} else {
		err = repo.db.GetContext(ctx, &row, "SELECT "+teacherColumns+" FROM teachers WHERE name = $1", filter.Name)
	}
	if err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, teacher.ErrNotFound)
	}
	return row.teacher(), nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	q := `UPDATE teachers SET name = $1, first_day = $2, subjects = $3, assigned_classes = $4, level = $5
		WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, q,
		t.Name, t.FirstDay, pq.StringArray(nonNil(t.Subjects)), pq.StringArray(nonNil(t.AssignedClasses)), t.Level, t.ID)
	if err != nil {
		return teacher.Teacher{}, repo.uniqueErr(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return teacher.Teacher{}, mapErr(err)
	} else if n == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id int) error {
	return deleteWhere(ctx, repo.db, "teachers", "id", id, teacher.ErrNotFound)
}

func (repo *teacherRepository) NameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	return repo.exists(ctx, "name", name, excludeID)
}

func (repo *teacherRepository) LevelExists(ctx context.Context, level string, excludeID int) (bool, error) {
	return repo.exists(ctx, "level", level, excludeID)
}

func (repo *teacherRepository) exists(ctx context.Context, column, value string, excludeID int) (bool, error) {
	var found bool
	q := "SELECT EXISTS (SELECT 1 FROM teachers WHERE " + column + " = $1 AND id <> $2)"
	if err := repo.db.GetContext(ctx, &found, q, value, excludeID); err != nil {
		return false, mapErr(err)
	}
	return found, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
