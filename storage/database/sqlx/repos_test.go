package sqlxrepos

import (
	"context"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/cahier"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/rapport"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/core/teacher"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func sqlRe(q string) string {
	return regexp.QuoteMeta(q)
}

var day = calendar.New(2024, time.May, 2)

func TestMapErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505", Constraint: "attendance_name_date_key"}, want: core.ErrDuplicateKey},
		{name: "connection failure", err: &pq.Error{Code: "08006", Message: "connection failure"}, want: core.ErrStorageUnavailable},
		{name: "network error", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, want: core.ErrStorageUnavailable},
		{name: "other errors pass through", err: &pq.Error{Code: "42P01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErr(tt.err)
			if tt.want == nil {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.Equal(t, tt.want, errors.Cause(got))
		})
	}
	assert.Nil(t, mapErr(nil))
}

func TestTeacherRepository(t *testing.T) {
	ctx := context.Background()
	insert := sqlRe("INSERT INTO teachers (name, first_day, subjects, assigned_classes, level)")

	t.Run("create", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(insert).
			WithArgs("Amina", "2024-05-02", sqlmock.AnyArg(), sqlmock.AnyArg(), "1A").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		got, err := NewTeacherRepository(db).CreateTeacher(ctx, teacher.Teacher{Name: "Amina", FirstDay: day, Level: "1A"})
		require.NoError(t, err)
		assert.Equal(t, 7, got.ID)
	})

	t.Run("unique violations map to teacher errors", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(insert).WillReturnError(&pq.Error{Code: "23505", Constraint: "teachers_name_key"})
		mock.ExpectQuery(insert).WillReturnError(&pq.Error{Code: "23505", Constraint: "teachers_level_key"})

		repo := NewTeacherRepository(db)
		_, err := repo.CreateTeacher(ctx, teacher.Teacher{Name: "Amina", Level: "1A"})
		assert.Equal(t, teacher.ErrNameExists, err)
		_, err = repo.CreateTeacher(ctx, teacher.Teacher{Name: "Bilal", Level: "1A"})
		assert.Equal(t, teacher.ErrLevelExists, err)
	})

	t.Run("query is ordered by name", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(sqlRe("SELECT id, name, first_day, subjects, assigned_classes, level FROM teachers ORDER BY name ASC")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "first_day", "subjects", "assigned_classes", "level"}).
				AddRow(2, "Amina", "2023-09-04", "{French,Maths}", "{CP}", "1A").
				AddRow(1, "Bilal", nil, "{}", "{}", "2A"))

		got, err := NewTeacherRepository(db).QueryTeachers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []teacher.Teacher{
			{ID: 2, Name: "Amina", FirstDay: calendar.New(2023, time.September, 4), Subjects: []string{"French", "Maths"}, AssignedClasses: []string{"CP"}, Level: "1A"},
			{ID: 1, Name: "Bilal", Subjects: []string{}, AssignedClasses: []string{}, Level: "2A"},
		}, got)
	})

	t.Run("get unknown", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(sqlRe("FROM teachers WHERE name = $1")).
			WithArgs("Nobody").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewTeacherRepository(db).GetTeacher(ctx, teacher.GetFilter{Name: "Nobody"})
		assert.Equal(t, teacher.ErrNotFound, err)
	})

	t.Run("level exists excludes the given teacher", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(sqlRe("SELECT EXISTS (SELECT 1 FROM teachers WHERE level = $1 AND id <> $2)")).
			WithArgs("1A", 3).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		found, err := NewTeacherRepository(db).LevelExists(ctx, "1A", 3)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("database down", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(sqlRe("DELETE FROM teachers WHERE id = $1")).
			WithArgs(1).
			WillReturnError(&pq.Error{Code: "08001"})

		err := NewTeacherRepository(db).DeleteTeacher(ctx, 1)
		assert.Equal(t, core.ErrStorageUnavailable, errors.Cause(err))
	})
}

func TestAttendanceRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	q := sqlRe("ON CONFLICT (name, date) DO UPDATE SET time = EXCLUDED.time, status = EXCLUDED.status")
	mock.ExpectQuery(q).
		WithArgs("Amina", "2024-05-02", "08:15", "Present").
		WillReturnRows(sqlmock.NewRows([]string{"id", "existed"}).AddRow(1, false))
	mock.ExpectQuery(q).
		WithArgs("Amina", "2024-05-02", nil, "Unsigned").
		WillReturnRows(sqlmock.NewRows([]string{"id", "existed"}).AddRow(1, true))

	repo := NewAttendanceRepository(db)
	rec, existed, err := repo.UpsertRecord(ctx, attendance.Record{TeacherName: "Amina", Date: day, Time: "08:15", Status: status.Present})
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, 1, rec.ID)

	rec, existed, err = repo.UpsertRecord(ctx, attendance.Record{TeacherName: "Amina", Date: day, Status: status.Unsigned})
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, 1, rec.ID)
}

func TestDeleteWhere(t *testing.T) {
	ctx := context.Background()
	errGone := errors.New("gone")
	q := sqlRe("DELETE FROM rapports WHERE id = $1")

	tests := []struct {
		name     string
		inTx     bool
		affected int64
		notFound error
		want     error
	}{
		{name: "db", affected: 1, notFound: errGone},
		{name: "db, nothing deleted", affected: 0, notFound: errGone, want: errGone},
		{name: "tx", inTx: true, affected: 1, notFound: errGone},
		{name: "tx, nothing deleted is fine without a not found error", inTx: true, affected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			var exec core.DBExecutor = db
			if tt.inTx {
				mock.ExpectBegin()
				tx, err := db.Beginx()
				require.NoError(t, err)
				exec = tx
				defer func() {
					mock.ExpectRollback()
					assert.NoError(t, tx.Rollback())
				}()
			}
			mock.ExpectExec(q).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, tt.affected))

			assert.Equal(t, tt.want, deleteWhere(ctx, exec, "rapports", "id", 7, tt.notFound))
		})
	}
}

func TestInsertLessons(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	mock.ExpectQuery(sqlRe("INSERT INTO cahiers_uncorrected (cahier_id, lesson_date, module, title) VALUES ($1, $2, $3, $4) RETURNING id")).
		WithArgs(5, "2024-05-01", "Math", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	got, err := insertLessons(ctx, db, 5, []cahier.Lesson{{LessonDate: day.AddDays(-1), Module: "Math"}})
	require.NoError(t, err)
	assert.Equal(t, []cahier.Lesson{{ID: 12, CahierID: 5, LessonDate: day.AddDays(-1), Module: "Math"}}, got)

	got, err = insertLessons(ctx, db, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRapportRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deliveries go in the same transaction", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlRe("DELETE FROM rapport_deliveries WHERE rapport_id = $1")).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(sqlRe("DELETE FROM rapports WHERE id = $1")).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewRapportRepository(db).DeleteRapport(ctx, 4))
	})

	t.Run("unknown rapport rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlRe("DELETE FROM rapport_deliveries WHERE rapport_id = $1")).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(sqlRe("DELETE FROM rapports WHERE id = $1")).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.Equal(t, rapport.ErrNotFound, NewRapportRepository(db).DeleteRapport(ctx, 4))
	})

	t.Run("failure rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(sqlRe("DELETE FROM rapport_deliveries WHERE rapport_id = $1")).WithArgs(4).WillReturnError(&pq.Error{Code: "08006"})
		mock.ExpectRollback()

		err := NewRapportRepository(db).DeleteRapport(ctx, 4)
		assert.Equal(t, core.ErrStorageUnavailable, errors.Cause(err))
	})
}

func TestRapportRepository_Deliveries(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	mock.ExpectQuery(sqlRe("WHERE teacher_name = $1 ORDER BY due_date DESC, delivered_day ASC, id ASC")).
		WithArgs("Amina").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "rapport_id", "teacher_name", "delivered_day", "delivered_classes", "days_late", "rapport_title", "due_date",
		}).AddRow(5, 2, "Amina", "2024-06-04", "{CP,CE1}", 3, "Bilan", "2024-06-01"))

	got, err := NewRapportRepository(db).QueryDeliveries(ctx, "Amina")
	require.NoError(t, err)
	assert.Equal(t, []rapport.Delivery{{
		ID:               5,
		RapportID:        2,
		TeacherName:      "Amina",
		DeliveredDay:     calendar.New(2024, time.June, 4),
		DeliveredClasses: []string{"CP", "CE1"},
		DaysLate:         3,
		RapportTitle:     "Bilan",
		DueDate:          calendar.New(2024, time.June, 1),
	}}, got)

	mock.ExpectQuery(sqlRe("INSERT INTO rapport_deliveries")).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "rapport_deliveries_rapport_id_fkey"})
	_, err = NewRapportRepository(db).CreateDelivery(ctx, rapport.Delivery{RapportID: 99, TeacherName: "Amina", DeliveredDay: day})
	assert.Equal(t, rapport.ErrNotFound, err)
}

func TestCahierRepository_CreateCahier(t *testing.T) {
	ctx := context.Background()
	c := cahier.Cahier{
		TeacherName:    "Amina",
		InspectionDate: day,
		Uncorrected: []cahier.Lesson{
			{LessonDate: day.AddDays(-3), Module: "Math", Title: "Fractions"},
			{LessonDate: day.AddDays(-1), Module: "Arabic"},
		},
	}
	insertCahier := sqlRe("INSERT INTO cahiers")
	insertLesson := sqlRe("INSERT INTO cahiers_uncorrected (cahier_id, lesson_date, module, title)")

	t.Run("cahier and lessons are committed together", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insertCahier).
			WithArgs("Amina", "2024-05-02", nil, nil, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectQuery(insertLesson).
			WithArgs(3, "2024-04-29", "Math", "Fractions").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
		mock.ExpectQuery(insertLesson).
			WithArgs(3, "2024-05-01", "Arabic", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectCommit()

		got, err := NewCahierRepository(db).CreateCahier(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, 3, got.ID)
		require.Len(t, got.Uncorrected, 2)
		assert.Equal(t, cahier.Lesson{ID: 11, CahierID: 3, LessonDate: day.AddDays(-1), Module: "Arabic"}, got.Uncorrected[1])
	})

	t.Run("a failing lesson leaves nothing behind", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insertCahier).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectQuery(insertLesson).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
		mock.ExpectQuery(insertLesson).WillReturnError(&pq.Error{Code: "08006"})
		mock.ExpectRollback()

		_, err := NewCahierRepository(db).CreateCahier(ctx, c)
		assert.Equal(t, core.ErrStorageUnavailable, errors.Cause(err))
	})
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	q := sqlRe("INSERT INTO settings (key, value) VALUES ($1, $2::jsonb)")
	mock.ExpectBegin()
	mock.ExpectExec(q).WithArgs("classes", `["CP"]`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("levels", `["1A"]`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(sqlRe("SELECT key, value FROM settings")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("classes", []byte(`["CP"]`)))

	repo := NewSettingsRepository(db)
	require.NoError(t, repo.SaveSettings(ctx, map[string][]byte{"levels": []byte(`["1A"]`), "classes": []byte(`["CP"]`)}))

	vals, err := repo.QuerySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"classes": []byte(`["CP"]`)}, vals)
}
