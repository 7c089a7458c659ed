package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/status"
)

type attendanceRow struct {
	ID     int           `db:"id"`
	Name   string        `db:"name"`
	Date   calendar.Date `db:"date"`
	Time   null.String   `db:"time"`
	Status string        `db:"status"`
}

func (r attendanceRow) record() attendance.Record {
	return attendance.Record{
		ID:          r.ID,
		TeacherName: r.Name,
		Date:        r.Date,
		Time:        r.Time.String,
		Status:      status.Attendance(r.Status),
	}
}

const attendanceColumns = "id, name, date, time, status"

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// UpsertRecord relies on xmax being set on rows rewritten by ON CONFLICT DO UPDATE.
func (repo *attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	q := `INSERT INTO attendance (name, date, time, status) VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, date) DO UPDATE SET time = EXCLUDED.time, status = EXCLUDED.status
		RETURNING id, (xmax <> 0) AS existed`
	var res struct {
		ID      int  `db:"id"`
		Existed bool `db:"existed"`
	}
	err := repo.db.GetContext(ctx, &res, q, rec.TeacherName, rec.Date, null.NewString(rec.Time, rec.Time != ""), string(rec.Status))
	if err != nil {
		return attendance.Record{}, false, mapErr(err)
	}
	rec.ID = res.ID
	return rec, res.Existed, nil
}

func (repo *attendanceRepository) GetRecord(ctx context.Context, name string, date calendar.Date) (attendance.Record, error) {
	var row attendanceRow
	q := "SELECT " + attendanceColumns + " FROM attendance WHERE name = $1 AND date = $2"
	if err := repo.db.GetContext(ctx, &row, q, name, date); err != nil {
		return attendance.Record{}, trapNoRowsErr(err, attendance.ErrNotFound)
	}
	return row.record(), nil
}

func (repo *attendanceRepository) QueryRecordsByDate(ctx context.Context, date calendar.Date) ([]attendance.Record, error) {
	return repo.query(ctx, "date = $1", date, attendance.DayOrdering)
}

func (repo *attendanceRepository) QueryRecordsByTeacher(ctx context.Context, name string) ([]attendance.Record, error) {
	return repo.query(ctx, "name = $1", name, attendance.HistoryOrdering)
}

func (repo *attendanceRepository) query(ctx context.Context, where string, arg interface{}, orderings []core.DBOrdering) ([]attendance.Record, error) {
	var rows []attendanceRow
	q := "SELECT " + attendanceColumns + " FROM attendance WHERE " + where + orderBy(orderings)
	if err := repo.db.SelectContext(ctx, &rows, q, arg); err != nil {
		return nil, mapErr(err)
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.record())
	}
	return recs, nil
}
