package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/devoir"
	"github.com/trezcool/carnet/core/status"
)

type devoirRow struct {
	ID           int           `db:"id"`
	TeacherName  string        `db:"teacher_name"`
	ClassName    string        `db:"class_name"`
	ThursdayDate calendar.Date `db:"thursday_date"`
	Status       string        `db:"status"`
	SentDate     calendar.Date `db:"sent_date"`
	DaysLate     int           `db:"days_late"`
}

const devoirColumns = "id, teacher_name, class_name, thursday_date, status, sent_date, days_late"

type devoirRepository struct {
	db *sqlx.DB
}

var _ devoir.Repository = (*devoirRepository)(nil)

func NewDevoirRepository(db *sqlx.DB) devoir.Repository {
	return &devoirRepository{db: db}
}

func (repo *devoirRepository) CreateCheck(ctx context.Context, c devoir.Check) (devoir.Check, error) {
	q := `INSERT INTO devoir (teacher_name, class_name, thursday_date, status, sent_date, days_late)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := repo.db.GetContext(ctx, &c.ID, q, c.TeacherName, c.ClassName, c.WeekDate, string(c.Status), c.SentDate, c.DaysLate)
	if err != nil {
		return devoir.Check{}, mapErr(err)
	}
	return c, nil
}

func (repo *devoirRepository) QueryChecks(ctx context.Context, teacherName string) ([]devoir.Check, error) {
	var (
		rows []devoirRow
		err  error
	)
	if teacherName == "" {
		err = repo.db.SelectContext(ctx, &rows, "SELECT "+devoirColumns+" FROM devoir"+orderBy(devoir.Ordering))
	} else {
		err = repo.db.SelectContext(ctx, &rows,
			"SELECT "+devoirColumns+" FROM devoir WHERE teacher_name = $1"+orderBy(devoir.Ordering), teacherName)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	checks := make([]devoir.Check, 0, len(rows))
	for _, r := range rows {
		checks = append(checks, devoir.Check{
			ID:          r.ID,
			TeacherName: r.TeacherName,
			ClassName:   r.ClassName,
			WeekDate:    r.ThursdayDate,
			Status:      status.Devoir(r.Status),
			SentDate:    r.SentDate,
			DaysLate:    r.DaysLate,
		})
	}
	return checks, nil
}
