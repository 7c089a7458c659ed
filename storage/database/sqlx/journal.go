package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/journal"
	"github.com/trezcool/carnet/core/status"
)

type journalRow struct {
	ID           int           `db:"id"`
	TeacherName  string        `db:"teacher_name"`
	Date         calendar.Date `db:"date"`
	Status       string        `db:"status"`
	Observation  null.String   `db:"observation"`
	OutdatedDays int           `db:"outdated_days"`
}

const journalColumns = "id, teacher_name, date, status, observation, outdated_days"

type journalRepository struct {
	db *sqlx.DB
}

var _ journal.Repository = (*journalRepository)(nil)

func NewJournalRepository(db *sqlx.DB) journal.Repository {
	return &journalRepository{db: db}
}

func (repo *journalRepository) CreateCheck(ctx context.Context, c journal.Check) (journal.Check, error) {
	q := `INSERT INTO journal (teacher_name, date, status, observation, outdated_days)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.GetContext(ctx, &c.ID, q,
		c.TeacherName, c.Date, string(c.Status), null.NewString(c.Observation, c.Observation != ""), c.OutdatedDays)
	if err != nil {
		return journal.Check{}, mapErr(err)
	}
	return c, nil
}

func (repo *journalRepository) QueryChecks(ctx context.Context, date calendar.Date) ([]journal.Check, error) {
	var (
		rows []journalRow
		err  error
	)
	if date.IsZero() {
		err = repo.db.SelectContext(ctx, &rows, "SELECT "+journalColumns+" FROM journal"+orderBy(journal.Ordering))
	} else {
		err = repo.db.SelectContext(ctx, &rows, "SELECT "+journalColumns+" FROM journal WHERE date = $1"+orderBy(journal.Ordering), date)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	checks := make([]journal.Check, 0, len(rows))
	for _, r := range rows {
		checks = append(checks, journal.Check{
			ID:           r.ID,
			TeacherName:  r.TeacherName,
			Date:         r.Date,
			Status:       status.Journal(r.Status),
			Observation:  r.Observation.String,
			OutdatedDays: r.OutdatedDays,
		})
	}
	return checks, nil
}
