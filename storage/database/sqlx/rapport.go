package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/rapport"
)

type (
	rapportRow struct {
		ID      int            `db:"id"`
		Title   string         `db:"title"`
		DueDate calendar.Date  `db:"due_date"`
		Classes pq.StringArray `db:"classes"`
	}

	deliveryRow struct {
		ID               int            `db:"id"`
		RapportID        int            `db:"rapport_id"`
		TeacherName      string         `db:"teacher_name"`
		DeliveredDay     calendar.Date  `db:"delivered_day"`
		DeliveredClasses pq.StringArray `db:"delivered_classes"`
		DaysLate         int            `db:"days_late"`
		RapportTitle     string         `db:"rapport_title"`
		DueDate          calendar.Date  `db:"due_date"`
	}
)

func (r rapportRow) rapport() rapport.Rapport {
	return rapport.Rapport{ID: r.ID, Title: r.Title, DueDate: r.DueDate, Classes: nonNil(r.Classes)}
}

const (
	rapportColumns = "id, title, due_date, classes"

	// deliveries joined with their rapport, wrapped so that orderings apply to plain column names
	deliveriesQuery = `SELECT * FROM (
		SELECT d.id, d.rapport_id, d.teacher_name, d.delivered_day, d.delivered_classes, d.days_late,
			r.title AS rapport_title, r.due_date
		FROM rapport_deliveries d JOIN rapports r ON r.id = d.rapport_id
	) AS deliveries`
)

type rapportRepository struct {
	db *sqlx.DB
}

var _ rapport.Repository = (*rapportRepository)(nil)

func NewRapportRepository(db *sqlx.DB) rapport.Repository {
	return &rapportRepository{db: db}
}

func (repo *rapportRepository) CreateRapport(ctx context.Context, r rapport.Rapport) (rapport.Rapport, error) {
	q := "INSERT INTO rapports (title, due_date, classes) VALUES ($1, $2, $3) RETURNING id"
	if err := repo.db.GetContext(ctx, &r.ID, q, r.Title, r.DueDate, pq.StringArray(nonNil(r.Classes))); err != nil {
		return rapport.Rapport{}, mapErr(err)
	}
	return r, nil
}

func (repo *rapportRepository) QueryRapports(ctx context.Context) ([]rapport.Rapport, error) {
	var rows []rapportRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+rapportColumns+" FROM rapports"+orderBy(rapport.Ordering)); err != nil {
		return nil, mapErr(err)
	}
	rs := make([]rapport.Rapport, 0, len(rows))
	for _, r := range rows {
		rs = append(rs, r.rapport())
	}
	return rs, nil
}

func (repo *rapportRepository) GetRapport(ctx context.Context, id int) (rapport.Rapport, error) {
	var row rapportRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+rapportColumns+" FROM rapports WHERE id = $1", id); err != nil {
		return rapport.Rapport{}, trapNoRowsErr(err, rapport.ErrNotFound)
	}
	return row.rapport(), nil
}

func (repo *rapportRepository) UpdateRapport(ctx context.Context, r rapport.Rapport) (rapport.Rapport, error) {
	q := "UPDATE rapports SET title = $1, due_date = $2, classes = $3 WHERE id = $4"
	res, err := repo.db.ExecContext(ctx, q, r.Title, r.DueDate, pq.StringArray(nonNil(r.Classes)), r.ID)
	if err != nil {
		return rapport.Rapport{}, mapErr(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return rapport.Rapport{}, mapErr(err)
	} else if n == 0 {
		return rapport.Rapport{}, rapport.ErrNotFound
	}
	return r, nil
}

// DeleteRapport deletes the deliveries explicitly, so nothing depends on the cascade being in place.
func (repo *rapportRepository) DeleteRapport(ctx context.Context, id int) error {
	return withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		if err := deleteWhere(ctx, tx, "rapport_deliveries", "rapport_id", id, nil); err != nil {
			return err
		}
		return deleteWhere(ctx, tx, "rapports", "id", id, rapport.ErrNotFound)
	})
}

func (repo *rapportRepository) CreateDelivery(ctx context.Context, d rapport.Delivery) (rapport.Delivery, error) {
	q := `INSERT INTO rapport_deliveries (rapport_id, teacher_name, delivered_day, delivered_classes, days_late)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.GetContext(ctx, &d.ID, q,
		d.RapportID, d.TeacherName, d.DeliveredDay, pq.StringArray(nonNil(d.DeliveredClasses)), d.DaysLate)
	if err != nil {
		if violates(err, pqForeignKeyViolation, "rapport_deliveries_rapport_id_fkey") {
			return rapport.Delivery{}, rapport.ErrNotFound
		}
		return rapport.Delivery{}, mapErr(err)
	}
	return d, nil
}

func (repo *rapportRepository) QueryDeliveries(ctx context.Context, teacherName string) ([]rapport.Delivery, error) {
	var (
		rows []deliveryRow
		err  error
	)
	if teacherName == "" {
		err = repo.db.SelectContext(ctx, &rows, deliveriesQuery+orderBy(rapport.DeliveryOrdering))
	} else {
		err = repo.db.SelectContext(ctx, &rows, deliveriesQuery+" WHERE teacher_name = $1"+orderBy(rapport.DeliveryOrdering), teacherName)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	ds := make([]rapport.Delivery, 0, len(rows))
	for _, r := range rows {
		ds = append(ds, rapport.Delivery{
			ID:               r.ID,
			RapportID:        r.RapportID,
			TeacherName:      r.TeacherName,
			DeliveredDay:     r.DeliveredDay,
			DeliveredClasses: nonNil(r.DeliveredClasses),
			DaysLate:         r.DaysLate,
			RapportTitle:     r.RapportTitle,
			DueDate:          r.DueDate,
		})
	}
	return ds, nil
}
