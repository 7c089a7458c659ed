package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/cahier"
	"github.com/trezcool/carnet/core/calendar"
)

type (
	inspectionRow struct {
		ID             int           `db:"id"`
		TeacherName    string        `db:"teacher_name"`
		InspectionDate calendar.Date `db:"inspection_date"`
		Module         string        `db:"module"`
		Submodule      null.String   `db:"submodule"`
		Title          null.String   `db:"title"`
		LessonDate     calendar.Date `db:"lesson_date"`
		DaysDifference int           `db:"days_difference"`
	}

	cahierRow struct {
		ID                  int           `db:"id"`
		TeacherName         string        `db:"teacher_name"`
		InspectionDate      calendar.Date `db:"inspection_date"`
		LastCorrectedDate   calendar.Date `db:"last_corrected_date"`
		LastCorrectedModule null.String   `db:"last_corrected_module"`
		LastCorrectedTitle  null.String   `db:"last_corrected_title"`
		Observation         null.String   `db:"observation"`
	}

	lessonRow struct {
		ID         int           `db:"id"`
		CahierID   int           `db:"cahier_id"`
		LessonDate calendar.Date `db:"lesson_date"`
		Module     null.String   `db:"module"`
		Title      null.String   `db:"title"`
	}
)

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

type cahierRepository struct {
	db *sqlx.DB
}

var _ cahier.Repository = (*cahierRepository)(nil)

func NewCahierRepository(db *sqlx.DB) cahier.Repository {
	return &cahierRepository{db: db}
}

func (repo *cahierRepository) CreateInspection(ctx context.Context, in cahier.Inspection) (cahier.Inspection, error) {
	q := `INSERT INTO cahiers_inspection
		(teacher_name, inspection_date, module, submodule, title, lesson_date, days_difference)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := repo.db.GetContext(ctx, &in.ID, q,
		in.TeacherName, in.InspectionDate, in.Module, nullString(in.Submodule), nullString(in.Title), in.LessonDate, in.DaysDifference)
	if err != nil {
		return cahier.Inspection{}, mapErr(err)
	}
	return in, nil
}

func (repo *cahierRepository) QueryInspections(ctx context.Context) ([]cahier.Inspection, error) {
	var rows []inspectionRow
	q := `SELECT id, teacher_name, inspection_date, module, submodule, title, lesson_date, days_difference
		FROM cahiers_inspection` + orderBy(cahier.InspectionOrdering)
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, mapErr(err)
	}
	ins := make([]cahier.Inspection, 0, len(rows))
	for _, r := range rows {
		ins = append(ins, cahier.Inspection{
			ID:             r.ID,
			TeacherName:    r.TeacherName,
			InspectionDate: r.InspectionDate,
			Module:         r.Module,
			Submodule:      r.Submodule.String,
			Title:          r.Title.String,
			LessonDate:     r.LessonDate,
			DaysDifference: r.DaysDifference,
		})
	}
	return ins, nil
}

func (repo *cahierRepository) CreateCahier(ctx context.Context, c cahier.Cahier) (cahier.Cahier, error) {
	var lessons []cahier.Lesson
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `INSERT INTO cahiers
			(teacher_name, inspection_date, last_corrected_date, last_corrected_module, last_corrected_title, observation)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		err := tx.GetContext(ctx, &c.ID, q,
			c.TeacherName, c.InspectionDate, c.LastCorrectedDate,
			nullString(c.LastCorrectedModule), nullString(c.LastCorrectedTitle), nullString(c.Observation))
		if err != nil {
			return mapErr(err)
		}

		lessons, err = insertLessons(ctx, tx, c.ID, c.Uncorrected)
		return err
	})
	if err != nil {
		return cahier.Cahier{}, err
	}
	c.Uncorrected = lessons
	return c, nil
}

// insertLessons stores the uncorrected lessons of cahier cahierID and returns them with their IDs.
func insertLessons(ctx context.Context, exec core.DBExecutor, cahierID int, lessons []cahier.Lesson) ([]cahier.Lesson, error) {
	q := exec.Rebind("INSERT INTO cahiers_uncorrected (cahier_id, lesson_date, module, title) VALUES (?, ?, ?, ?) RETURNING id")
	stored := make([]cahier.Lesson, 0, len(lessons))
	for _, l := range lessons {
		l.CahierID = cahierID
		if err := exec.GetContext(ctx, &l.ID, q, l.CahierID, l.LessonDate, nullString(l.Module), nullString(l.Title)); err != nil {
			return nil, mapErr(err)
		}
		stored = append(stored, l)
	}
	return stored, nil
}

func (repo *cahierRepository) QueryCahiers(ctx context.Context) ([]cahier.Cahier, error) {
	var rows []cahierRow
	q := `SELECT id, teacher_name, inspection_date, last_corrected_date, last_corrected_module, last_corrected_title, observation
		FROM cahiers` + orderBy(cahier.CahierOrdering)
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, mapErr(err)
	}
	if len(rows) == 0 {
		return []cahier.Cahier{}, nil
	}

	ids := make(pq.Int64Array, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, int64(r.ID))
	}
	var lessonRows []lessonRow
	q = "SELECT id, cahier_id, lesson_date, module, title FROM cahiers_uncorrected WHERE cahier_id = ANY($1)" +
		orderBy(cahier.LessonOrdering)
	if err := repo.db.SelectContext(ctx, &lessonRows, q, ids); err != nil {
		return nil, mapErr(err)
	}
	byCahier := make(map[int][]cahier.Lesson, len(rows))
	for _, l := range lessonRows {
		byCahier[l.CahierID] = append(byCahier[l.CahierID], cahier.Lesson{
			ID:         l.ID,
			CahierID:   l.CahierID,
			LessonDate: l.LessonDate,
			Module:     l.Module.String,
			Title:      l.Title.String,
		})
	}

	cs := make([]cahier.Cahier, 0, len(rows))
	for _, r := range rows {
		lessons := byCahier[r.ID]
		if lessons == nil {
			lessons = []cahier.Lesson{}
		}
		cs = append(cs, cahier.Cahier{
			ID:                  r.ID,
			TeacherName:         r.TeacherName,
			InspectionDate:      r.InspectionDate,
			LastCorrectedDate:   r.LastCorrectedDate,
			LastCorrectedModule: r.LastCorrectedModule.String,
			LastCorrectedTitle:  r.LastCorrectedTitle.String,
			Observation:         r.Observation.String,
			Uncorrected:         lessons,
		})
	}
	return cs, nil
}
