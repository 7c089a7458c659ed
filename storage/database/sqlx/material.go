package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/material"
)

type materialRow struct {
	ID          int           `db:"id"`
	TeacherName string        `db:"teacher_name"`
	Material    string        `db:"material"`
	Quantity    int           `db:"quantity"`
	Date        calendar.Date `db:"date"`
}

type materialRepository struct {
	db *sqlx.DB
}

var _ material.Repository = (*materialRepository)(nil)

func NewMaterialRepository(db *sqlx.DB) material.Repository {
	return &materialRepository{db: db}
}

func (repo *materialRepository) CreateDistribution(ctx context.Context, d material.Distribution) (material.Distribution, error) {
	q := "INSERT INTO materials (teacher_name, material, quantity, date) VALUES ($1, $2, $3, $4) RETURNING id"
	if err := repo.db.GetContext(ctx, &d.ID, q, d.TeacherName, d.Material, d.Quantity, d.Date); err != nil {
		return material.Distribution{}, mapErr(err)
	}
	return d, nil
}

func (repo *materialRepository) QueryDistributions(ctx context.Context) ([]material.Distribution, error) {
	var rows []materialRow
	q := "SELECT id, teacher_name, material, quantity, date FROM materials" + orderBy(material.Ordering)
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, mapErr(err)
	}
	ds := make([]material.Distribution, 0, len(rows))
	for _, r := range rows {
		ds = append(ds, material.Distribution(r))
	}
	return ds, nil
}
