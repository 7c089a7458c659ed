package inmemdb

import (
	"context"

	"github.com/trezcool/carnet/core/material"
)

type materialRepository struct {
	db *DB
}

var _ material.Repository = (*materialRepository)(nil)

func NewMaterialRepository(db *DB) material.Repository {
	return &materialRepository{db: db}
}

func materialField(d material.Distribution, field string) interface{} {
	switch field {
	case "id":
		return d.ID
	case "date":
		return d.Date
	}
	panic("inmemdb: unknown materials column " + field)
}

func (repo *materialRepository) CreateDistribution(_ context.Context, d material.Distribution) (material.Distribution, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	d.ID = repo.db.nextID("materials")
	repo.db.materials[d.ID] = d
	return d, nil
}

func (repo *materialRepository) QueryDistributions(context.Context) ([]material.Distribution, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ds := values(repo.db.materials)
	sortRows(ds, materialField, material.Ordering)
	return ds, nil
}
