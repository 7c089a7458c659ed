package inmemdb

import (
	"context"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/rapport"
)

type rapportRepository struct {
	db *DB
}

var _ rapport.Repository = (*rapportRepository)(nil)

func NewRapportRepository(db *DB) rapport.Repository {
	return &rapportRepository{db: db}
}

func rapportField(r rapport.Rapport, field string) interface{} {
	switch field {
	case "id":
		return r.ID
	case "due_date":
		return r.DueDate
	case "title":
		return r.Title
	}
	panic("inmemdb: unknown rapports column " + field)
}

func deliveryField(d rapport.Delivery, field string) interface{} {
	switch field {
	case "id":
		return d.ID
	case "due_date":
		return d.DueDate
	case "delivered_day":
		return d.DeliveredDay
	}
	panic("inmemdb: unknown rapport_deliveries column " + field)
}

func cloneRapport(r rapport.Rapport) rapport.Rapport {
	r.Classes = copyStrings(r.Classes)
	return r
}

func (repo *rapportRepository) CreateRapport(_ context.Context, r rapport.Rapport) (rapport.Rapport, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = repo.db.nextID("rapports")
	repo.db.rapports[r.ID] = cloneRapport(r)
	return r, nil
}

func (repo *rapportRepository) QueryRapports(context.Context) ([]rapport.Rapport, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rs := make([]rapport.Rapport, 0, len(repo.db.rapports))
	for _, r := range repo.db.rapports {
		rs = append(rs, cloneRapport(r))
	}
	sortRows(rs, rapportField, rapport.Ordering)
	return rs, nil
}

func (repo *rapportRepository) GetRapport(_ context.Context, id int) (rapport.Rapport, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.rapports[id]; ok {
		return cloneRapport(r), nil
	}
	return rapport.Rapport{}, rapport.ErrNotFound
}

func (repo *rapportRepository) UpdateRapport(_ context.Context, r rapport.Rapport) (rapport.Rapport, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rapports[r.ID]; !ok {
		return rapport.Rapport{}, rapport.ErrNotFound
	}
	repo.db.rapports[r.ID] = cloneRapport(r)
	return r, nil
}

func (repo *rapportRepository) DeleteRapport(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rapports[id]; !ok {
		return rapport.ErrNotFound
	}
	for did, d := range repo.db.deliveries {
		if d.RapportID == id {
			delete(repo.db.deliveries, did)
		}
	}
	delete(repo.db.rapports, id)
	return nil
}

func (repo *rapportRepository) CreateDelivery(_ context.Context, d rapport.Delivery) (rapport.Delivery, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rapports[d.RapportID]; !ok { // foreign key
		return rapport.Delivery{}, rapport.ErrNotFound
	}
	d.ID = repo.db.nextID("rapport_deliveries")
	d.RapportTitle, d.DueDate = "", calendar.Date{}
	d.DeliveredClasses = copyStrings(d.DeliveredClasses)
	repo.db.deliveries[d.ID] = d
	return d, nil
}

func (repo *rapportRepository) QueryDeliveries(_ context.Context, teacherName string) ([]rapport.Delivery, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ds := make([]rapport.Delivery, 0, len(repo.db.deliveries))
	for _, d := range repo.db.deliveries {
		if teacherName != "" && d.TeacherName != teacherName {
			continue
		}
		r := repo.db.rapports[d.RapportID]
		d.RapportTitle, d.DueDate = r.Title, r.DueDate
		d.DeliveredClasses = copyStrings(d.DeliveredClasses)
		ds = append(ds, d)
	}
	sortRows(ds, deliveryField, rapport.DeliveryOrdering)
	return ds, nil
}
