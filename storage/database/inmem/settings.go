package inmemdb

import (
	"context"

	"github.com/trezcool/carnet/core/settings"
)

type settingsRepository struct {
	db *DB
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) QuerySettings(context.Context) (map[string][]byte, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	vals := make(map[string][]byte, len(repo.db.settings))
	for key, v := range repo.db.settings {
		vals[key] = append([]byte(nil), v...)
	}
	return vals, nil
}

func (repo *settingsRepository) SaveSettings(_ context.Context, vals map[string][]byte) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for key, v := range vals {
		repo.db.settings[key] = append([]byte(nil), v...)
	}
	return nil
}
