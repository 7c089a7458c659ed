package sqlxrepos

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/carnet/core/settings"
)

type settingsRepository struct {
	db *sqlx.DB
}

var _ settings.Repository = (*settingsRepository)(nil)

func NewSettingsRepository(db *sqlx.DB) settings.Repository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) QuerySettings(ctx context.Context) (map[string][]byte, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value []byte `db:"value"`
	}
	if err := repo.db.SelectContext(ctx, &rows, "SELECT key, value FROM settings"); err != nil {
		return nil, mapErr(err)
	}
	vals := make(map[string][]byte, len(rows))
	for _, r := range rows {
		vals[r.Key] = r.Value
	}
	return vals, nil
}

func (repo *settingsRepository) SaveSettings(ctx context.Context, vals map[string][]byte) error {
	keys := make([]string, 0, len(vals))
	for key := range vals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	q := `INSERT INTO settings (key, value) VALUES ($1, $2::jsonb)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	return withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		for _, key := range keys {
			// text, not bytea
			if _, err := tx.ExecContext(ctx, q, key, string(vals[key])); err != nil {
				return mapErr(err)
			}
		}
		return nil
	})
}
