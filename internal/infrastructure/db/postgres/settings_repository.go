package postgres

import (
	"context"
	"database/sql"
	"errors"
)

// SettingsRepository implements ports.SettingsRepository on the
// system_settings key/value table. Get returns "" for a missing key.
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM system_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", dbErr(err)
	}
	return value, nil
}

func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `INSERT INTO system_settings (key, value)
              VALUES ($1, $2)
              ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return dbErr(err)
	}
	return nil
}

func (r *SettingsRepository) All(ctx context.Context) (map[string]string, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM system_settings`)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, dbErr(err)
		}
		out[k] = v
	}
	return out, rows.Err()
}
