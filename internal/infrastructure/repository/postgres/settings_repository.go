package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
	qb "github.com/ttc-klingenmuenster/clubsync/internal/platform/querybuilder"
)

// The settings table holds one row, keyed by a constant id.
const settingsRowID = 1

type settingsTableModel struct {
	ID            int  `db:"id"`
	AutoSync      bool `db:"auto_sync"`
	IncludeRRSync bool `db:"include_rr_sync"`
}

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (settings.Settings, bool, error) {
	query, args, err := qb.Select("*").From("settings").
		Where(qb.Eq("id", settingsRowID)).
		ToSQL()
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("build get settings query: %w", err)
	}

	var row settingsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return settings.Settings{}, false, nil
		}
		return settings.Settings{}, false, fmt.Errorf("get settings: %w", err)
	}

	return settings.Settings{
		AutoSync:      row.AutoSync,
		IncludeRRSync: row.IncludeRRSync,
	}, true, nil
}

func (r *SettingsRepository) Save(ctx context.Context, next settings.Settings) error {
	query, args, err := qb.InsertInto("settings").
		Columns("id", "auto_sync", "include_rr_sync").
		Values(settingsRowID, next.AutoSync, next.IncludeRRSync).
		Suffix(`ON CONFLICT (id)
DO UPDATE SET
    auto_sync = EXCLUDED.auto_sync,
    include_rr_sync = EXCLUDED.include_rr_sync`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build save settings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
