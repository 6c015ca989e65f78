package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	qb "github.com/ttc-klingenmuenster/clubsync/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	locations, err := r.selectLocations(ctx, []any{id})
	if err != nil {
		return match.Match{}, false, err
	}
	loc := locations[id]

	return matchFromRow(row, loc), true, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		OrderBy("time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return r.attachLocations(ctx, rows)
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamSlug string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("team_slug", teamSlug)).
		OrderBy("time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by team query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by team: %w", err)
	}

	return r.attachLocations(ctx, rows)
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("matches").
		Columns("id", "time", "is_home_game", "type", "enemy_name", "team_slug").
		Values(item.ID, item.Time, item.IsHomeGame, item.Type, item.EnemyName, item.TeamSlug).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build create match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return match.ErrDuplicateID
		}
		return fmt.Errorf("create match: %w", err)
	}

	if item.Location != nil {
		if err := upsertLocation(ctx, tx, item.ID, *item.Location); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create match tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) Update(ctx context.Context, id string, fields match.Update) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("matches").
		Set("time", fields.Time).
		Set("is_home_game", fields.IsHomeGame).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update match: %w", err)
	}
	if affected == 0 {
		return match.ErrNotFound
	}

	if fields.Location != nil {
		if err := upsertLocation(ctx, tx, id, *fields.Location); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update match tx: %w", err)
	}
	return nil
}

func upsertLocation(ctx context.Context, tx *sqlx.Tx, matchID string, loc match.Location) error {
	query, args, err := qb.InsertInto("locations").
		Columns("match_id", "city", "street_address", "hall_name").
		Values(matchID, loc.City, loc.StreetAddress, loc.HallName).
		Suffix(`ON CONFLICT (match_id)
DO UPDATE SET
    city = EXCLUDED.city,
    street_address = EXCLUDED.street_address,
    hall_name = EXCLUDED.hall_name`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert location query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	return nil
}

func (r *MatchRepository) attachLocations(ctx context.Context, rows []matchTableModel) ([]match.Match, error) {
	if len(rows) == 0 {
		return []match.Match{}, nil
	}

	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	locations, err := r.selectLocations(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row, locations[row.ID]))
	}
	return out, nil
}

func (r *MatchRepository) selectLocations(ctx context.Context, matchIDs []any) (map[string]*locationTableModel, error) {
	query, args, err := qb.Select("*").From("locations").
		Where(qb.In("match_id", matchIDs)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select locations query: %w", err)
	}

	var rows []locationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}

	out := make(map[string]*locationTableModel, len(rows))
	for i := range rows {
		out[rows[i].MatchID] = &rows[i]
	}
	return out, nil
}
