package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
	qb "github.com/ttc-klingenmuenster/clubsync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by slug query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by slug: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		OrderBy("slug").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	query, args, err := qb.InsertInto("teams").
		Columns("slug", "name", "type", "group_index", "invite_token").
		Values(item.Slug, item.Name, item.Type, item.GroupIndex, item.InviteToken).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build create team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return team.ErrDuplicateSlug
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}
