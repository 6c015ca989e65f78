package postgres

import (
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
)

type matchTableModel struct {
	ID         string    `db:"id"`
	Time       time.Time `db:"time"`
	IsHomeGame bool      `db:"is_home_game"`
	Type       string    `db:"type"`
	EnemyName  string    `db:"enemy_name"`
	TeamSlug   string    `db:"team_slug"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type locationTableModel struct {
	MatchID       string `db:"match_id"`
	City          string `db:"city"`
	StreetAddress string `db:"street_address"`
	HallName      string `db:"hall_name"`
}

func matchFromRow(row matchTableModel, loc *locationTableModel) match.Match {
	out := match.Match{
		ID:         row.ID,
		Time:       row.Time,
		IsHomeGame: row.IsHomeGame,
		Type:       row.Type,
		EnemyName:  row.EnemyName,
		TeamSlug:   row.TeamSlug,
	}
	if loc != nil {
		out.Location = &match.Location{
			City:          loc.City,
			StreetAddress: loc.StreetAddress,
			HallName:      loc.HallName,
		}
	}
	return out
}
