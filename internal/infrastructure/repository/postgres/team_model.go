package postgres

import (
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
)

type teamTableModel struct {
	Slug        string    `db:"slug"`
	Name        string    `db:"name"`
	Type        string    `db:"type"`
	GroupIndex  int       `db:"group_index"`
	InviteToken string    `db:"invite_token"`
	CreatedAt   time.Time `db:"created_at"`
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		Slug:        row.Slug,
		Name:        row.Name,
		Type:        row.Type,
		GroupIndex:  row.GroupIndex,
		InviteToken: row.InviteToken,
	}
}
