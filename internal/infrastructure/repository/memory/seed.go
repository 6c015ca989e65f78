package memory

import (
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
)

// SeedTeams returns the club's squad roster for the in-memory backend.
// Slugs follow the canonical derivation from the display name.
func SeedTeams() []team.Team {
	names := []string{
		"Erwachsene I",
		"Erwachsene II",
		"Erwachsene III",
		"Damen I",
		"Jugend U19 I",
		"Jugend U15 I",
		"Jugend U12 I",
		"Mädchen U15 I",
	}

	out := make([]team.Team, 0, len(names))
	for _, name := range names {
		teamType, groupIndex, err := team.ParseName(name)
		if err != nil {
			continue
		}
		out = append(out, team.Team{
			Slug:       team.Slugify(name),
			Name:       name,
			Type:       teamType,
			GroupIndex: groupIndex,
		})
	}
	return out
}
