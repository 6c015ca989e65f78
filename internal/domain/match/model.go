package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	TypeRegular = "REGULAR"
	TypeCup     = "CUP"
)

// Match is one fixture of a club team, either imported from the league
// feed (ID equals the feed id) or created manually.
type Match struct {
	ID         string
	Time       time.Time
	IsHomeGame bool
	Type       string
	EnemyName  string
	TeamSlug   string
	Location   *Location
}

// Location is the venue of a match. It is attached 1:1 and either fully
// present or absent; City holds "<city> <zip>" in one column.
type Location struct {
	City          string
	StreetAddress string
	HallName      string
}

// DeriveType classifies a match from the league name the feed reports.
// Cup rounds carry "Pokal" somewhere in the league name.
func DeriveType(leagueName string) string {
	if strings.Contains(strings.ToLower(leagueName), "pokal") {
		return TypeCup
	}
	return TypeRegular
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if m.Time.IsZero() {
		return fmt.Errorf("match time is required")
	}
	if m.Type != TypeRegular && m.Type != TypeCup {
		return fmt.Errorf("match type %q is not valid", m.Type)
	}
	if strings.TrimSpace(m.TeamSlug) == "" {
		return fmt.Errorf("match team slug is required")
	}
	return nil
}

// Update carries the fields the reconciliation engine is allowed to
// rewrite on an existing match. Type and EnemyName are immutable after
// creation on the automatic path.
type Update struct {
	Time       time.Time
	IsHomeGame bool
	Location   *Location
}
