package team

import "fmt"

// Team types are the closed set of age/gender categories the club
// fields squads in. naming.go maps free-text team names onto it.
const (
	TypeErwachsene = "ERWACHSENE"
	TypeDamen      = "DAMEN"
	TypeJugend12   = "JUGEND_12"
	TypeJugend15   = "JUGEND_15"
	TypeJugend19   = "JUGEND_19"
	TypeMadchen12  = "MADCHEN_12"
	TypeMadchen15  = "MADCHEN_15"
	TypeMadchen19  = "MADCHEN_19"
)

// Team is one squad of the club. Slug is derived from the name and is
// the identity matches reference.
type Team struct {
	Slug        string
	Name        string
	Type        string
	GroupIndex  int
	InviteToken string
}

func (t Team) Validate() error {
	if t.Slug == "" {
		return fmt.Errorf("team slug is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if !validType(t.Type) {
		return fmt.Errorf("team type %q is not valid", t.Type)
	}
	if t.GroupIndex <= 0 {
		return fmt.Errorf("team group index must be greater than zero")
	}
	return nil
}

func validType(value string) bool {
	switch value {
	case TypeErwachsene, TypeDamen,
		TypeJugend12, TypeJugend15, TypeJugend19,
		TypeMadchen12, TypeMadchen15, TypeMadchen19:
		return true
	default:
		return false
	}
}
