package team

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedName marks a team name that does not follow the club's
// naming convention. Callers must treat it as a hard classification
// failure, never fall back to a default type or tier.
var ErrUnrecognizedName = errors.New("unrecognized team name")

// Slugify normalizes a team name into its slug identity: lowercase,
// runs of non-alphanumeric runes collapsed into single dashes.
func Slugify(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}

	var builder strings.Builder
	lastDash := false
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
			lastDash = false
			continue
		}
		switch r {
		case 'ä':
			builder.WriteString("ae")
			lastDash = false
			continue
		case 'ö':
			builder.WriteString("oe")
			lastDash = false
			continue
		case 'ü':
			builder.WriteString("ue")
			lastDash = false
			continue
		case 'ß':
			builder.WriteString("ss")
			lastDash = false
			continue
		}
		if !lastDash {
			builder.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(builder.String(), "-")
}

// ParseName derives type and group index from a conventional team name,
// e.g. "Erwachsene II", "Damen I", "Jugend U15 III", "Mädchen U12 I".
// The trailing token is the roman-numeral tier. Both sync paths resolve
// teams through this one function.
func ParseName(name string) (teamType string, groupIndex int, err error) {
	trimmed := strings.Join(strings.Fields(name), " ")
	if trimmed == "" {
		return "", 0, fmt.Errorf("%w: empty name", ErrUnrecognizedName)
	}

	parts := strings.Split(trimmed, " ")
	groupIndex, err = RomanToInt(parts[len(parts)-1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q has no roman tier: %v", ErrUnrecognizedName, name, err)
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "erwachsene"):
		return TypeErwachsene, groupIndex, nil
	case strings.Contains(lower, "damen"):
		return TypeDamen, groupIndex, nil
	case strings.Contains(lower, "jugend"):
		teamType, err = youthType(parts, false)
	case strings.Contains(lower, "mädchen"), strings.Contains(lower, "maedchen"), strings.Contains(lower, "madchen"):
		teamType, err = youthType(parts, true)
	default:
		return "", 0, fmt.Errorf("%w: %q matches no known category", ErrUnrecognizedName, name)
	}
	if err != nil {
		return "", 0, err
	}

	return teamType, groupIndex, nil
}

func youthType(parts []string, female bool) (string, error) {
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: youth team name %q is missing an age group", ErrUnrecognizedName, strings.Join(parts, " "))
	}

	age := strings.ToUpper(parts[1])
	if female {
		switch age {
		case "U12":
			return TypeMadchen12, nil
		case "U15":
			return TypeMadchen15, nil
		case "U19":
			return TypeMadchen19, nil
		}
	} else {
		switch age {
		case "U12":
			return TypeJugend12, nil
		case "U15":
			return TypeJugend15, nil
		case "U19":
			return TypeJugend19, nil
		}
	}

	return "", fmt.Errorf("%w: unknown age group %q", ErrUnrecognizedName, parts[1])
}

var romanValues = map[rune]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
}

// RomanToInt parses the roman-numeral team tier. Only the runes the
// club actually uses (I V X L C) are accepted.
func RomanToInt(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("empty roman numeral")
	}

	total := 0
	prev := 0
	runes := []rune(strings.ToUpper(value))
	for i := len(runes) - 1; i >= 0; i-- {
		current, ok := romanValues[runes[i]]
		if !ok {
			return 0, fmt.Errorf("invalid roman numeral character %q", string(runes[i]))
		}
		if current < prev {
			total -= current
		} else {
			total += current
		}
		prev = current
	}

	return total, nil
}
