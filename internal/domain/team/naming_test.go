package team

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Erwachsene I", "erwachsene-i"},
		{"Mädchen U15 I", "maedchen-u15-i"},
		{"  TSV   Weißenburg II ", "tsv-weissenburg-ii"},
		{"Jugend U12 III", "jugend-u12-iii"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		wantType  string
		wantIndex int
	}{
		{"Erwachsene I", TypeErwachsene, 1},
		{"Erwachsene IV", TypeErwachsene, 4},
		{"Damen II", TypeDamen, 2},
		{"Jugend U19 I", TypeJugend19, 1},
		{"Jugend U15 III", TypeJugend15, 3},
		{"Mädchen U12 I", TypeMadchen12, 1},
		{"Maedchen U15 II", TypeMadchen15, 2},
	}

	for _, tc := range cases {
		gotType, gotIndex, err := ParseName(tc.name)
		if err != nil {
			t.Fatalf("ParseName(%q) error: %v", tc.name, err)
		}
		if gotType != tc.wantType || gotIndex != tc.wantIndex {
			t.Fatalf("ParseName(%q)=(%s,%d), want (%s,%d)", tc.name, gotType, gotIndex, tc.wantType, tc.wantIndex)
		}
	}
}

func TestParseName_Unrecognized(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"",
		"Erwachsene",
		"Erwachsene 1",
		"Herren I",
		"Jugend U13 I",
	} {
		_, _, err := ParseName(name)
		if !errors.Is(err, ErrUnrecognizedName) {
			t.Fatalf("ParseName(%q) expected ErrUnrecognizedName, got=%v", name, err)
		}
	}
}

func TestRomanToInt(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"I":    1,
		"II":   2,
		"IV":   4,
		"IX":   9,
		"XIV":  14,
		"XL":   40,
		"XCIX": 99,
	}
	for in, want := range cases {
		got, err := RomanToInt(in)
		if err != nil {
			t.Fatalf("RomanToInt(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("RomanToInt(%q)=%d, want %d", in, got, want)
		}
	}

	if _, err := RomanToInt("MCM"); err == nil {
		t.Fatalf("expected error for runes outside the club's range")
	}
	if _, err := RomanToInt(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
