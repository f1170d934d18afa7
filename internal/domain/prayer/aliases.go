package prayer

import (
	"fmt"
	"strings"
)

// Name is a canonical prayer key.
type Name string

const (
	Fajr    Name = "fajr"
	Sunrise Name = "sunrise"
	Dhuhr   Name = "dhuhr"
	Asr     Name = "asr"
	Maghrib Name = "maghrib"
	Isha    Name = "isha"
)

// Label is the bilingual display entry of a canonical prayer.
type Label struct {
	Name    Name
	English string
	Arabic  string
}

// Labels fixes the order and wording consumed by the front end.
var Labels = []Label{
	{Name: Fajr, English: "Fajr", Arabic: "الفجر"},
	{Name: Sunrise, English: "Sunrise", Arabic: "الشروق"},
	{Name: Dhuhr, English: "Dhuhr", Arabic: "الظهر"},
	{Name: Asr, English: "Asr", Arabic: "العصر"},
	{Name: Maghrib, English: "Maghrib", Arabic: "المغرب"},
	{Name: Isha, English: "Isha", Arabic: "العشاء"},
}

var aliases = mustBuildAliases(map[string]Name{
	"fajr":    Fajr,
	"sunrise": Sunrise,
	"sherook": Sunrise,
	"dhuhr":   Dhuhr,
	"dohr":    Dhuhr,
	"asr":     Asr,
	"maghrib": Maghrib,
	"maghreb": Maghrib,
	"isha":    Isha,
	"ishaa":   Isha,
})

// mustBuildAliases panics when a canonical prayer is not reachable by its own name.
func mustBuildAliases(table map[string]Name) map[string]Name {
	if err := validateAliases(table); err != nil {
		panic(err)
	}
	return table
}

func validateAliases(table map[string]Name) error {
	for _, label := range Labels {
		if table[string(label.Name)] != label.Name {
			return fmt.Errorf("prayer alias table is missing canonical entry %q", label.Name)
		}
	}
	for alias, name := range table {
		if alias != strings.ToLower(alias) {
			return fmt.Errorf("prayer alias %q must be lower case", alias)
		}
		if !name.known() {
			return fmt.Errorf("prayer alias %q points at unknown prayer %q", alias, name)
		}
	}
	return nil
}

// Canonicalize maps a requested name or alias to its canonical prayer.
func Canonicalize(requested string) (Name, bool) {
	name, ok := aliases[strings.ToLower(strings.TrimSpace(requested))]
	return name, ok
}

func (n Name) known() bool {
	for _, label := range Labels {
		if label.Name == n {
			return true
		}
	}
	return false
}

// TimeOf returns the formatted time for a canonical prayer.
func (s TimeSet) TimeOf(name Name) string {
	switch name {
	case Fajr:
		return s.Fajr
	case Sunrise:
		return s.Sunrise
	case Dhuhr:
		return s.Dhuhr
	case Asr:
		return s.Asr
	case Maghrib:
		return s.Maghrib
	case Isha:
		return s.Isha
	default:
		return ""
	}
}
