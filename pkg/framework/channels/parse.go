package channels

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a layout written as a name ("stereo", "5.1", "7.1 SDDS"),
// "disabled", "discrete:N", or space separated abbreviations ("L R C").
func Parse(s string) (Set, error) {
	text := strings.TrimSpace(s)
	lower := strings.ToLower(text)

	switch lower {
	case "", "disabled":
		return Disabled(), nil
	}

	if n, ok := strings.CutPrefix(lower, "discrete:"); ok {
		count, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || count <= 0 {
			return Disabled(), fmt.Errorf("invalid discrete channel count %q", n)
		}
		return Discrete(count), nil
	}

	for _, n := range namedSets {
		name := strings.ToLower(n.name)
		if lower == name || lower == strings.TrimSuffix(name, " surround") {
			return n.set, nil
		}
	}

	fields := strings.Fields(text)
	types := make([]Type, 0, len(fields))
	for _, f := range fields {
		t, ok := typeByAbbreviation(f)
		if !ok {
			return Disabled(), fmt.Errorf("unknown layout %q", s)
		}
		types = append(types, t)
	}
	return FromTypes(types...)
}

func typeByAbbreviation(abbr string) (Type, bool) {
	for _, t := range NamedTypes() {
		if strings.EqualFold(t.Abbreviation(), abbr) {
			return t, true
		}
	}
	return Unknown, false
}
