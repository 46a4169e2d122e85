package channels

import (
	"fmt"
	"strings"
)

// Set is an ordered list of unique channel types. Order is channel index order.
//
// The zero value is the disabled set: a bus carrying no channels. There is no
// separate "enabled but empty" set; Discrete(0) also yields Disabled.
// Sets are immutable values and safe to share between goroutines.
type Set struct {
	types []Type
}

// Disabled returns the set of an inactive bus.
func Disabled() Set {
	return Set{}
}

// FromTypes builds a set from the given channel types in order.
func FromTypes(types ...Type) (Set, error) {
	seen := make(map[Type]struct{}, len(types))
	for i, t := range types {
		if !t.Valid() {
			return Set{}, fmt.Errorf("channel %d: invalid channel type %d", i, int(t))
		}
		if _, dup := seen[t]; dup {
			return Set{}, fmt.Errorf("channel %d: duplicate channel type %s", i, t)
		}
		seen[t] = struct{}{}
	}
	if len(types) == 0 {
		return Set{}, nil
	}
	return Set{types: append([]Type(nil), types...)}, nil
}

// MustFromTypes is FromTypes for static layouts; it panics on an invalid list.
func MustFromTypes(types ...Type) Set {
	s, err := FromTypes(types...)
	if err != nil {
		panic(err)
	}
	return s
}

// Discrete returns n unnamed channels.
func Discrete(n int) Set {
	if n <= 0 {
		return Set{}
	}
	types := make([]Type, n)
	for i := range types {
		types[i] = DiscreteChannel0 + Type(i)
	}
	return Set{types: types}
}

// Size returns the number of channels.
func (s Set) Size() int {
	return len(s.types)
}

// IsDisabled reports whether s is the disabled set.
func (s Set) IsDisabled() bool {
	return len(s.types) == 0
}

// IsDiscrete reports whether every channel of a non-disabled set is unnamed.
func (s Set) IsDiscrete() bool {
	if len(s.types) == 0 {
		return false
	}
	for _, t := range s.types {
		if !t.IsDiscrete() {
			return false
		}
	}
	return true
}

// Types returns a copy of the channel types in index order.
func (s Set) Types() []Type {
	return append([]Type(nil), s.types...)
}

// TypeOf returns the type of channel i, or Unknown when i is out of range.
func (s Set) TypeOf(i int) Type {
	if i < 0 || i >= len(s.types) {
		return Unknown
	}
	return s.types[i]
}

// IndexOf returns the channel index carrying t, or -1.
func (s Set) IndexOf(t Type) int {
	for i, ct := range s.types {
		if ct == t {
			return i
		}
	}
	return -1
}

// Contains reports whether s carries a channel of type t.
func (s Set) Contains(t Type) bool {
	return s.IndexOf(t) >= 0
}

// Equal reports whether both sets carry the same types in the same order.
func (s Set) Equal(o Set) bool {
	if len(s.types) != len(o.types) {
		return false
	}
	for i := range s.types {
		if s.types[i] != o.types[i] {
			return false
		}
	}
	return true
}

// Abbreviation returns the short label of channel i.
func (s Set) Abbreviation(i int) string {
	return s.TypeOf(i).Abbreviation()
}

// Speakers returns the space separated abbreviations, e.g. "L R C Lfe Ls Rs".
func (s Set) Speakers() string {
	parts := make([]string, len(s.types))
	for i, t := range s.types {
		parts[i] = t.Abbreviation()
	}
	return strings.Join(parts, " ")
}

// String returns a human readable description such as "Stereo" or "Discrete #3".
func (s Set) String() string {
	if s.IsDisabled() {
		return "Disabled"
	}
	for _, n := range namedSets {
		if n.set.Equal(s) {
			return n.name
		}
	}
	if s.IsDiscrete() {
		return fmt.Sprintf("Discrete #%d", s.Size())
	}
	return "Unknown Layout (" + s.Speakers() + ")"
}
