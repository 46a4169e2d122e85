// Package channels describes ordered multichannel layouts (stereo, 5.1, discrete...).
package channels

import "strconv"

// Type identifies the speaker or role of a single channel.
type Type int

const (
	// Unknown is not a valid channel role; it only terminates tables and marks lookups that failed.
	Unknown Type = iota
	Left
	Right
	Centre
	// LFE is the subbass channel.
	LFE
	LeftSurround
	RightSurround
	LeftCentre
	RightCentre
	Surround
	LeftRearSurround
	RightRearSurround
	TopMiddle
	TopFrontLeft
	TopFrontCentre
	TopFrontRight
	TopRearLeft
	TopRearCentre
	TopRearRight
	// LFE2 is the second subbass channel used by 10.2.
	LFE2
)

// DiscreteChannel0 is the type of the first unnamed channel; discrete channel n is DiscreteChannel0+n.
const DiscreteChannel0 Type = 64

// maxNamedType is the last named role.
const maxNamedType = LFE2

var typeNames = [...]struct {
	name, abbr string
}{
	Unknown:           {"Unknown", "?"},
	Left:              {"Left", "L"},
	Right:             {"Right", "R"},
	Centre:            {"Centre", "C"},
	LFE:               {"LFE", "Lfe"},
	LeftSurround:      {"Left Surround", "Ls"},
	RightSurround:     {"Right Surround", "Rs"},
	LeftCentre:        {"Left Centre", "Lc"},
	RightCentre:       {"Right Centre", "Rc"},
	Surround:          {"Surround", "S"},
	LeftRearSurround:  {"Left Rear Surround", "Lrs"},
	RightRearSurround: {"Right Rear Surround", "Rrs"},
	TopMiddle:         {"Top Middle", "Tm"},
	TopFrontLeft:      {"Top Front Left", "Tfl"},
	TopFrontCentre:    {"Top Front Centre", "Tfc"},
	TopFrontRight:     {"Top Front Right", "Tfr"},
	TopRearLeft:       {"Top Rear Left", "Trl"},
	TopRearCentre:     {"Top Rear Centre", "Trc"},
	TopRearRight:      {"Top Rear Right", "Trr"},
	LFE2:              {"LFE 2", "Lfe2"},
}

// NamedTypes returns every named role in declaration order.
func NamedTypes() []Type {
	out := make([]Type, 0, int(maxNamedType))
	for t := Left; t <= maxNamedType; t++ {
		out = append(out, t)
	}
	return out
}

// IsNamed reports whether t is one of the named speaker roles.
func (t Type) IsNamed() bool {
	return t >= Left && t <= maxNamedType
}

// IsDiscrete reports whether t is an unnamed channel.
func (t Type) IsDiscrete() bool {
	return t >= DiscreteChannel0
}

// Valid reports whether t may appear inside a Set.
func (t Type) Valid() bool {
	return t.IsNamed() || t.IsDiscrete()
}

// String returns the long name of the channel type.
func (t Type) String() string {
	switch {
	case t.IsDiscrete():
		return "Discrete " + strconv.Itoa(int(t-DiscreteChannel0)+1)
	case t >= Unknown && t <= maxNamedType:
		return typeNames[t].name
	default:
		return typeNames[Unknown].name
	}
}

// Abbreviation returns the short label used on pins, e.g. "L", "Ls" or "#3".
func (t Type) Abbreviation() string {
	switch {
	case t.IsDiscrete():
		return "#" + strconv.Itoa(int(t-DiscreteChannel0)+1)
	case t >= Unknown && t <= maxNamedType:
		return typeNames[t].abbr
	default:
		return typeNames[Unknown].abbr
	}
}
