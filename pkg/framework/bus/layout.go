package bus

import (
	"strings"

	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

// Layout is the channel set of every bus of a node, inputs and outputs in bus order.
type Layout struct {
	Inputs  []channels.Set
	Outputs []channels.Set
}

func (l *Layout) list(direction Direction) *[]channels.Set {
	if direction == DirectionInput {
		return &l.Inputs
	}
	return &l.Outputs
}

// Get returns the set of one bus, or Disabled when the index is out of range.
func (l Layout) Get(direction Direction, index int) channels.Set {
	sets := *l.list(direction)
	if index < 0 || index >= len(sets) {
		return channels.Disabled()
	}
	return sets[index]
}

// With returns a copy of l with one bus replaced.
func (l Layout) With(direction Direction, index int, set channels.Set) Layout {
	out := l.Clone()
	sets := out.list(direction)
	if index >= 0 && index < len(*sets) {
		(*sets)[index] = set
	}
	return out
}

// Clone returns a copy that shares no slices with l.
func (l Layout) Clone() Layout {
	return Layout{
		Inputs:  append([]channels.Set(nil), l.Inputs...),
		Outputs: append([]channels.Set(nil), l.Outputs...),
	}
}

// SameShape reports whether both layouts have the same bus counts.
func (l Layout) SameShape(o Layout) bool {
	return len(l.Inputs) == len(o.Inputs) && len(l.Outputs) == len(o.Outputs)
}

// Equal reports whether every bus carries the same set.
func (l Layout) Equal(o Layout) bool {
	if !l.SameShape(o) {
		return false
	}
	for i := range l.Inputs {
		if !l.Inputs[i].Equal(o.Inputs[i]) {
			return false
		}
	}
	for i := range l.Outputs {
		if !l.Outputs[i].Equal(o.Outputs[i]) {
			return false
		}
	}
	return true
}

// String renders the layout as "in[Stereo] out[5.1 Surround, Disabled]".
func (l Layout) String() string {
	join := func(sets []channels.Set) string {
		parts := make([]string, len(sets))
		for i, s := range sets {
			parts[i] = s.String()
		}
		return strings.Join(parts, ", ")
	}
	return "in[" + join(l.Inputs) + "] out[" + join(l.Outputs) + "]"
}
