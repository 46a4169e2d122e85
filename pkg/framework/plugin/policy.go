package plugin

import (
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

// Policy decides which layouts a Base accepts.
//
// layout is the hypothetical full-node layout with the candidate already in place,
// so a policy can relate buses to each other.
type Policy interface {
	Supports(layout bus.Layout, direction bus.Direction, busIndex int, set channels.Set) bool
}

// Negotiator is an optional Policy extension proposing its own nearest layout.
type Negotiator interface {
	NextBest(current, requested bus.Layout) bus.Layout
}

// PredicateFunc adapts a plain function to Policy.
type PredicateFunc func(layout bus.Layout, direction bus.Direction, busIndex int, set channels.Set) bool

// Supports calls f.
func (f PredicateFunc) Supports(layout bus.Layout, direction bus.Direction, busIndex int, set channels.Set) bool {
	return f(layout, direction, busIndex, set)
}

// auxDisabled reports whether set disables a non-main bus, which every built-in policy allows.
func auxDisabled(busIndex int, set channels.Set) bool {
	return busIndex > 0 && set.IsDisabled()
}

type fixedPolicy struct {
	declared bus.Layout
}

// Fixed accepts only the declared default layout of each bus. Aux buses may be disabled.
func Fixed(declared *bus.Configuration) Policy {
	l := bus.Layout{}
	for _, dir := range bus.Directions {
		for i := 0; i < declared.BusCount(dir); i++ {
			l = appendSet(l, dir, declared.Bus(dir, i).DefaultLayout())
		}
	}
	return fixedPolicy{declared: l}
}

func (p fixedPolicy) Supports(_ bus.Layout, direction bus.Direction, busIndex int, set channels.Set) bool {
	if auxDisabled(busIndex, set) {
		return true
	}
	want := p.declared.Get(direction, busIndex)
	return !want.IsDisabled() && want.Equal(set)
}

type flexiblePolicy struct {
	max int
}

// Flexible accepts any enabled set of up to max channels on every bus.
func Flexible(max int) Policy {
	return flexiblePolicy{max: max}
}

func (p flexiblePolicy) Supports(_ bus.Layout, _ bus.Direction, busIndex int, set channels.Set) bool {
	if auxDisabled(busIndex, set) {
		return true
	}
	return set.Size() > 0 && set.Size() <= p.max
}

type symmetricPolicy struct {
	flexiblePolicy
}

// Symmetric is Flexible with the extra rule that the main input and main
// output carry the same set. Its NextBest mirrors the changed side onto the other.
func Symmetric(max int) Policy {
	return symmetricPolicy{flexiblePolicy{max: max}}
}

func (p symmetricPolicy) Supports(layout bus.Layout, direction bus.Direction, busIndex int, set channels.Set) bool {
	if !p.flexiblePolicy.Supports(layout, direction, busIndex, set) {
		return false
	}
	if busIndex != 0 || len(layout.Inputs) == 0 || len(layout.Outputs) == 0 {
		return true
	}
	return layout.Inputs[0].Equal(layout.Outputs[0])
}

func (p symmetricPolicy) NextBest(current, requested bus.Layout) bus.Layout {
	out := requested.Clone()
	if len(out.Inputs) == 0 || len(out.Outputs) == 0 {
		return out
	}
	if !out.Inputs[0].Equal(current.Get(bus.DirectionInput, 0)) {
		out.Outputs[0] = out.Inputs[0]
	} else {
		out.Inputs[0] = out.Outputs[0]
	}
	return out
}

func appendSet(l bus.Layout, direction bus.Direction, set channels.Set) bus.Layout {
	if direction == bus.DirectionInput {
		l.Inputs = append(l.Inputs, set)
	} else {
		l.Outputs = append(l.Outputs, set)
	}
	return l
}
