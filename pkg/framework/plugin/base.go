package plugin

import (
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

// Base is a ready-made Processor driven by a Policy. Embed it and add a block
// processing method to build a node.
type Base struct {
	info     Info
	declared *bus.Configuration
	policy   Policy
	layout   bus.Layout
	counts   [2]int
	limits   [2]busLimit
	summing  bool
	addedSet channels.Set
}

type busLimit struct {
	min, max int
}

// Option configures a Base.
type Option func(*Base)

// WithPolicy replaces the default Fixed policy.
func WithPolicy(p Policy) Option {
	return func(b *Base) { b.policy = p }
}

// WithBusLimits lets the bus count of a direction move between lo and hi.
// hi is clamped to bus.MaxBuses.
func WithBusLimits(direction bus.Direction, lo, hi int) Option {
	return func(b *Base) { b.limits[direction] = busLimit{min: lo, max: min(hi, bus.MaxBuses)} }
}

// WithSumming lets every input pin take several incoming connections.
func WithSumming() Option {
	return func(b *Base) { b.summing = true }
}

// WithAddedBusLayout sets the default layout of buses added past the declared ones.
func WithAddedBusLayout(set channels.Set) Option {
	return func(b *Base) { b.addedSet = set }
}

// NewBase creates a processor base around declared buses.
// A nil configuration defaults to stereo in/out.
func NewBase(info Info, declared *bus.Configuration, opts ...Option) *Base {
	if declared == nil {
		declared = bus.NewStereoConfiguration()
	}
	b := &Base{
		info:     info,
		declared: declared,
		layout:   declared.Layout(),
		addedSet: channels.Stereo(),
	}
	for _, dir := range bus.Directions {
		n := declared.BusCount(dir)
		b.counts[dir] = n
		b.limits[dir] = busLimit{min: n, max: n}
	}
	b.policy = Fixed(declared)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Info implements Processor.
func (b *Base) Info() Info { return b.info }

// Buses implements Processor.
func (b *Base) Buses() *bus.Configuration { return b.declared.Clone() }

// Layout returns the layout last reported through LayoutChanged.
func (b *Base) Layout() bus.Layout { return b.layout.Clone() }

// IsLayoutSupported implements Processor by asking the policy about the
// current layout with the candidate in place.
func (b *Base) IsLayoutSupported(direction bus.Direction, busIndex int, set channels.Set) bool {
	if busIndex < 0 || busIndex >= b.counts[direction] {
		return false
	}
	return b.policy.Supports(b.layout.With(direction, busIndex, set), direction, busIndex, set)
}

// DefaultLayout implements Processor. Buses beyond the declared ones use the added bus layout.
func (b *Base) DefaultLayout(direction bus.Direction, busIndex int) channels.Set {
	if d := b.declared.Bus(direction, busIndex); d != nil {
		return d.DefaultLayout()
	}
	return b.addedSet
}

// NextBestLayout implements Processor. The policy proposes first when it can;
// any bus still unsupported falls back to its current, then its default layout.
func (b *Base) NextBestLayout(requested bus.Layout) bus.Layout {
	out := requested.Clone()
	if n, ok := b.policy.(Negotiator); ok {
		out = n.NextBest(b.layout, requested)
	}
	for _, dir := range bus.Directions {
		for i := 0; i < len(listOf(out, dir)); i++ {
			set := out.Get(dir, i)
			if b.policy.Supports(out, dir, i, set) {
				continue
			}
			if cur := b.layout.Get(dir, i); b.policy.Supports(out.With(dir, i, cur), dir, i, cur) {
				out = out.With(dir, i, cur)
				continue
			}
			out = out.With(dir, i, b.DefaultLayout(dir, i))
		}
	}
	return out
}

// CanAddBus implements Processor.
func (b *Base) CanAddBus(direction bus.Direction) bool {
	return b.counts[direction] < b.limits[direction].max
}

// CanRemoveBus implements Processor.
func (b *Base) CanRemoveBus(direction bus.Direction) bool {
	return b.counts[direction] > b.limits[direction].min
}

// SumsInputs implements SummingInput.
func (b *Base) SumsInputs() bool { return b.summing }

// BusCountChanged implements BusCountObserver.
func (b *Base) BusCountChanged(direction bus.Direction, count int) {
	b.counts[direction] = count
	sets := listOf(b.layout, direction)
	for len(sets) < count {
		sets = append(sets, b.DefaultLayout(direction, len(sets)))
	}
	sets = sets[:count]
	if direction == bus.DirectionInput {
		b.layout.Inputs = sets
	} else {
		b.layout.Outputs = sets
	}
}

// LayoutChanged implements LayoutListener.
func (b *Base) LayoutChanged(layout bus.Layout) {
	b.layout = layout.Clone()
	b.counts[bus.DirectionInput] = len(layout.Inputs)
	b.counts[bus.DirectionOutput] = len(layout.Outputs)
}

func listOf(l bus.Layout, direction bus.Direction) []channels.Set {
	if direction == bus.DirectionInput {
		return l.Inputs
	}
	return l.Outputs
}

var (
	_ Processor        = (*Base)(nil)
	_ SummingInput     = (*Base)(nil)
	_ BusCountObserver = (*Base)(nil)
	_ LayoutListener   = (*Base)(nil)
)
