package graph

import (
	"fmt"
	"slices"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

// Outcome tells how a layout request was resolved.
type Outcome int

const (
	// Rejected means the node or bus does not exist. Nothing changed.
	Rejected Outcome = iota
	// Unchanged means the node already runs the resulting layout.
	Unchanged
	// Applied means the requested set is now current on the bus.
	Applied
	// Substituted means the processor's nearest alternative was applied instead.
	Substituted
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Unchanged:
		return "unchanged"
	case Applied:
		return "applied"
	case Substituted:
		return "substituted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// SupportedLayouts lists the sets one bus accepts, checked in a fixed order:
// for 0..8 channels the named layout, or the discrete one when the named is
// refused, then discrete layouts up to the configured maximum. The current and
// last enabled layouts are appended when missing. Nothing is cached.
func (g *Graph) SupportedLayouts(id NodeID, direction bus.Direction, busIndex int) []channels.Set {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		return nil
	}
	return g.supportedLayouts(n, direction, busIndex)
}

func (g *Graph) supportedLayouts(n *node, direction bus.Direction, busIndex int) []channels.Set {
	b := n.buses.Bus(direction, busIndex)
	if b == nil {
		return nil
	}

	var out []channels.Set
	add := func(s channels.Set) {
		if !slices.ContainsFunc(out, s.Equal) {
			out = append(out, s)
		}
	}
	supported := func(s channels.Set) bool {
		return n.processor.IsLayoutSupported(direction, busIndex, s)
	}

	for c := 0; c <= channels.MaxChannelsOfNamedLayout; c++ {
		if set := channels.Named(c); supported(set) {
			add(set)
		} else if set := channels.Discrete(c); c > 0 && supported(set) {
			add(set)
		}
	}
	for c := channels.MaxChannelsOfNamedLayout + 1; c <= min(g.maxDiscrete, bus.MaxBusChannels); c++ {
		if set := channels.Discrete(c); supported(set) {
			add(set)
		}
	}

	add(b.CurrentLayout())
	if last := b.LastEnabledLayout(); !last.IsDisabled() {
		add(last)
	}
	return out
}

// RequestLayout asks for set on one bus and returns the set the bus carries
// afterwards. A set the processor supports is applied to that bus alone;
// otherwise the processor's NextBestLayout for the whole node is applied,
// which may change other buses too.
func (g *Graph) RequestLayout(id NodeID, direction bus.Direction, busIndex int, set channels.Set) (channels.Set, Outcome) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, err := g.busOf(id, direction, busIndex)
	if err != nil {
		g.reject(opRequestLayout, err)
		return channels.Disabled(), Rejected
	}
	if b.CurrentLayout().Equal(set) {
		editsTotal.WithLabelValues(opRequestLayout, Unchanged.String()).Inc()
		return set, Unchanged
	}
	n, _ := g.reg.get(id)
	var got channels.Set
	var outcome Outcome
	_ = g.mutate(opRequestLayout, func() error {
		got, outcome = g.requestLayoutLocked(n, direction, busIndex, set)
		return nil
	})
	return got, outcome
}

// SetBusEnabled disables a bus, or re-enables it with its last enabled layout
// (the default when it never had one).
func (g *Graph) SetBusEnabled(id NodeID, direction bus.Direction, busIndex int, enabled bool) (channels.Set, Outcome) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, err := g.busOf(id, direction, busIndex)
	if err != nil {
		g.reject(opSetBusEnabled, err)
		return channels.Disabled(), Rejected
	}
	if b.IsEnabled() == enabled {
		return b.CurrentLayout(), Unchanged
	}
	n, _ := g.reg.get(id)
	var got channels.Set
	var outcome Outcome
	_ = g.mutate(opSetBusEnabled, func() error {
		got, outcome = g.setBusEnabledLocked(n, direction, busIndex, enabled)
		return nil
	})
	return got, outcome
}

// ApplyLayout sets every bus of a node at once. The layout must have the
// node's bus counts. It reports whether the node now runs exactly that layout;
// when the processor refuses it, its nearest alternative is applied instead.
func (g *Graph) ApplyLayout(id NodeID, layout bus.Layout) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		g.reject(opApplyLayout, ErrNodeNotFound, "node", id)
		return false
	}
	if !layout.SameShape(n.buses.Layout()) {
		g.reject(opApplyLayout, ErrLayoutShape, "node", id, "layout", layout.String())
		return false
	}
	if layout.Equal(n.buses.Layout()) {
		return true
	}
	var exact bool
	_ = g.mutate(opApplyLayout, func() error {
		exact = g.applyLayoutLocked(n, layout)
		return nil
	})
	return exact
}

// AddBus appends a bus when the processor allows it. The new bus takes the
// processor's default layout for its index, then every bus is re-checked.
func (g *Graph) AddBus(id NodeID, direction bus.Direction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		g.reject(opAddBus, ErrNodeNotFound, "node", id)
		return false
	}
	if !canAddBus(n, direction) {
		g.reject(opAddBus, ErrBusNotAddable, "node", id, "direction", direction.String())
		return false
	}
	return g.mutate(opAddBus, func() error { return g.addBusLocked(n, direction) }) == nil
}

// RemoveBus drops the last bus of a direction. The first bus is never removed.
func (g *Graph) RemoveBus(id NodeID, direction bus.Direction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		g.reject(opRemoveBus, ErrNodeNotFound, "node", id)
		return false
	}
	if n.buses.BusCount(direction) <= 1 || !n.processor.CanRemoveBus(direction) {
		g.reject(opRemoveBus, ErrBusNotRemovable, "node", id, "direction", direction.String())
		return false
	}
	return g.mutate(opRemoveBus, func() error { return g.removeBusLocked(n, direction) }) == nil
}

func (g *Graph) requestLayoutLocked(n *node, direction bus.Direction, busIndex int, set channels.Set) (channels.Set, Outcome) {
	b := n.buses.Bus(direction, busIndex)
	if b == nil {
		return channels.Disabled(), Rejected
	}
	if b.CurrentLayout().Equal(set) {
		return set, Unchanged
	}

	if set.Size() <= bus.MaxBusChannels && n.processor.IsLayoutSupported(direction, busIndex, set) {
		b.Apply(set)
		n.notifyLayout()
		g.removeIllegalConnections()
		g.log.Debug("layout applied", "node", n.id, "direction", direction.String(), "bus", busIndex, "layout", set.String())
		return set, Applied
	}

	before := n.buses.Layout()
	g.negotiate(n, before.With(direction, busIndex, set))
	g.removeIllegalConnections()

	got := b.CurrentLayout()
	switch {
	case got.Equal(set):
		return got, Applied
	case n.buses.Layout().Equal(before):
		g.log.Debug("layout request refused", "node", n.id, "direction", direction.String(), "bus", busIndex, "requested", set.String())
		return got, Unchanged
	default:
		layoutFallbacks.Inc()
		g.log.Warn("layout substituted", "node", n.id, "direction", direction.String(), "bus", busIndex,
			"requested", set.String(), "applied", got.String())
		return got, Substituted
	}
}

func (g *Graph) setBusEnabledLocked(n *node, direction bus.Direction, busIndex int, enabled bool) (channels.Set, Outcome) {
	b := n.buses.Bus(direction, busIndex)
	if b == nil {
		return channels.Disabled(), Rejected
	}
	if b.IsEnabled() == enabled {
		return b.CurrentLayout(), Unchanged
	}
	target := channels.Disabled()
	if enabled {
		target = b.LastEnabledLayout()
		if target.IsDisabled() {
			target = n.processor.DefaultLayout(direction, busIndex)
		}
	}
	return g.requestLayoutLocked(n, direction, busIndex, target)
}

func (g *Graph) applyLayoutLocked(n *node, layout bus.Layout) bool {
	before := n.buses.Layout()
	lasts := lastEnabledOf(n)

	g.applyAll(n, layout, before)
	if g.allSupported(n) {
		g.removeIllegalConnections()
		g.log.Debug("layout applied", "node", n.id, "layout", layout.String())
		return n.buses.Layout().Equal(layout)
	}

	restoreAll(n, before, lasts)
	n.notifyLayout()
	g.negotiate(n, layout)
	g.removeIllegalConnections()
	return n.buses.Layout().Equal(layout)
}

// canAddBus keeps every flattened audio index below EventChannel, whatever
// the processor allows.
func canAddBus(n *node, direction bus.Direction) bool {
	return n.buses.BusCount(direction) < bus.MaxBuses && n.processor.CanAddBus(direction)
}

func (g *Graph) addBusLocked(n *node, direction bus.Direction) error {
	if !canAddBus(n, direction) {
		return fmt.Errorf("node %d: %w", n.id, ErrBusNotAddable)
	}
	count := n.buses.BusCount(direction) + 1
	if o, ok := n.processor.(plugin.BusCountObserver); ok {
		o.BusCountChanged(direction, count)
	}
	def := n.processor.DefaultLayout(direction, count-1)
	if def.Size() > bus.MaxBusChannels {
		return fmt.Errorf("node %d: default layout %s: %w", n.id, def, ErrBusNotAddable)
	}
	n.buses.AddBus(direction, busName(direction, count), def)
	g.afterBusCountChange(n)
	g.log.Debug("bus added", "node", n.id, "direction", direction.String(), "count", count, "layout", def.String())
	return nil
}

func (g *Graph) removeBusLocked(n *node, direction bus.Direction) error {
	if n.buses.BusCount(direction) <= 1 || !n.processor.CanRemoveBus(direction) {
		return fmt.Errorf("node %d: %w", n.id, ErrBusNotRemovable)
	}
	if err := n.buses.RemoveLastBus(direction); err != nil {
		return err
	}
	n.notifyBusCount(direction)
	g.afterBusCountChange(n)
	g.log.Debug("bus removed", "node", n.id, "direction", direction.String(), "count", n.buses.BusCount(direction))
	return nil
}

// afterBusCountChange re-asks the processor about every bus, since a bus
// count change can change what the other buses accept.
func (g *Graph) afterBusCountChange(n *node) {
	n.notifyLayout()
	if !g.allSupported(n) {
		current := n.buses.Layout()
		g.negotiate(n, current)
	}
	n.clampSelection()
	g.removeIllegalConnections()
}

// negotiate applies the processor's nearest layout for proposed, then repairs
// any bus the processor still refuses with the first supported of: the bus's
// last enabled layout, its default, a discrete layout of the proposed size,
// and its layout from before.
func (g *Graph) negotiate(n *node, proposed bus.Layout) {
	before := n.buses.Layout()
	lasts := lastEnabledOf(n)

	next := n.processor.NextBestLayout(proposed)
	if !next.SameShape(before) {
		g.log.Warn("next best layout has the wrong shape", "node", n.id, "got", next.String(), "want", before.String())
		next = before
	}
	g.applyAll(n, next, before)

	for _, dir := range bus.Directions {
		for i := 0; i < n.buses.BusCount(dir); i++ {
			b := n.buses.Bus(dir, i)
			if n.processor.IsLayoutSupported(dir, i, b.CurrentLayout()) {
				continue
			}
			refused := b.CurrentLayout()
			prev := before.Get(dir, i)
			chosen := prev
			candidates := []channels.Set{
				lasts[dir][i],
				n.processor.DefaultLayout(dir, i),
				channels.Discrete(proposed.Get(dir, i).Size()),
				prev,
			}
			for _, c := range candidates {
				if c.Size() <= bus.MaxBusChannels && n.processor.IsLayoutSupported(dir, i, c) {
					chosen = c
					break
				}
			}
			if chosen.Equal(prev) {
				b.Restore(prev, lasts[dir][i])
			} else {
				b.Apply(chosen)
			}
			n.notifyLayout()
			layoutFallbacks.Inc()
			g.log.Warn("layout fallback", "node", n.id, "direction", dir.String(), "bus", i,
				"refused", refused.String(), "applied", chosen.String())
		}
	}
}

// applyAll makes layout current on every bus. Sets too large for a bus keep
// the layout from before.
func (g *Graph) applyAll(n *node, layout, before bus.Layout) {
	for _, dir := range bus.Directions {
		for i := 0; i < n.buses.BusCount(dir); i++ {
			set := layout.Get(dir, i)
			if set.Size() > bus.MaxBusChannels {
				set = before.Get(dir, i)
			}
			n.buses.Bus(dir, i).Apply(set)
		}
	}
	n.notifyLayout()
}

func (g *Graph) allSupported(n *node) bool {
	for _, dir := range bus.Directions {
		for i := 0; i < n.buses.BusCount(dir); i++ {
			if !n.processor.IsLayoutSupported(dir, i, n.buses.Bus(dir, i).CurrentLayout()) {
				return false
			}
		}
	}
	return true
}

func lastEnabledOf(n *node) [2][]channels.Set {
	var lasts [2][]channels.Set
	for _, dir := range bus.Directions {
		lasts[dir] = make([]channels.Set, n.buses.BusCount(dir))
		for i := range lasts[dir] {
			lasts[dir][i] = n.buses.Bus(dir, i).LastEnabledLayout()
		}
	}
	return lasts
}

func restoreAll(n *node, before bus.Layout, lasts [2][]channels.Set) {
	for _, dir := range bus.Directions {
		for i := 0; i < n.buses.BusCount(dir) && i < len(lasts[dir]); i++ {
			n.buses.Bus(dir, i).Restore(before.Get(dir, i), lasts[dir][i])
		}
	}
}

func busName(direction bus.Direction, count int) string {
	if direction == bus.DirectionInput {
		return fmt.Sprintf("Input %d", count)
	}
	return fmt.Sprintf("Output %d", count)
}
