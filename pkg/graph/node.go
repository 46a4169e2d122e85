package graph

import (
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

// NodeID identifies a node for the lifetime of its graph. Ids are never reused.
type NodeID uint32

const (
	dirIn  = bus.DirectionInput
	dirOut = bus.DirectionOutput
)

// node is the graph's record of one processor. The bus configuration is owned
// by the graph and only changes inside a gated mutation.
type node struct {
	id        NodeID
	processor plugin.Processor
	buses     *bus.Configuration
	selected  [2]int
}

func (n *node) clone() *node {
	c := *n
	c.buses = n.buses.Clone()
	return &c
}

// pinCount returns the number of audio pins of a direction.
func (n *node) pinCount(direction bus.Direction) int {
	return n.buses.TotalChannels(direction)
}

// hasPin reports whether channel addresses an existing pin of the direction.
func (n *node) hasPin(direction bus.Direction, channel int) bool {
	if channel == EventChannel {
		if direction == dirIn {
			return n.buses.AcceptsEvents()
		}
		return n.buses.ProducesEvents()
	}
	return channel >= 0 && channel < n.pinCount(direction)
}

func (n *node) sumsInputs() bool {
	s, ok := n.processor.(plugin.SummingInput)
	return ok && s.SumsInputs()
}

func (n *node) notifyLayout() {
	if l, ok := n.processor.(plugin.LayoutListener); ok {
		l.LayoutChanged(n.buses.Layout())
	}
}

func (n *node) notifyBusCount(direction bus.Direction) {
	if o, ok := n.processor.(plugin.BusCountObserver); ok {
		o.BusCountChanged(direction, n.buses.BusCount(direction))
	}
}

// clampSelection keeps the selected bus index of each direction in range.
func (n *node) clampSelection() {
	for _, dir := range bus.Directions {
		last := n.buses.BusCount(dir) - 1
		if n.selected[dir] > last {
			n.selected[dir] = last
		}
		if n.selected[dir] < 0 {
			n.selected[dir] = 0
		}
	}
}
