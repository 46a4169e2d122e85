// Package plugin defines what the graph needs to know about a processing node:
// its metadata, declared buses and the layouts it can run with.
package plugin

import (
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

// Processor is the capability predicate of one node.
//
// The graph calls these methods while holding its writer lock and never caches
// the answers: a processor may change its mind after any bus count or layout change.
type Processor interface {
	Info() Info

	// Buses returns the declared initial buses. The graph clones the result
	// and owns the clone from then on.
	Buses() *bus.Configuration

	IsLayoutSupported(direction bus.Direction, busIndex int, set channels.Set) bool
	DefaultLayout(direction bus.Direction, busIndex int) channels.Set

	// NextBestLayout returns the nearest layout the processor can run with for a
	// hypothetical full-node layout. The result should have the same shape.
	NextBestLayout(requested bus.Layout) bus.Layout

	CanAddBus(direction bus.Direction) bool
	CanRemoveBus(direction bus.Direction) bool
}

// SummingInput is implemented by processors whose input pins accept more than
// one incoming connection. Without it every input pin has a single writer.
type SummingInput interface {
	SumsInputs() bool
}

// BusCountObserver is told about bus additions and removals before the new bus
// gets its default layout.
type BusCountObserver interface {
	BusCountChanged(direction bus.Direction, count int)
}

// LayoutListener receives the applied layout after every negotiated change.
type LayoutListener interface {
	LayoutChanged(layout bus.Layout)
}
