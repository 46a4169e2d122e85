package graph

import (
	"context"
	"fmt"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

// Batch applies several edits as one mutation. Its methods mirror the edit
// methods of Graph and must only be used inside the function passed to Graph.Batch.
type Batch struct {
	g     *Graph
	edits int
}

// Batch runs fn with the consumer suspended once for all of its edits. When fn
// returns an error every edit of the batch is undone and the consumer resumes
// with the snapshot from before; the error is returned.
func (g *Graph) Batch(ctx context.Context, fn func(b *Batch) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := &Batch{g: g}
	err := g.mutateContext(ctx, opBatch, func() error {
		if err := fn(b); err != nil {
			return fmt.Errorf("batch after %d edits: %w", b.edits, err)
		}
		return nil
	})
	if err == nil {
		g.log.Debug("batch applied", "edits", b.edits, "version", g.version)
	}
	return err
}

func (b *Batch) done(ok bool) bool {
	if ok {
		b.edits++
	}
	return ok
}

// AddNode registers p and returns its id.
func (b *Batch) AddNode(p plugin.Processor) (NodeID, bool) {
	if p == nil {
		return 0, false
	}
	id, err := b.g.addNodeLocked(0, p)
	return id, b.done(err == nil)
}

// AddNodeWithID registers p under a chosen unused id.
func (b *Batch) AddNodeWithID(id NodeID, p plugin.Processor) bool {
	if id == 0 || p == nil {
		return false
	}
	_, err := b.g.addNodeLocked(id, p)
	return b.done(err == nil)
}

// RemoveNode disconnects and removes a node.
func (b *Batch) RemoveNode(id NodeID) bool {
	return b.done(b.g.removeNodeLocked(id) == nil)
}

// CanConnect reports whether AddConnection would succeed now.
func (b *Batch) CanConnect(src NodeID, srcChannel int, dst NodeID, dstChannel int) bool {
	return b.g.checkConnection(Connection{src, srcChannel, dst, dstChannel}) == nil
}

// AddConnection validates and inserts a connection.
func (b *Batch) AddConnection(src NodeID, srcChannel int, dst NodeID, dstChannel int) bool {
	return b.done(b.g.addConnectionLocked(Connection{src, srcChannel, dst, dstChannel}) == nil)
}

// RemoveConnection removes a connection if present.
func (b *Batch) RemoveConnection(src NodeID, srcChannel int, dst NodeID, dstChannel int) bool {
	return b.done(b.g.removeConnectionLocked(Connection{src, srcChannel, dst, dstChannel}) == nil)
}

// DisconnectNode removes every connection touching id.
func (b *Batch) DisconnectNode(id NodeID) bool {
	return b.done(b.g.disconnectNodeLocked(id))
}

// RequestLayout negotiates a layout for one bus.
func (b *Batch) RequestLayout(id NodeID, direction bus.Direction, busIndex int, set channels.Set) (channels.Set, Outcome) {
	n, ok := b.g.reg.get(id)
	if !ok {
		return channels.Disabled(), Rejected
	}
	got, outcome := b.g.requestLayoutLocked(n, direction, busIndex, set)
	b.done(outcome == Applied || outcome == Substituted)
	return got, outcome
}

// SetBusEnabled disables or re-enables a bus.
func (b *Batch) SetBusEnabled(id NodeID, direction bus.Direction, busIndex int, enabled bool) (channels.Set, Outcome) {
	n, ok := b.g.reg.get(id)
	if !ok {
		return channels.Disabled(), Rejected
	}
	got, outcome := b.g.setBusEnabledLocked(n, direction, busIndex, enabled)
	b.done(outcome == Applied || outcome == Substituted)
	return got, outcome
}

// ApplyLayout sets every bus of a node at once.
func (b *Batch) ApplyLayout(id NodeID, layout bus.Layout) bool {
	n, ok := b.g.reg.get(id)
	if !ok || !layout.SameShape(n.buses.Layout()) {
		return false
	}
	return b.done(b.g.applyLayoutLocked(n, layout))
}

// AddBus appends a bus when the processor allows it.
func (b *Batch) AddBus(id NodeID, direction bus.Direction) bool {
	n, ok := b.g.reg.get(id)
	if !ok {
		return false
	}
	return b.done(b.g.addBusLocked(n, direction) == nil)
}

// RemoveBus drops the last bus of a direction.
func (b *Batch) RemoveBus(id NodeID, direction bus.Direction) bool {
	n, ok := b.g.reg.get(id)
	if !ok {
		return false
	}
	return b.done(b.g.removeBusLocked(n, direction) == nil)
}

// Layout returns the current layout of a node as modified so far.
func (b *Batch) Layout(id NodeID) (bus.Layout, bool) {
	n, ok := b.g.reg.get(id)
	if !ok {
		return bus.Layout{}, false
	}
	return n.buses.Layout(), true
}

// Connections returns the connections as modified so far.
func (b *Batch) Connections() []Connection {
	return append([]Connection(nil), b.g.conns...)
}
