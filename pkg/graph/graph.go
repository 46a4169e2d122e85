// Package graph keeps the topology of an audio processing graph: its nodes,
// the connections between their pins and the channel layout of every bus.
//
// All edits go through a single writer lock and the mutation gate, so a
// real-time Consumer only ever sees complete Snapshots.
package graph

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/debug"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

// DefaultMaxDiscreteChannels is the largest discrete layout checked by SupportedLayouts.
const DefaultMaxDiscreteChannels = 16

// Graph owns nodes and connections.
type Graph struct {
	mu    sync.Mutex
	reg   registry
	conns connectionList

	consumer Consumer
	snap     atomic.Pointer[Snapshot]
	version  uint64

	id          uuid.UUID
	maxDiscrete int
	log         *debug.Logger
	tracer      trace.Tracer
}

// Option configures a Graph.
type Option func(*Graph)

// WithConsumer attaches the real-time consumer driven by the mutation gate.
func WithConsumer(c Consumer) Option {
	return func(g *Graph) { g.consumer = c }
}

// WithLogger replaces the package default logger.
func WithLogger(l *debug.Logger) Option {
	return func(g *Graph) { g.log = l }
}

// WithMaxDiscreteChannels sets the largest discrete layout checked by
// SupportedLayouts. It is clamped to bus.MaxBusChannels.
func WithMaxDiscreteChannels(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.maxDiscrete = min(n, bus.MaxBusChannels)
		}
	}
}

// WithTracerProvider sets where batch spans go. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *Graph) { g.tracer = tp.Tracer(tracerName) }
}

// New creates an empty graph and publishes its first snapshot.
func New(opts ...Option) *Graph {
	g := &Graph{
		reg:         newRegistry(),
		id:          uuid.New(),
		maxDiscrete: DefaultMaxDiscreteChannels,
		log:         debug.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.tracer == nil {
		g.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}
	g.log = g.log.With("graph", g.id.String())
	g.publish()
	if g.consumer != nil {
		g.consumer.PrepareToPlay(g.snap.Load())
		g.consumer.Resume()
	}
	return g
}

// ID returns the instance id used in logs.
func (g *Graph) ID() uuid.UUID { return g.id }

// SetConsumer swaps the real-time consumer. The old one is suspended and
// released, the new one prepared with the current snapshot and resumed.
func (g *Graph) SetConsumer(c Consumer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if old := g.consumer; old != nil {
		old.Suspend()
		old.ReleaseResources()
	}
	g.consumer = c
	if c != nil {
		c.PrepareToPlay(g.snap.Load())
		c.Resume()
	}
}

// Queries

// Nodes returns the ids of all nodes in ascending order.
func (g *Graph) Nodes() []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reg.ids()
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reg.len()
}

// HasNode reports whether id is registered.
func (g *Graph) HasNode(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.reg.get(id)
	return ok
}

// Processor returns the processor behind a node.
func (g *Graph) Processor(id NodeID) (plugin.Processor, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		return nil, false
	}
	return n.processor, true
}

// Buses returns a copy of a node's bus configuration.
func (g *Graph) Buses(id NodeID) (*bus.Configuration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		return nil, false
	}
	return n.buses.Clone(), true
}

// Layout returns the current layout of every bus of a node.
func (g *Graph) Layout(id NodeID) (bus.Layout, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		return bus.Layout{}, false
	}
	return n.buses.Layout(), true
}

// BusLayout returns the current set of one bus.
func (g *Graph) BusLayout(id NodeID, direction bus.Direction, busIndex int) (channels.Set, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, err := g.busOf(id, direction, busIndex)
	if err != nil {
		return channels.Disabled(), false
	}
	return b.CurrentLayout(), true
}

// PinCount returns the number of audio pins of a node in one direction.
func (g *Graph) PinCount(id NodeID, direction bus.Direction) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		return 0
	}
	return n.pinCount(direction)
}

// PinName describes a pin as "<bus name>: <channel abbreviation>", or the
// event bus name for EventChannel. Unknown pins give "".
func (g *Graph) PinName(id NodeID, direction bus.Direction, channel int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok || !n.hasPin(direction, channel) {
		return ""
	}
	if channel == EventChannel {
		if name := n.buses.EventBusName(direction); name != "" {
			return name
		}
		return "Events"
	}
	busIndex, ch, _ := n.buses.ChannelOffset(direction, channel)
	b := n.buses.Bus(direction, busIndex)
	return fmt.Sprintf("%s: %s", b.Name(), b.CurrentLayout().Abbreviation(ch))
}

// Connections returns every connection in sorted order.
func (g *Graph) Connections() []Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.conns)
}

// ConnectionsOf returns the connections touching id, in sorted order.
func (g *Graph) ConnectionsOf(id NodeID) []Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Connection
	for _, c := range g.conns {
		if c.Touches(id) {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionBetween reports whether exactly this connection exists.
func (g *Graph) ConnectionBetween(src NodeID, srcChannel int, dst NodeID, dstChannel int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conns.contains(Connection{src, srcChannel, dst, dstChannel})
}

// IsConnected reports whether any connection runs directly from src to dst.
func (g *Graph) IsConnected(src, dst NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.conns.from(src) {
		if c.DestNode == dst {
			return true
		}
	}
	return false
}

// CanConnect reports whether AddConnection would succeed.
func (g *Graph) CanConnect(src NodeID, srcChannel int, dst NodeID, dstChannel int) bool {
	return g.CheckConnection(src, srcChannel, dst, dstChannel) == nil
}

// CheckConnection is CanConnect with the reason for a rejection.
func (g *Graph) CheckConnection(src NodeID, srcChannel int, dst NodeID, dstChannel int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.checkConnection(Connection{src, srcChannel, dst, dstChannel})
}

// SelectedBus returns the bus index shown for a direction of a node.
func (g *Graph) SelectedBus(id NodeID, direction bus.Direction) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.reg.get(id)
	if !ok {
		return 0
	}
	return n.selected[direction]
}

// SelectBus chooses the bus index shown for a direction of a node. The
// selection does not affect processing, so it bypasses the gate.
func (g *Graph) SelectBus(id NodeID, direction bus.Direction, busIndex int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.busOf(id, direction, busIndex); err != nil {
		return false
	}
	n, _ := g.reg.get(id)
	n.selected[direction] = busIndex
	return true
}

// Snapshot returns the last published snapshot without locking.
func (g *Graph) Snapshot() *Snapshot {
	return g.snap.Load()
}

// Edits. Each one is applied through the mutation gate and reports success.

// AddNode registers p with its declared buses and returns the new id.
func (g *Graph) AddNode(p plugin.Processor) (NodeID, bool) {
	return g.addNode(0, p)
}

// AddNodeWithID registers p under a caller chosen id, e.g. when restoring a
// session. The id must be non-zero and unused.
func (g *Graph) AddNodeWithID(id NodeID, p plugin.Processor) bool {
	if id == 0 {
		return false
	}
	_, ok := g.addNode(id, p)
	return ok
}

func (g *Graph) addNode(id NodeID, p plugin.Processor) (NodeID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p == nil {
		g.reject(opAddNode, ErrNilProcessor)
		return 0, false
	}
	if _, taken := g.reg.get(id); id != 0 && taken {
		g.reject(opAddNode, ErrDuplicateNode, "node", id)
		return 0, false
	}
	var added NodeID
	err := g.mutate(opAddNode, func() error {
		var err error
		added, err = g.addNodeLocked(id, p)
		return err
	})
	return added, err == nil
}

// RemoveNode disconnects and removes a node.
func (g *Graph) RemoveNode(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.reg.get(id); !ok {
		g.reject(opRemoveNode, ErrNodeNotFound, "node", id)
		return false
	}
	return g.mutate(opRemoveNode, func() error { return g.removeNodeLocked(id) }) == nil
}

// AddConnection validates and inserts a connection. Invalid requests are
// rejected before the consumer is suspended.
func (g *Graph) AddConnection(src NodeID, srcChannel int, dst NodeID, dstChannel int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := Connection{src, srcChannel, dst, dstChannel}
	if err := g.checkConnection(c); err != nil {
		g.reject(opAddConnection, err, "connection", c.String())
		return false
	}
	return g.mutate(opAddConnection, func() error { return g.addConnectionLocked(c) }) == nil
}

// RemoveConnection removes a connection if present.
func (g *Graph) RemoveConnection(src NodeID, srcChannel int, dst NodeID, dstChannel int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := Connection{src, srcChannel, dst, dstChannel}
	if !g.conns.contains(c) {
		g.reject(opRemoveConnection, ErrConnectionNotFound, "connection", c.String())
		return false
	}
	return g.mutate(opRemoveConnection, func() error { return g.removeConnectionLocked(c) }) == nil
}

// DisconnectNode removes every connection touching id and reports whether there were any.
func (g *Graph) DisconnectNode(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.reg.get(id); !ok {
		g.reject(opDisconnectNode, ErrNodeNotFound, "node", id)
		return false
	}
	if !slices.ContainsFunc(g.conns, func(c Connection) bool { return c.Touches(id) }) {
		return false
	}
	var removed bool
	_ = g.mutate(opDisconnectNode, func() error {
		removed = g.disconnectNodeLocked(id)
		return nil
	})
	return removed
}

// Unlocked helpers shared with Batch. The caller holds g.mu inside a mutation.

func (g *Graph) addNodeLocked(id NodeID, p plugin.Processor) (NodeID, error) {
	n, err := g.reg.add(id, p)
	if err != nil {
		return 0, err
	}
	n.notifyLayout()
	g.log.Debug("node added", "node", n.id, "plugin", p.Info().DisplayName(), "layout", n.buses.Layout().String())
	return n.id, nil
}

func (g *Graph) removeNodeLocked(id NodeID) error {
	if _, ok := g.reg.get(id); !ok {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	g.disconnectNodeLocked(id)
	g.reg.remove(id)
	g.log.Debug("node removed", "node", id)
	return nil
}

func (g *Graph) addConnectionLocked(c Connection) error {
	if err := g.checkConnection(c); err != nil {
		return fmt.Errorf("%s: %w", c, err)
	}
	g.conns.insert(c)
	g.log.Debug("connection added", "connection", c.String())
	return nil
}

func (g *Graph) removeConnectionLocked(c Connection) error {
	if !g.conns.remove(c) {
		return fmt.Errorf("%s: %w", c, ErrConnectionNotFound)
	}
	g.log.Debug("connection removed", "connection", c.String())
	return nil
}

func (g *Graph) disconnectNodeLocked(id NodeID) bool {
	dropped := g.conns.removeIf(func(c Connection) bool { return c.Touches(id) })
	if len(dropped) > 0 {
		g.log.Debug("node disconnected", "node", id, "connections", len(dropped))
	}
	return len(dropped) > 0
}

// checkConnection applies the connection rules in order and returns the first violation.
func (g *Graph) checkConnection(c Connection) error {
	src, ok := g.reg.get(c.SourceNode)
	if !ok {
		return fmt.Errorf("source %d: %w", c.SourceNode, ErrNodeNotFound)
	}
	dst, ok := g.reg.get(c.DestNode)
	if !ok {
		return fmt.Errorf("destination %d: %w", c.DestNode, ErrNodeNotFound)
	}
	if c.SourceNode == c.DestNode {
		return ErrCycle
	}
	if (c.SourceChannel == EventChannel) != (c.DestChannel == EventChannel) {
		return ErrEventMismatch
	}
	if !src.hasPin(dirOut, c.SourceChannel) {
		return fmt.Errorf("source %s: %w", c.Source(), ErrPinOutOfRange)
	}
	if !dst.hasPin(dirIn, c.DestChannel) {
		return fmt.Errorf("destination %s: %w", c.Dest(), ErrPinOutOfRange)
	}
	if g.conns.contains(c) {
		return ErrDuplicateConnection
	}
	if !dst.sumsInputs() && g.conns.feeds(c.DestNode, c.DestChannel) {
		return ErrPinOccupied
	}
	if g.conns.reaches(c.DestNode, c.SourceNode) {
		return ErrCycle
	}
	return nil
}

// removeIllegalConnections drops connections whose pins no longer exist
// after a layout or bus count change.
func (g *Graph) removeIllegalConnections() {
	dropped := g.conns.removeIf(func(c Connection) bool {
		src, ok := g.reg.get(c.SourceNode)
		if !ok || !src.hasPin(dirOut, c.SourceChannel) {
			return true
		}
		dst, ok := g.reg.get(c.DestNode)
		return !ok || !dst.hasPin(dirIn, c.DestChannel)
	})
	for _, c := range dropped {
		g.log.Info("removed illegal connection", "connection", c.String())
	}
}

func (g *Graph) busOf(id NodeID, direction bus.Direction, busIndex int) (*bus.Bus, error) {
	n, ok := g.reg.get(id)
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	b := n.buses.Bus(direction, busIndex)
	if b == nil {
		return nil, fmt.Errorf("node %d %s bus %d: %w", id, direction, busIndex, ErrBusIndex)
	}
	return b, nil
}

func (g *Graph) reject(op string, err error, args ...any) {
	editsTotal.WithLabelValues(op, errorLabel(err)).Inc()
	g.log.Debug("edit rejected", append([]any{"op", op, "reason", err.Error()}, args...)...)
}
