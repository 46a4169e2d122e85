package graph

import (
	"slices"
	"sort"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

// Snapshot is an immutable view of the graph as published by the mutation gate.
// Nodes are sorted by id and connections in their usual order.
type Snapshot struct {
	Version     uint64
	Nodes       []NodeState
	Connections []Connection
}

// NodeState is one node as seen by the real-time consumer.
type NodeState struct {
	ID             NodeID
	Processor      plugin.Processor
	Layout         bus.Layout
	AcceptsEvents  bool
	ProducesEvents bool
}

// NumChannels returns the total channel count of a direction.
func (n NodeState) NumChannels(direction bus.Direction) int {
	sets := n.Layout.Inputs
	if direction == bus.DirectionOutput {
		sets = n.Layout.Outputs
	}
	total := 0
	for _, s := range sets {
		total += s.Size()
	}
	return total
}

// Node looks up a node by id.
func (s *Snapshot) Node(id NodeID) (NodeState, bool) {
	i, ok := slices.BinarySearchFunc(s.Nodes, id, func(n NodeState, id NodeID) int {
		switch {
		case n.ID < id:
			return -1
		case n.ID > id:
			return 1
		}
		return 0
	})
	if !ok {
		return NodeState{}, false
	}
	return s.Nodes[i], true
}

// Inputs returns the connections feeding id.
func (s *Snapshot) Inputs(id NodeID) []Connection {
	var out []Connection
	for _, c := range s.Connections {
		if c.DestNode == id {
			out = append(out, c)
		}
	}
	return out
}

// TopologicalOrder returns every node after all of its sources. Among nodes
// that are ready at the same time the lower id comes first.
func (s *Snapshot) TopologicalOrder() []NodeID {
	indegree := make(map[NodeID]int, len(s.Nodes))
	for _, n := range s.Nodes {
		indegree[n.ID] = 0
	}
	for _, c := range s.Connections {
		indegree[c.DestNode]++
	}

	var ready []NodeID
	for _, n := range s.Nodes {
		if indegree[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	order := make([]NodeID, 0, len(s.Nodes))
	edges := connectionList(s.Connections)
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, c := range edges.from(id) {
			indegree[c.DestNode]--
			if indegree[c.DestNode] == 0 {
				i := sort.Search(len(ready), func(i int) bool { return ready[i] > c.DestNode })
				ready = slices.Insert(ready, i, c.DestNode)
			}
		}
	}
	return order
}

// snapshot builds a new snapshot of the current state. Called with g.mu held.
func (g *Graph) snapshot() *Snapshot {
	s := &Snapshot{
		Version:     g.version,
		Nodes:       make([]NodeState, 0, g.reg.len()),
		Connections: slices.Clone(g.conns),
	}
	for _, id := range g.reg.order {
		n := g.reg.nodes[id]
		s.Nodes = append(s.Nodes, NodeState{
			ID:             id,
			Processor:      n.processor,
			Layout:         n.buses.Layout(),
			AcceptsEvents:  n.buses.AcceptsEvents(),
			ProducesEvents: n.buses.ProducesEvents(),
		})
	}
	return s
}
