package graph

import (
	"fmt"
	"slices"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

// registry owns the nodes of a graph and hands out ids.
type registry struct {
	nodes  map[NodeID]*node
	order  []NodeID
	nextID NodeID
}

func newRegistry() registry {
	return registry{nodes: make(map[NodeID]*node), nextID: 1}
}

func (r *registry) get(id NodeID) (*node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// add registers p under id, or under the next free id when id is zero.
func (r *registry) add(id NodeID, p plugin.Processor) (*node, error) {
	if p == nil {
		return nil, ErrNilProcessor
	}
	declared := p.Buses()
	if declared == nil {
		return nil, fmt.Errorf("%s: %w", p.Info().DisplayName(), ErrNilProcessor)
	}
	if err := checkBusLimits(declared); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Info().DisplayName(), err)
	}
	if id == 0 {
		id = r.nextID
	} else if _, taken := r.nodes[id]; taken {
		return nil, fmt.Errorf("node %d: %w", id, ErrDuplicateNode)
	}
	if id >= r.nextID {
		r.nextID = id + 1
	}

	n := &node{id: id, processor: p, buses: declared.Clone()}
	r.nodes[id] = n
	i, _ := slices.BinarySearch(r.order, id)
	r.order = slices.Insert(r.order, i, id)
	return n, nil
}

func (r *registry) remove(id NodeID) bool {
	if _, ok := r.nodes[id]; !ok {
		return false
	}
	delete(r.nodes, id)
	if i, ok := slices.BinarySearch(r.order, id); ok {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

// ids returns the node ids in ascending order.
func (r *registry) ids() []NodeID {
	return slices.Clone(r.order)
}

func (r *registry) len() int { return len(r.order) }

// clone deep copies the registry, bus configurations included. Processors are shared.
func (r *registry) clone() registry {
	c := registry{
		nodes:  make(map[NodeID]*node, len(r.nodes)),
		order:  slices.Clone(r.order),
		nextID: r.nextID,
	}
	for id, n := range r.nodes {
		c.nodes[id] = n.clone()
	}
	return c
}

func checkBusLimits(c *bus.Configuration) error {
	for _, dir := range bus.Directions {
		if c.BusCount(dir) > bus.MaxBuses {
			return fmt.Errorf("%d %s buses: %w", c.BusCount(dir), dir, ErrBusLimits)
		}
		for i := range c.BusCount(dir) {
			if b := c.Bus(dir, i); b.NumChannels() > bus.MaxBusChannels || b.DefaultLayout().Size() > bus.MaxBusChannels {
				return fmt.Errorf("%s bus %d: %w", dir, i, ErrBusLimits)
			}
		}
	}
	return nil
}
