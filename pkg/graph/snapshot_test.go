package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

func TestTopologicalOrder(t *testing.T) {
	g := New()
	var ids []NodeID
	for i := 0; i < 5; i++ {
		id, _ := g.AddNode(effect(plugin.WithSumming()))
		ids = append(ids, id)
	}
	// 5 -> 2 -> 1, 4 -> 1, 3 alone
	require.True(t, g.AddConnection(ids[4], 0, ids[1], 0))
	require.True(t, g.AddConnection(ids[1], 0, ids[0], 0))
	require.True(t, g.AddConnection(ids[3], 0, ids[0], 1))

	order := g.Snapshot().TopologicalOrder()
	assert.Equal(t, []NodeID{3, 4, 5, 2, 1}, order)
}

func TestSnapshotNode(t *testing.T) {
	g := New()
	synth, _ := g.AddNode(plugin.NewBase(plugin.Info{ID: "synth"}, bus.NewGenerator()))
	fx, _ := g.AddNode(plugin.NewBase(plugin.Info{ID: "fx"}, bus.NewSurround5_1Effect()))

	snap := g.Snapshot()
	n, ok := snap.Node(synth)
	require.True(t, ok)
	assert.True(t, n.AcceptsEvents)
	assert.False(t, n.ProducesEvents)
	assert.Equal(t, 2, n.NumChannels(bus.DirectionOutput))
	assert.Equal(t, 0, n.NumChannels(bus.DirectionInput))

	n, ok = snap.Node(fx)
	require.True(t, ok)
	assert.True(t, n.Layout.Inputs[0].Equal(channels.Create5point1()))
	assert.Equal(t, "fx", n.Processor.Info().ID)

	_, ok = snap.Node(77)
	assert.False(t, ok)
}

func TestSnapshotIsImmutable(t *testing.T) {
	g := New()
	a, _ := g.AddNode(effect())
	b, _ := g.AddNode(effect())
	old := g.Snapshot()

	require.True(t, g.AddConnection(a, 0, b, 0))

	assert.Empty(t, old.Connections)
	assert.Len(t, g.Snapshot().Connections, 1)
	assert.Greater(t, g.Snapshot().Version, old.Version)
	assert.Equal(t, []Connection{{a, 0, b, 0}}, g.Snapshot().Inputs(b))
}
