package nodes

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/vst3graph/pkg/config"
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/debug"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
	"github.com/justyntemme/vst3graph/pkg/framework/process"
	"github.com/justyntemme/vst3graph/pkg/graph"
	"github.com/justyntemme/vst3graph/pkg/midi"
)

const block = 16

func rig(t *testing.T) (*graph.Graph, *process.Renderer) {
	t.Helper()
	log := debug.New(io.Discard, "test", debug.LogLevelOff)
	r := process.NewRenderer(48000, block, log)
	return graph.New(graph.WithConsumer(r), graph.WithLogger(log)), r
}

func add(t *testing.T, g *graph.Graph, p plugin.Processor) graph.NodeID {
	t.Helper()
	id, ok := g.AddNode(p)
	require.True(t, ok)
	return id
}

func connectAll(t *testing.T, g *graph.Graph, src graph.NodeID, srcOffset int, dst graph.NodeID, dstOffset, n int) {
	t.Helper()
	for ch := 0; ch < n; ch++ {
		require.True(t, g.AddConnection(src, srcOffset+ch, dst, dstOffset+ch), "channel %d", ch)
	}
}

func inputs(t *testing.T, r *process.Renderer, id graph.NodeID) [][]float32 {
	t.Helper()
	var out [][]float32
	require.True(t, r.Inspect(id, func(ctx *process.MultiBusContext) {
		for _, b := range ctx.InputBuses {
			for _, ch := range b.Channels {
				out = append(out, append([]float32(nil), ch...))
			}
		}
	}))
	return out
}

func constant(v float32) []float32 {
	buf := make([]float32, block)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestGainChain(t *testing.T) {
	g, r := rig(t)
	src := add(t, g, NewSource(channels.Stereo(), 0.25))
	fx := add(t, g, NewGain(nil, 3))
	out := add(t, g, NewSink(channels.Stereo()))
	connectAll(t, g, src, 0, fx, 0, 2)
	connectAll(t, g, fx, 0, out, 0, 2)

	require.True(t, r.ProcessBlock(block))
	got := inputs(t, r, out)
	assert.Equal(t, constant(0.75), got[0])
	assert.Equal(t, constant(0.75), got[1])
}

func TestDuckerSidechain(t *testing.T) {
	g, r := rig(t)
	music := add(t, g, NewSource(channels.Stereo(), 0.5))
	voice := add(t, g, NewSource(channels.Stereo(), 0.5))
	duck := add(t, g, NewDucker(1))
	out := add(t, g, NewSink(channels.Stereo()))

	connectAll(t, g, music, 0, duck, 0, 2)
	connectAll(t, g, duck, 0, out, 0, 2)

	// the sidechain bus starts disabled, so it has no pins yet
	assert.False(t, g.CanConnect(voice, 0, duck, 2))

	set, outcome := g.SetBusEnabled(duck, bus.DirectionInput, 1, true)
	require.NotEqual(t, graph.Rejected, outcome)
	require.True(t, set.Equal(channels.Stereo()))
	connectAll(t, g, voice, 0, duck, 2, 2)

	require.True(t, r.ProcessBlock(block))
	// rms of the sidechain is 0.5, so half the signal is removed
	assert.Equal(t, constant(0.25), inputs(t, r, out)[0])
}

func TestDuckerWithoutSidechain(t *testing.T) {
	d := NewDucker(1)
	assert.Equal(t, float32(1), d.Reduction(nil))
	assert.Equal(t, float32(0), d.Reduction([][]float32{constant(2)}))
}

func TestSurroundPanner(t *testing.T) {
	g, r := rig(t)
	src := add(t, g, NewSource(channels.Stereo(), 1))
	pan := NewSurroundPanner()
	pan.Angle = 180
	pan.LFE = 1
	pid := add(t, g, pan)
	out := add(t, g, NewSink(channels.Create5point1()))
	connectAll(t, g, src, 0, pid, 0, 2)
	connectAll(t, g, pid, 0, out, 0, 6)

	require.True(t, r.ProcessBlock(block))
	got := inputs(t, r, out)
	require.Len(t, got, 6)
	// L R C Lfe Ls Rs
	assert.InDelta(t, 0, got[0][0], 1e-6)
	assert.InDelta(t, 0, got[1][0], 1e-6)
	assert.InDelta(t, 0.5, got[2][0], 1e-6)
	assert.InDelta(t, 1, got[3][0], 1e-6)
	assert.InDelta(t, 1, got[4][0], 1e-6)
	assert.InDelta(t, 1, got[5][0], 1e-6)
}

func TestSurroundPannerGains(t *testing.T) {
	p := NewSurroundPanner()
	front, rear := p.gains()
	assert.Equal(t, float32(1), front)
	assert.Zero(t, rear)

	p.Angle = 90
	front, rear = p.gains()
	assert.InDelta(t, math.Sqrt2/2, front, 1e-6)
	assert.InDelta(t, math.Sqrt2/2, rear, 1e-6)
}

func TestMixerSends(t *testing.T) {
	g, r := rig(t)
	src := add(t, g, NewSource(channels.Stereo(), 0.5))
	mix := NewMixer(2)
	mix.SendLevel = 0.5
	mid := add(t, g, mix)
	main := add(t, g, NewSink(channels.Stereo()))
	send := add(t, g, NewSink(channels.Stereo()))

	connectAll(t, g, src, 0, mid, 0, 2)
	connectAll(t, g, mid, 0, main, 0, 2)
	_, outcome := g.SetBusEnabled(mid, bus.DirectionOutput, 2, true)
	require.Equal(t, graph.Applied, outcome)
	// send 2 follows main out and the disabled send 1
	connectAll(t, g, mid, 2, send, 0, 2)

	require.True(t, r.ProcessBlock(block))
	assert.Equal(t, constant(0.5), inputs(t, r, main)[0])
	assert.Equal(t, constant(0.25), inputs(t, r, send)[1])
}

func TestSplitter(t *testing.T) {
	g, r := rig(t)
	src := add(t, g, NewSource(channels.Stereo(), 0.5))
	split := add(t, g, NewSplitter(3))
	out := add(t, g, NewSink(channels.Stereo()))
	connectAll(t, g, src, 0, split, 0, 2)
	connectAll(t, g, split, 4, out, 0, 2)

	require.True(t, r.ProcessBlock(block))
	assert.Equal(t, constant(0.5), inputs(t, r, out)[1])
}

func TestGeneratorEvents(t *testing.T) {
	g, r := rig(t)
	filter := add(t, g, NewEventFilter())
	gen := NewGenerator(1000)
	gid := add(t, g, gen)
	out := add(t, g, NewSink(channels.Stereo()))

	require.True(t, g.AddConnection(filter, graph.EventChannel, gid, graph.EventChannel))
	assert.False(t, g.CanConnect(filter, graph.EventChannel, out, 0))
	connectAll(t, g, gid, 0, out, 0, 2)

	require.True(t, r.ProcessBlock(block))
	got := inputs(t, r, out)
	assert.Zero(t, got[0][0])
	assert.InDelta(t, 0.5*math.Sin(2*math.Pi*1000/48000), got[0][1], 1e-6)
	assert.Equal(t, got[0], got[1])
}

func TestSequencerThroughFilter(t *testing.T) {
	g, r := rig(t)
	seq := add(t, g, NewSequencer([]uint8{60, 62}, 8))
	filter := NewEventFilter()
	filter.Transpose = 12
	fid := add(t, g, filter)
	dst := add(t, g, plugin.NewBase(plugin.Info{ID: "test.events"}, bus.NewMIDIEffect()))

	require.True(t, g.AddConnection(seq, graph.EventChannel, fid, graph.EventChannel))
	require.True(t, g.AddConnection(fid, graph.EventChannel, dst, graph.EventChannel))

	require.True(t, r.ProcessBlock(block))
	var got []string
	require.True(t, r.Inspect(dst, func(ctx *process.MultiBusContext) {
		for _, e := range ctx.InEvents.Events() {
			got = append(got, e.String())
		}
	}))
	assert.Equal(t, []string{
		"NoteOn{ch:0, note:72, vel:100, offset:0}",
		"NoteOff{ch:0, note:72, vel:0, offset:8}",
		"NoteOn{ch:0, note:74, vel:100, offset:8}",
	}, got)
}

func TestSequencerAcrossBlocks(t *testing.T) {
	seq := NewSequencer([]uint8{60}, 24)
	ctx := process.NewMultiBusContext(process.NewContext(block, 48000), seq.Buses().Layout())

	seq.ProcessBlock(ctx)
	assert.Equal(t, 1, ctx.OutEvents.Len())

	ctx.OutEvents.Clear()
	seq.ProcessBlock(ctx)
	events := ctx.OutEvents.Events()
	require.Len(t, events, 2)
	assert.Equal(t, int32(8), events[0].SampleOffset())
	assert.Equal(t, midi.EventTypeNoteOff, events[0].Type())
	assert.Equal(t, midi.EventTypeNoteOn, events[1].Type())
}

func TestGeneratorFollowsNotes(t *testing.T) {
	gen := NewGenerator(1000)
	ctx := process.NewMultiBusContext(process.NewContext(block, 48000), gen.Buses().Layout())
	ctx.InEvents.Add(midi.NoteOnEvent{BaseEvent: midi.BaseEvent{Offset: 4}, NoteNumber: 69, Velocity: 127})
	ctx.InEvents.Add(midi.NoteOffEvent{BaseEvent: midi.BaseEvent{Offset: 12}, NoteNumber: 69})

	gen.ProcessBlock(ctx)
	out := ctx.GetMainOutput()[0]
	// drone until the note, then a fresh 440 Hz cycle
	assert.InDelta(t, 0.5*math.Sin(3*2*math.Pi*1000/48000), out[3], 1e-6)
	assert.Zero(t, out[4])
	assert.InDelta(t, 0.5*math.Sin(2*math.Pi*440/48000), out[5], 1e-6)
	assert.Equal(t, make([]float32, 4), out[12:])
	assert.False(t, gen.Sounding())
	assert.InDelta(t, 440.0, gen.Frequency, 1e-9)

	ctx.ClearAllOutputs()
	ctx.InEvents.Clear()
	ctx.InEvents.Add(midi.ControlChangeEvent{Controller: midi.CCVolume, Value: 127})
	gen.ProcessBlock(ctx)
	assert.Equal(t, make([]float32, block), ctx.GetMainOutput()[0])
	assert.Equal(t, float32(1), gen.Level)
}

func TestFromSpec(t *testing.T) {
	tests := []struct {
		spec config.NodeSpec
		want any
	}{
		{config.NodeSpec{Name: "a", Kind: config.KindSource, Layout: "mono", Value: 1}, &Source{}},
		{config.NodeSpec{Name: "b", Kind: config.KindSink}, &Sink{}},
		{config.NodeSpec{Name: "c", Kind: config.KindEffect, Policy: "symmetric"}, &Gain{}},
		{config.NodeSpec{Name: "d", Kind: config.KindMultiChannel, Layout: "discrete:10", Policy: "flexible", MaxChannels: 16}, &Gain{}},
		{config.NodeSpec{Name: "e", Kind: config.KindSidechain}, &Ducker{}},
		{config.NodeSpec{Name: "f", Kind: config.KindSurround}, &SurroundPanner{}},
		{config.NodeSpec{Name: "g", Kind: config.KindMixer, Count: 2}, &Mixer{}},
		{config.NodeSpec{Name: "h", Kind: config.KindSplitter, Count: 2}, &Splitter{}},
		{config.NodeSpec{Name: "i", Kind: config.KindGenerator}, &Generator{}},
		{config.NodeSpec{Name: "j", Kind: config.KindMIDIEffect}, &EventFilter{}},
		{config.NodeSpec{Name: "k", Kind: config.KindSequencer, Notes: []uint8{60}}, &Sequencer{}},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Kind, func(t *testing.T) {
			p, err := FromSpec(tt.spec)
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}

	t.Run("Layout", func(t *testing.T) {
		p, err := FromSpec(config.NodeSpec{Name: "m", Kind: config.KindSource, Layout: "5.1"})
		require.NoError(t, err)
		assert.True(t, p.Buses().Bus(bus.DirectionOutput, 0).DefaultLayout().Equal(channels.Create5point1()))
	})

	t.Run("Events", func(t *testing.T) {
		p, err := FromSpec(config.NodeSpec{Name: "up", Kind: config.KindMIDIEffect, Transpose: -5})
		require.NoError(t, err)
		assert.Equal(t, -5, p.(*EventFilter).Transpose)

		p, err = FromSpec(config.NodeSpec{Name: "seq", Kind: config.KindSequencer})
		require.NoError(t, err)
		assert.Equal(t, defaultNoteLength, p.(*Sequencer).NoteLength)
		assert.True(t, p.Buses().ProducesEvents())
	})

	t.Run("Summing", func(t *testing.T) {
		p, err := FromSpec(config.NodeSpec{Name: "s", Kind: config.KindSink, Summing: true})
		require.NoError(t, err)
		assert.True(t, p.(plugin.SummingInput).SumsInputs())
	})

	t.Run("MaxBuses", func(t *testing.T) {
		p, err := FromSpec(config.NodeSpec{Name: "s", Kind: config.KindEffect, MaxBuses: 3})
		require.NoError(t, err)
		assert.True(t, p.CanAddBus(bus.DirectionInput))
		assert.False(t, p.CanRemoveBus(bus.DirectionInput))
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := FromSpec(config.NodeSpec{Name: "x", Kind: "reverb"})
		assert.ErrorContains(t, err, "unknown kind")
		_, err = FromSpec(config.NodeSpec{Name: "x", Kind: config.KindSink, Policy: "loose"})
		assert.ErrorContains(t, err, "unknown policy")
		_, err = FromSpec(config.NodeSpec{Name: "x", Kind: config.KindSink, Layout: "Q"})
		assert.Error(t, err)
		_, err = FromSpec(config.NodeSpec{Name: "x", Kind: config.KindSink, Layout: "disabled"})
		assert.ErrorContains(t, err, "is disabled")
		p, err := FromSpec(config.NodeSpec{Name: "x", Kind: config.KindSink})
		require.NoError(t, err)
		assert.True(t, p.Buses().Bus(bus.DirectionInput, 0).CurrentLayout().Equal(channels.Stereo()), "empty layout is stereo")
	})
}
