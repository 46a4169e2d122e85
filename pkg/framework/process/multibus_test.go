package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/midi"
)

func sidechainLayout(sidechain channels.Set) bus.Layout {
	return bus.Layout{
		Inputs:  []channels.Set{channels.Stereo(), sidechain},
		Outputs: []channels.Set{channels.Stereo(), channels.Mono()},
	}
}

func TestMultiBusContextLayout(t *testing.T) {
	m := NewMultiBusContext(NewContext(64, 48000), sidechainLayout(channels.Disabled()))

	require.Equal(t, 2, m.NumInputBuses())
	require.Equal(t, 2, m.NumOutputBuses())
	assert.Len(t, m.GetMainInput(), 2)
	assert.Empty(t, m.GetInputBus(1))
	assert.Nil(t, m.GetSidechainInput())
	assert.Nil(t, m.GetInputBus(5))
	assert.Equal(t, 64, m.NumSamples())

	// main stereo output then the mono aux
	assert.Same(t, &m.OutputBuses[1].Channels[0][0], &m.OutputChannel(2)[0])
	assert.Nil(t, m.OutputChannel(3))
	assert.Nil(t, m.InputChannel(-1))
}

func TestMultiBusContextSidechain(t *testing.T) {
	m := NewMultiBusContext(NewContext(16, 48000), sidechainLayout(channels.Stereo()))

	called := false
	m.ProcessWithSidechain(func(main, sc, out [][]float32) {
		called = true
		assert.Len(t, sc, 2)
	})
	assert.True(t, called)

	var enabled []int
	m.ProcessInputBuses(func(i int, _ [][]float32) { enabled = append(enabled, i) })
	assert.Equal(t, []int{0, 1}, enabled)
}

func TestMultiBusContextBlockSize(t *testing.T) {
	m := NewMultiBusContext(NewContext(64, 48000), sidechainLayout(channels.Stereo()))

	m.SetBlockSize(16)
	assert.Equal(t, 16, m.NumSamples())
	assert.Len(t, m.Input[0], 16)
	assert.Len(t, m.InputBuses[1].Channels[1], 16)
	assert.Len(t, m.OutputChannel(2), 16)

	m.SetBlockSize(1000)
	assert.Equal(t, 64, m.NumSamples())
}

func TestMultiBusContextPassThrough(t *testing.T) {
	m := NewMultiBusContext(NewContext(8, 48000), sidechainLayout(channels.Stereo()))
	for _, in := range m.InputBuses {
		for _, ch := range in.Channels {
			copy(ch, filled(8, 0.5))
		}
	}

	m.PassThroughAll()
	assert.Equal(t, filled(8, 0.5), m.Output[1])
	// the aux pair is stereo in, mono out
	assert.Equal(t, filled(8, 0.5), m.OutputBuses[1].Channels[0])

	m.ClearAllOutputs()
	m.ClearAllInputs()
	assert.Equal(t, make([]float32, 8), m.Output[0])
	assert.Equal(t, make([]float32, 8), m.Input[0])
}

func TestMultiBusContextPassEvents(t *testing.T) {
	m := NewMultiBusContext(NewContext(16, 48000), bus.NewMIDIEffect().Layout())
	m.InEvents.Add(midi.NoteOnEvent{BaseEvent: midi.BaseEvent{Offset: 4}, NoteNumber: 60, Velocity: 1})
	m.OutEvents.Add(midi.NoteOffEvent{BaseEvent: midi.BaseEvent{Offset: 2}, NoteNumber: 59})

	m.PassEvents()
	require.Equal(t, 2, m.OutEvents.Len())
	assert.Equal(t, midi.EventTypeNoteOff, m.OutEvents.Events()[0].Type())
	assert.Equal(t, midi.EventTypeNoteOn, m.OutEvents.Events()[1].Type())
	assert.Equal(t, 1, m.InEvents.Len())
}
