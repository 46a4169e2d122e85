package bus

import (
	"fmt"

	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

// Common bus configuration templates for different plugin types

// NewEffectStereo creates a standard stereo effect configuration (1 stereo in, 1 stereo out)
func NewEffectStereo() *Configuration {
	return NewBuilder().
		WithStereoInput("Stereo In").
		WithStereoOutput("Stereo Out").
		MustBuild()
}

// NewEffectMono creates a mono effect configuration (1 mono in, 1 mono out)
func NewEffectMono() *Configuration {
	return NewBuilder().
		WithMonoInput("Mono In").
		WithMonoOutput("Mono Out").
		MustBuild()
}

// NewEffectStereoSidechain creates a stereo effect with sidechain input
// Main: stereo in/out, Aux: stereo sidechain in (disabled until enabled)
func NewEffectStereoSidechain() *Configuration {
	return NewBuilder().
		WithStereoInput("Stereo In").
		WithStereoOutput("Stereo Out").
		WithSidechain("Sidechain In").
		MustBuild()
}

// NewSurroundPanner creates a configuration for surround panning
// Stereo input to 5.1 output
func NewSurroundPanner() *Configuration {
	return NewBuilder().
		WithStereoInput("Stereo In").
		With5_1Output("5.1 Out").
		MustBuild()
}

// NewSurround5_1Effect creates a 5.1 surround effect configuration
func NewSurround5_1Effect() *Configuration {
	return NewBuilder().
		With5_1Input("5.1 In").
		With5_1Output("5.1 Out").
		MustBuild()
}

// NewSurround7_1Effect creates a 7.1 surround effect configuration
func NewSurround7_1Effect() *Configuration {
	return NewBuilder().
		With7_1Input("7.1 In").
		With7_1Output("7.1 Out").
		MustBuild()
}

// NewMixerChannel creates a mixer channel configuration
// Stereo in, main out plus numSends aux send outputs
func NewMixerChannel(numSends int) *Configuration {
	b := NewBuilder().
		WithStereoInput("Channel In").
		WithStereoOutput("Main Out")

	for i := 0; i < numSends; i++ {
		b = b.WithAuxOutput(fmt.Sprintf("Send %d", i+1), channels.Stereo())
	}

	return b.MustBuild()
}

// NewGenerator creates a generator/instrument configuration
// No audio input, stereo output, MIDI input
func NewGenerator() *Configuration {
	return NewBuilder().
		WithStereoOutput("Stereo Out").
		WithEventInput("MIDI In").
		MustBuild()
}

// NewMIDIEffect creates a MIDI effect configuration
// MIDI in/out, no audio
func NewMIDIEffect() *Configuration {
	return NewBuilder().
		WithEventInput("MIDI In").
		WithEventOutput("MIDI Out").
		MustBuild()
}

// NewEventSource creates an event-only source, e.g. a sequencer or MIDI input
func NewEventSource() *Configuration {
	return NewBuilder().
		WithEventOutput("MIDI Out").
		MustBuild()
}

// NewAudioSource creates a source with outputs only, e.g. a device input node
func NewAudioSource(set channels.Set) *Configuration {
	return NewBuilder().
		WithOutput("Out", set).
		MustBuild()
}

// NewAudioSink creates a sink with a single input, e.g. a device output node.
// Sinks have no output bus, so they bypass Validate.
func NewAudioSink(set channels.Set) *Configuration {
	return &Configuration{
		inputs: []*Bus{New("In", DirectionInput, TypeMain, set)},
	}
}

// NewMultiChannelEffect creates a flexible multi-channel effect
func NewMultiChannelEffect(numChannels int) *Configuration {
	set := channels.Named(numChannels)
	if set.IsDisabled() {
		set = channels.Discrete(numChannels)
	}
	return NewBuilder().
		WithInput("Multi In", set).
		WithOutput("Multi Out", set).
		MustBuild()
}

// NewSplitter creates a signal splitter configuration
// One input, multiple identical outputs
func NewSplitter(numOutputs int) *Configuration {
	b := NewBuilder().
		WithStereoInput("Input")

	for i := 0; i < numOutputs; i++ {
		b = b.WithStereoOutput(fmt.Sprintf("Output %d", i+1))
	}

	return b.MustBuild()
}
