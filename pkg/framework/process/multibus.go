package process

import (
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/midi"
)

const eventCapacity = 64

// BusBuffers represents audio buffers for a single bus
type BusBuffers struct {
	Channels [][]float32
	Layout   channels.Set

	// full holds the max block sized backing slices Channels is resliced from.
	full [][]float32
}

func newBusBuffers(set channels.Set, maxBlockSize int) BusBuffers {
	b := BusBuffers{
		Layout:   set,
		Channels: make([][]float32, set.Size()),
		full:     make([][]float32, set.Size()),
	}
	for ch := range b.full {
		b.full[ch] = make([]float32, maxBlockSize)
		b.Channels[ch] = b.full[ch]
	}
	return b
}

// IsEnabled reports whether the bus carries any channel.
func (b BusBuffers) IsEnabled() bool {
	return len(b.Channels) > 0
}

// MultiBusContext extends Context with multi-bus support.
//
// Bus 0 of each direction is the main bus; its channels are also exposed as
// Context.Input and Context.Output.
type MultiBusContext struct {
	*Context

	// Multi-bus audio buffers
	InputBuses  []BusBuffers
	OutputBuses []BusBuffers

	// Events arriving over event connections, and events for downstream nodes.
	InEvents  *midi.Buffer
	OutEvents *midi.Buffer

	Layout bus.Layout
}

// NewMultiBusContext allocates buffers for every bus of layout. Disabled buses get no channels.
func NewMultiBusContext(ctx *Context, layout bus.Layout) *MultiBusContext {
	m := &MultiBusContext{
		Context:     ctx,
		InputBuses:  make([]BusBuffers, len(layout.Inputs)),
		OutputBuses: make([]BusBuffers, len(layout.Outputs)),
		InEvents:    midi.NewBuffer(eventCapacity),
		OutEvents:   midi.NewBuffer(eventCapacity),
		Layout:      layout.Clone(),
	}
	for i, set := range layout.Inputs {
		m.InputBuses[i] = newBusBuffers(set, ctx.MaxBlockSize())
	}
	for i, set := range layout.Outputs {
		m.OutputBuses[i] = newBusBuffers(set, ctx.MaxBlockSize())
	}
	m.SetBlockSize(ctx.MaxBlockSize())
	return m
}

// SetBlockSize reslices every channel to n samples. n is clamped to the
// allocated block size. Nothing is allocated.
func (m *MultiBusContext) SetBlockSize(n int) {
	n = max(0, min(n, m.MaxBlockSize()))
	m.numSamples = n
	for _, buses := range [][]BusBuffers{m.InputBuses, m.OutputBuses} {
		for i := range buses {
			for ch := range buses[i].full {
				buses[i].Channels[ch] = buses[i].full[ch][:n]
			}
		}
	}
	m.Input = m.GetMainInput()
	m.Output = m.GetMainOutput()
}

// GetMainInput returns the main input bus buffers
func (m *MultiBusContext) GetMainInput() [][]float32 {
	return m.GetInputBus(0)
}

// GetMainOutput returns the main output bus buffers
func (m *MultiBusContext) GetMainOutput() [][]float32 {
	return m.GetOutputBus(0)
}

// GetSidechainInput returns the first enabled aux input, or nil
func (m *MultiBusContext) GetSidechainInput() [][]float32 {
	for i := 1; i < len(m.InputBuses); i++ {
		if m.InputBuses[i].IsEnabled() {
			return m.InputBuses[i].Channels
		}
	}
	return nil
}

// GetInputBus returns a specific input bus by index
func (m *MultiBusContext) GetInputBus(index int) [][]float32 {
	if index >= 0 && index < len(m.InputBuses) {
		return m.InputBuses[index].Channels
	}
	return nil
}

// GetOutputBus returns a specific output bus by index
func (m *MultiBusContext) GetOutputBus(index int) [][]float32 {
	if index >= 0 && index < len(m.OutputBuses) {
		return m.OutputBuses[index].Channels
	}
	return nil
}

// NumInputBuses returns the number of input buses
func (m *MultiBusContext) NumInputBuses() int {
	return len(m.InputBuses)
}

// NumOutputBuses returns the number of output buses
func (m *MultiBusContext) NumOutputBuses() int {
	return len(m.OutputBuses)
}

// channel resolves a channel index flattened across the buses of a direction.
func (m *MultiBusContext) channel(direction bus.Direction, absolute int) []float32 {
	buses := m.InputBuses
	if direction == bus.DirectionOutput {
		buses = m.OutputBuses
	}
	if absolute < 0 {
		return nil
	}
	for _, b := range buses {
		if absolute < len(b.Channels) {
			return b.Channels[absolute]
		}
		absolute -= len(b.Channels)
	}
	return nil
}

// InputChannel returns one input channel by its flattened index, or nil.
func (m *MultiBusContext) InputChannel(absolute int) []float32 {
	return m.channel(bus.DirectionInput, absolute)
}

// OutputChannel returns one output channel by its flattened index, or nil.
func (m *MultiBusContext) OutputChannel(absolute int) []float32 {
	return m.channel(bus.DirectionOutput, absolute)
}

// ProcessInputBuses iterates through all enabled input buses
func (m *MultiBusContext) ProcessInputBuses(fn func(busIndex int, channels [][]float32)) {
	for i, b := range m.InputBuses {
		if b.IsEnabled() {
			fn(i, b.Channels)
		}
	}
}

// ProcessOutputBuses iterates through all enabled output buses
func (m *MultiBusContext) ProcessOutputBuses(fn func(busIndex int, channels [][]float32)) {
	for i, b := range m.OutputBuses {
		if b.IsEnabled() {
			fn(i, b.Channels)
		}
	}
}

// ProcessMainBuses processes only the main buses
func (m *MultiBusContext) ProcessMainBuses(fn func(input, output [][]float32)) {
	mainIn := m.GetMainInput()
	mainOut := m.GetMainOutput()
	if mainIn != nil && mainOut != nil {
		fn(mainIn, mainOut)
	}
}

// ProcessWithSidechain processes main I/O with sidechain
func (m *MultiBusContext) ProcessWithSidechain(fn func(main, sidechain, output [][]float32)) {
	mainIn := m.GetMainInput()
	sidechain := m.GetSidechainInput()
	mainOut := m.GetMainOutput()

	if mainIn != nil && mainOut != nil {
		// If no sidechain, pass nil
		fn(mainIn, sidechain, mainOut)
	}
}

// ClearAllInputs zeroes every input bus
func (m *MultiBusContext) ClearAllInputs() {
	for _, b := range m.InputBuses {
		for ch := range b.Channels {
			clear(b.Channels[ch])
		}
	}
}

// ClearAllOutputs clears all output buses
func (m *MultiBusContext) ClearAllOutputs() {
	for _, b := range m.OutputBuses {
		for ch := range b.Channels {
			clear(b.Channels[ch])
		}
	}
}

// PassThroughAll copies all inputs to corresponding outputs
func (m *MultiBusContext) PassThroughAll() {
	minBuses := min(len(m.InputBuses), len(m.OutputBuses))

	for busIdx := 0; busIdx < minBuses; busIdx++ {
		inChannels := m.InputBuses[busIdx].Channels
		outChannels := m.OutputBuses[busIdx].Channels

		for ch := 0; ch < min(len(inChannels), len(outChannels)); ch++ {
			copy(outChannels[ch], inChannels[ch])
		}
	}
}

// PassEvents forwards every input event to the output.
func (m *MultiBusContext) PassEvents() {
	m.OutEvents.Merge(m.InEvents)
}
