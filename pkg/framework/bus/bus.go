// Package bus provides plugin bus descriptors and their channel layouts.
package bus

import (
	"fmt"

	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Directions lists both directions, inputs first.
var Directions = [...]Direction{DirectionInput, DirectionOutput}

// String returns "input" or "output".
func (d Direction) String() string {
	if d == DirectionInput {
		return "input"
	}
	return "output"
}

// MediaType represents what a pin carries
type MediaType int32

const (
	// MediaTypeAudio represents an audio channel pin
	MediaTypeAudio MediaType = 0
	// MediaTypeEvent represents the event (MIDI) stream pin
	MediaTypeEvent MediaType = 1
)

// String returns "audio" or "event".
func (m MediaType) String() string {
	if m == MediaTypeEvent {
		return "event"
	}
	return "audio"
}

// Type represents the bus type
type Type int32

const (
	// TypeMain represents main bus
	TypeMain Type = 0
	// TypeAux represents auxiliary bus
	TypeAux Type = 1
)

// Bus is one named group of channels on one side of a node.
//
// Besides the current layout a bus remembers its default layout and the last
// enabled layout, so disabling and re-enabling restores the previous arrangement.
type Bus struct {
	name        string
	direction   Direction
	busType     Type
	current     channels.Set
	def         channels.Set
	lastEnabled channels.Set
}

// New creates an enabled bus using def as default and current layout.
func New(name string, direction Direction, busType Type, def channels.Set) *Bus {
	return &Bus{
		name:        name,
		direction:   direction,
		busType:     busType,
		current:     def,
		def:         def,
		lastEnabled: def,
	}
}

// Name returns the bus name.
func (b *Bus) Name() string { return b.name }

// Direction returns the bus direction.
func (b *Bus) Direction() Direction { return b.direction }

// Type returns main or aux.
func (b *Bus) Type() Type { return b.busType }

// CurrentLayout returns the layout the bus carries now.
func (b *Bus) CurrentLayout() channels.Set { return b.current }

// DefaultLayout returns the layout the bus was declared with.
func (b *Bus) DefaultLayout() channels.Set { return b.def }

// LastEnabledLayout returns the most recent non-disabled layout.
func (b *Bus) LastEnabledLayout() channels.Set { return b.lastEnabled }

// IsEnabled reports whether the bus currently carries channels.
func (b *Bus) IsEnabled() bool { return !b.current.IsDisabled() }

// NumChannels returns the channel count of the current layout.
func (b *Bus) NumChannels() int { return b.current.Size() }

// Apply makes set the current layout and reports whether anything changed.
func (b *Bus) Apply(set channels.Set) bool {
	if !set.IsDisabled() {
		b.lastEnabled = set
	}
	if b.current.Equal(set) {
		return false
	}
	b.current = set
	return true
}

// Restore puts back a previously observed current and last enabled layout,
// undoing Apply calls made since.
func (b *Bus) Restore(current, lastEnabled channels.Set) {
	b.current = current
	b.lastEnabled = lastEnabled
}

func (b *Bus) clone() *Bus {
	c := *b
	return &c
}

// Configuration manages the input and output buses of one node
type Configuration struct {
	inputs  []*Bus
	outputs []*Bus

	eventInput  string
	eventOutput string
}

// NewStereoConfiguration creates a standard stereo I/O configuration
func NewStereoConfiguration() *Configuration {
	return &Configuration{
		inputs:  []*Bus{New("Stereo In", DirectionInput, TypeMain, channels.Stereo())},
		outputs: []*Bus{New("Stereo Out", DirectionOutput, TypeMain, channels.Stereo())},
	}
}

// NewMonoConfiguration creates a mono I/O configuration
func NewMonoConfiguration() *Configuration {
	return &Configuration{
		inputs:  []*Bus{New("Mono In", DirectionInput, TypeMain, channels.Mono())},
		outputs: []*Bus{New("Mono Out", DirectionOutput, TypeMain, channels.Mono())},
	}
}

func (c *Configuration) list(direction Direction) *[]*Bus {
	if direction == DirectionInput {
		return &c.inputs
	}
	return &c.outputs
}

// BusCount returns the number of buses for a given direction
func (c *Configuration) BusCount(direction Direction) int {
	return len(*c.list(direction))
}

// Bus returns a specific bus, or nil when the index is out of range
func (c *Configuration) Bus(direction Direction, index int) *Bus {
	buses := *c.list(direction)
	if index < 0 || index >= len(buses) {
		return nil
	}
	return buses[index]
}

// Layout returns the current layouts of every bus.
func (c *Configuration) Layout() Layout {
	l := Layout{
		Inputs:  make([]channels.Set, len(c.inputs)),
		Outputs: make([]channels.Set, len(c.outputs)),
	}
	for i, b := range c.inputs {
		l.Inputs[i] = b.current
	}
	for i, b := range c.outputs {
		l.Outputs[i] = b.current
	}
	return l
}

// TotalChannels returns the number of channels over all enabled buses of a direction.
func (c *Configuration) TotalChannels(direction Direction) int {
	total := 0
	for _, b := range *c.list(direction) {
		total += b.NumChannels()
	}
	return total
}

// ChannelOffset resolves a channel index flattened across all buses of a
// direction into a bus index and the channel within that bus.
func (c *Configuration) ChannelOffset(direction Direction, absolute int) (busIndex, channel int, ok bool) {
	if absolute < 0 {
		return 0, 0, false
	}
	for i, b := range *c.list(direction) {
		n := b.NumChannels()
		if absolute < n {
			return i, absolute, true
		}
		absolute -= n
	}
	return 0, 0, false
}

// AbsoluteChannel is the inverse of ChannelOffset.
func (c *Configuration) AbsoluteChannel(direction Direction, busIndex, channel int) (int, bool) {
	buses := *c.list(direction)
	if busIndex < 0 || busIndex >= len(buses) || channel < 0 || channel >= buses[busIndex].NumChannels() {
		return 0, false
	}
	offset := 0
	for _, b := range buses[:busIndex] {
		offset += b.NumChannels()
	}
	return offset + channel, true
}

// AddBus appends a new enabled aux bus and returns it.
func (c *Configuration) AddBus(direction Direction, name string, def channels.Set) *Bus {
	b := New(name, direction, TypeAux, def)
	list := c.list(direction)
	*list = append(*list, b)
	return b
}

// RemoveLastBus drops the last bus of a direction.
func (c *Configuration) RemoveLastBus(direction Direction) error {
	list := c.list(direction)
	if len(*list) == 0 {
		return fmt.Errorf("no %s bus to remove", direction)
	}
	*list = (*list)[:len(*list)-1]
	return nil
}

// AcceptsEvents reports whether the node has an event input.
func (c *Configuration) AcceptsEvents() bool { return c.eventInput != "" }

// ProducesEvents reports whether the node has an event output.
func (c *Configuration) ProducesEvents() bool { return c.eventOutput != "" }

// EventBusName returns the name of the event bus of a direction, or "".
func (c *Configuration) EventBusName(direction Direction) string {
	if direction == DirectionInput {
		return c.eventInput
	}
	return c.eventOutput
}

// SetEventBus adds or removes (empty name) the event bus of a direction.
func (c *Configuration) SetEventBus(direction Direction, name string) {
	if direction == DirectionInput {
		c.eventInput = name
	} else {
		c.eventOutput = name
	}
}

// HasSidechain reports whether there is an aux input bus.
func (c *Configuration) HasSidechain() bool {
	return c.SidechainBus() != nil
}

// SidechainBus returns the first aux input bus, or nil.
func (c *Configuration) SidechainBus() *Bus {
	for _, b := range c.inputs {
		if b.busType == TypeAux {
			return b
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Configuration) Clone() *Configuration {
	out := &Configuration{
		inputs:      make([]*Bus, len(c.inputs)),
		outputs:     make([]*Bus, len(c.outputs)),
		eventInput:  c.eventInput,
		eventOutput: c.eventOutput,
	}
	for i, b := range c.inputs {
		out.inputs[i] = b.clone()
	}
	for i, b := range c.outputs {
		out.outputs[i] = b.clone()
	}
	return out
}
