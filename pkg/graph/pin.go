package graph

import (
	"fmt"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
)

// EventChannel is the channel index of a node's event (MIDI) pin, one per direction.
// It lies outside every audio channel range: a direction has at most
// bus.MaxBuses buses of at most bus.MaxBusChannels channels.
const EventChannel = 0x1000

// Fails to compile if audio indices could reach EventChannel.
const _ = uint(EventChannel - bus.MaxBuses*bus.MaxBusChannels)

// Pin addresses one channel of one node. Channel is flattened across all
// buses of the direction, or EventChannel.
type Pin struct {
	Node      NodeID
	Direction bus.Direction
	Channel   int
}

// IsEvent reports whether the pin is the event pin.
func (p Pin) IsEvent() bool { return p.Channel == EventChannel }

// MediaType returns what flows through the pin.
func (p Pin) MediaType() bus.MediaType {
	if p.IsEvent() {
		return bus.MediaTypeEvent
	}
	return bus.MediaTypeAudio
}

func (p Pin) String() string {
	if p.IsEvent() {
		return fmt.Sprintf("%d:%s:events", p.Node, p.Direction)
	}
	return fmt.Sprintf("%d:%s:%d", p.Node, p.Direction, p.Channel)
}
