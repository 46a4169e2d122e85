package nodes

import (
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
	"github.com/justyntemme/vst3graph/pkg/framework/process"
	"github.com/justyntemme/vst3graph/pkg/midi"
)

// Sink is an output node, e.g. a device output. It has no render routine;
// the renderer fills its inputs and nothing reads them but the host.
type Sink struct {
	*plugin.Base
}

// NewSink creates a sink with one input bus carrying set.
func NewSink(set channels.Set, opts ...plugin.Option) *Sink {
	return &Sink{Base: plugin.NewBase(plugin.Info{
		ID:       "com.vst3graph.sink",
		Name:     "Sink",
		Vendor:   vendor,
		Category: "Output",
	}, bus.NewAudioSink(set), opts...)}
}

// Mixer is a mixer channel strip: the main output carries the input and every
// enabled send carries it scaled by SendLevel.
type Mixer struct {
	*plugin.Base
	SendLevel float32
}

// NewMixer creates a channel strip with sends aux outputs, disabled until enabled.
func NewMixer(sends int, opts ...plugin.Option) *Mixer {
	return &Mixer{
		Base: plugin.NewBase(plugin.Info{
			ID:       "com.vst3graph.mixer",
			Name:     "Mixer Channel",
			Vendor:   vendor,
			Category: "Fx|Mixing",
		}, bus.NewMixerChannel(sends), opts...),
		SendLevel: 1,
	}
}

// ProcessBlock implements process.Processor.
func (m *Mixer) ProcessBlock(ctx *process.MultiBusContext) {
	in := ctx.GetMainInput()
	ctx.ProcessOutputBuses(func(busIndex int, out [][]float32) {
		for ch := 0; ch < min(len(in), len(out)); ch++ {
			copy(out[ch], in[ch])
			if busIndex > 0 {
				process.Gain(out[ch], m.SendLevel)
			}
		}
	})
}

// Splitter copies its input to every output bus.
type Splitter struct {
	*plugin.Base
}

// NewSplitter creates a stereo splitter with outputs output buses.
func NewSplitter(outputs int, opts ...plugin.Option) *Splitter {
	return &Splitter{Base: plugin.NewBase(plugin.Info{
		ID:       "com.vst3graph.splitter",
		Name:     "Splitter",
		Vendor:   vendor,
		Category: "Fx|Routing",
	}, bus.NewSplitter(outputs), opts...)}
}

// ProcessBlock implements process.Processor.
func (s *Splitter) ProcessBlock(ctx *process.MultiBusContext) {
	in := ctx.GetMainInput()
	ctx.ProcessOutputBuses(func(_ int, out [][]float32) {
		for ch := 0; ch < min(len(in), len(out)); ch++ {
			copy(out[ch], in[ch])
		}
	})
}

// EventFilter routes events only: one event input, one event output, no
// audio. Notes are shifted by Transpose semitones on the way through.
type EventFilter struct {
	*plugin.Base
	Transpose int
}

// NewEventFilter creates a MIDI effect node.
func NewEventFilter(opts ...plugin.Option) *EventFilter {
	return &EventFilter{Base: plugin.NewBase(plugin.Info{
		ID:       "com.vst3graph.events",
		Name:     "Event Filter",
		Vendor:   vendor,
		Category: "Fx|Event",
	}, bus.NewMIDIEffect(), opts...)}
}

// ProcessBlock implements process.Processor.
func (f *EventFilter) ProcessBlock(ctx *process.MultiBusContext) {
	for _, e := range ctx.InEvents.Events() {
		ctx.OutEvents.Add(midi.Transpose(e, f.Transpose))
	}
}

var (
	_ process.Processor = (*Mixer)(nil)
	_ process.Processor = (*Splitter)(nil)
	_ process.Processor = (*EventFilter)(nil)
)
