// Package nodes provides ready-made graph nodes: sources, effects and routing
// helpers built on plugin.Base that render through process.Renderer.
package nodes

import (
	"math"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
	"github.com/justyntemme/vst3graph/pkg/framework/process"
	"github.com/justyntemme/vst3graph/pkg/midi"
)

const vendor = "vst3graph"

// Source writes a constant to every output channel, e.g. a DC test signal
// standing in for a device input.
type Source struct {
	*plugin.Base
	Value float32
}

// NewSource creates a source with one output bus carrying set.
func NewSource(set channels.Set, value float32, opts ...plugin.Option) *Source {
	return &Source{
		Base: plugin.NewBase(plugin.Info{
			ID:       "com.vst3graph.source",
			Name:     "Source",
			Vendor:   vendor,
			Category: "Generator",
		}, bus.NewAudioSource(set), opts...),
		Value: value,
	}
}

// ProcessBlock implements process.Processor.
func (s *Source) ProcessBlock(ctx *process.MultiBusContext) {
	ctx.ProcessOutputBuses(func(_ int, chans [][]float32) {
		for _, ch := range chans {
			for i := range ch {
				ch[i] = s.Value
			}
		}
	})
}

// Generator is an instrument: a sine oscillator with an event input and a
// stereo output. Until the first note arrives it drones at Frequency; after
// that it sounds only while a note is held.
type Generator struct {
	*plugin.Base
	Frequency float64
	Level     float32

	phase    float64
	keyed    bool
	held     int
	velocity float32
}

// NewGenerator creates a sine generator at frequency Hz.
func NewGenerator(frequency float64, opts ...plugin.Option) *Generator {
	return &Generator{
		Base: plugin.NewBase(plugin.Info{
			ID:       "com.vst3graph.generator",
			Name:     "Sine Generator",
			Vendor:   vendor,
			Category: "Instrument|Synth",
		}, bus.NewGenerator(), opts...),
		Frequency: frequency,
		Level:     0.5,
		held:      -1,
		velocity:  1,
	}
}

// ProcessBlock implements process.Processor. Events take effect at their
// sample offset.
func (g *Generator) ProcessBlock(ctx *process.MultiBusContext) {
	out := ctx.GetMainOutput()
	if len(out) == 0 || ctx.SampleRate <= 0 {
		return
	}
	n := ctx.NumSamples()
	pos := 0
	for _, e := range ctx.InEvents.InRange(0, int32(n)) {
		at := int(e.SampleOffset())
		g.render(out, pos, at, ctx.SampleRate)
		pos = at
		g.handle(e)
	}
	g.render(out, pos, n, ctx.SampleRate)
}

func (g *Generator) handle(e midi.Event) {
	switch ev := e.(type) {
	case midi.NoteOnEvent:
		if ev.Velocity == 0 {
			g.release(int(ev.NoteNumber))
			return
		}
		g.keyed = true
		g.held = int(ev.NoteNumber)
		g.velocity = float32(ev.Velocity) / 127
		g.Frequency = midi.NoteToFrequency(ev.NoteNumber, 0)
		g.phase = 0
	case midi.NoteOffEvent:
		g.release(int(ev.NoteNumber))
	case midi.ControlChangeEvent:
		switch ev.Controller {
		case midi.CCVolume:
			g.Level = float32(ev.Value) / 127
		case midi.CCAllNotesOff:
			g.keyed = true
			g.held = -1
		}
	}
}

func (g *Generator) release(note int) {
	if g.held == note {
		g.held = -1
	}
}

// Sounding reports whether the oscillator is audible.
func (g *Generator) Sounding() bool {
	return !g.keyed || g.held >= 0
}

func (g *Generator) render(out [][]float32, from, to int, sampleRate float64) {
	if from >= to || !g.Sounding() {
		return
	}
	amp := g.Level * g.velocity
	inc := 2 * math.Pi * g.Frequency / sampleRate
	phase := g.phase
	for i := from; i < to; i++ {
		v := amp * float32(math.Sin(phase))
		for _, ch := range out {
			ch[i] = v
		}
		phase += inc
	}
	g.phase = math.Mod(phase, 2*math.Pi)
}

// Sequencer loops over Notes, starting one every NoteLength samples and
// releasing the previous one at the same offset.
type Sequencer struct {
	*plugin.Base
	Notes      []uint8
	NoteLength int
	Velocity   uint8

	pos     int
	next    int
	playing int
}

// NewSequencer creates an event-only source.
func NewSequencer(notes []uint8, noteLength int, opts ...plugin.Option) *Sequencer {
	return &Sequencer{
		Base: plugin.NewBase(plugin.Info{
			ID:       "com.vst3graph.sequencer",
			Name:     "Sequencer",
			Vendor:   vendor,
			Category: "Generator|Event",
		}, bus.NewEventSource(), opts...),
		Notes:      notes,
		NoteLength: noteLength,
		Velocity:   100,
		playing:    -1,
	}
}

// ProcessBlock implements process.Processor.
func (s *Sequencer) ProcessBlock(ctx *process.MultiBusContext) {
	if len(s.Notes) == 0 || s.NoteLength <= 0 {
		return
	}
	n := ctx.NumSamples()
	for i := 0; i < n; {
		if s.pos == 0 {
			at := midi.BaseEvent{Offset: int32(i)}
			if s.playing >= 0 {
				ctx.OutEvents.Add(midi.NoteOffEvent{BaseEvent: at, NoteNumber: uint8(s.playing)})
			}
			note := s.Notes[s.next%len(s.Notes)]
			ctx.OutEvents.Add(midi.NoteOnEvent{BaseEvent: at, NoteNumber: note, Velocity: s.Velocity})
			s.playing = int(note)
			s.next = (s.next + 1) % len(s.Notes)
		}
		step := min(n-i, s.NoteLength-s.pos)
		i += step
		s.pos = (s.pos + step) % s.NoteLength
	}
}

var (
	_ process.Processor = (*Source)(nil)
	_ process.Processor = (*Generator)(nil)
	_ process.Processor = (*Sequencer)(nil)
)
