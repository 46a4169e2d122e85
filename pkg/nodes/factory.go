package nodes

import (
	"fmt"
	"strings"

	"github.com/justyntemme/vst3graph/pkg/config"
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

const (
	defaultMaxChannels = 8
	defaultNoteLength  = 4800
)

// FromSpec builds the processor a session node declares. An empty layout
// means stereo; an explicitly disabled one is an error.
func FromSpec(spec config.NodeSpec) (plugin.Processor, error) {
	set, err := channels.Parse(spec.Layout)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", spec.Name, err)
	}
	if set.IsDisabled() {
		if strings.TrimSpace(spec.Layout) != "" {
			return nil, fmt.Errorf("node %q: layout %q is disabled", spec.Name, spec.Layout)
		}
		set = channels.Stereo()
	}

	opts, err := options(spec)
	if err != nil {
		return nil, err
	}
	count := max(1, spec.Count)

	switch spec.Kind {
	case config.KindSource:
		return NewSource(set, spec.Value, opts...), nil
	case config.KindSink:
		return NewSink(set, opts...), nil
	case config.KindEffect:
		return NewGain(nil, gainOr(spec.Gain), opts...), nil
	case config.KindMultiChannel:
		cfg := bus.NewBuilder().WithInput("Multi In", set).WithOutput("Multi Out", set).MustBuild()
		return NewGain(cfg, gainOr(spec.Gain), opts...), nil
	case config.KindSidechain:
		return NewDucker(0.8, opts...), nil
	case config.KindSurround:
		return NewSurroundPanner(opts...), nil
	case config.KindMixer:
		return NewMixer(count, opts...), nil
	case config.KindSplitter:
		return NewSplitter(count, opts...), nil
	case config.KindGenerator:
		return NewGenerator(440, opts...), nil
	case config.KindMIDIEffect:
		f := NewEventFilter(opts...)
		f.Transpose = spec.Transpose
		return f, nil
	case config.KindSequencer:
		length := spec.NoteLength
		if length <= 0 {
			length = defaultNoteLength
		}
		return NewSequencer(spec.Notes, length, opts...), nil
	}
	return nil, fmt.Errorf("node %q: unknown kind %q", spec.Name, spec.Kind)
}

func options(spec config.NodeSpec) ([]plugin.Option, error) {
	maxChannels := spec.MaxChannels
	if maxChannels <= 0 {
		maxChannels = defaultMaxChannels
	}

	var opts []plugin.Option
	switch spec.Policy {
	case "", "fixed":
	case "flexible":
		opts = append(opts, plugin.WithPolicy(plugin.Flexible(maxChannels)))
	case "symmetric":
		opts = append(opts, plugin.WithPolicy(plugin.Symmetric(maxChannels)))
	default:
		return nil, fmt.Errorf("node %q: unknown policy %q", spec.Name, spec.Policy)
	}
	if spec.Summing {
		opts = append(opts, plugin.WithSumming())
	}
	if spec.MaxBuses > 0 {
		for _, dir := range bus.Directions {
			opts = append(opts, plugin.WithBusLimits(dir, 1, spec.MaxBuses))
		}
	}
	return opts, nil
}

func gainOr(g float32) float32 {
	if g == 0 {
		return 1
	}
	return g
}
