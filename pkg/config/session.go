package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

// Node kinds understood by a session.
const (
	KindSource       = "source"
	KindSink         = "sink"
	KindEffect       = "effect"
	KindSidechain    = "sidechain"
	KindSurround     = "surround"
	KindMixer        = "mixer"
	KindSplitter     = "splitter"
	KindGenerator    = "generator"
	KindMIDIEffect   = "midi_effect"
	KindMultiChannel = "multichannel"
	KindSequencer    = "sequencer"
)

var kinds = []string{
	KindSource, KindSink, KindEffect, KindSidechain, KindSurround,
	KindMixer, KindSplitter, KindGenerator, KindMIDIEffect, KindMultiChannel,
	KindSequencer,
}

// Step operations.
const (
	OpConnect        = "connect"
	OpDisconnect     = "disconnect"
	OpRemoveNode     = "remove_node"
	OpDisconnectNode = "disconnect_node"
	OpRequestLayout  = "request_layout"
	OpEnableBus      = "enable_bus"
	OpDisableBus     = "disable_bus"
	OpAddBus         = "add_bus"
	OpRemoveBus      = "remove_bus"
	OpRender         = "render"
)

var ops = []string{
	OpConnect, OpDisconnect, OpRemoveNode, OpDisconnectNode, OpRequestLayout,
	OpEnableBus, OpDisableBus, OpAddBus, OpRemoveBus, OpRender,
}

// Session is a scripted graph: nodes to create, then edits to apply in order.
type Session struct {
	Nodes []NodeSpec `yaml:"nodes"`
	Steps []Step     `yaml:"steps"`
}

// NodeSpec declares one node.
type NodeSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	// ID requests a specific node id; zero lets the graph choose.
	ID uint32 `yaml:"id"`
	// Layout is the bus layout of sources, sinks and multichannel nodes.
	// Empty means stereo. A node's main bus cannot start disabled.
	Layout string `yaml:"layout"`
	// Policy is fixed, flexible or symmetric.
	Policy      string `yaml:"policy"`
	MaxChannels int    `yaml:"max_channels"`
	// MaxBuses allows add_bus up to this many buses per direction.
	MaxBuses int  `yaml:"max_buses"`
	Summing  bool `yaml:"summing"`
	// Count is the number of sends of a mixer or outputs of a splitter.
	Count int `yaml:"count"`
	// Value is the constant a source emits, Gain the factor an effect applies.
	Value float32 `yaml:"value"`
	Gain  float32 `yaml:"gain"`
	// Notes and NoteLength (in samples) drive a sequencer; Transpose shifts
	// the notes passing a midi_effect.
	Notes      []uint8 `yaml:"notes"`
	NoteLength int     `yaml:"note_length"`
	Transpose  int     `yaml:"transpose"`
}

// Step is one edit or render request.
type Step struct {
	Op          string `yaml:"op"`
	From        string `yaml:"from"`
	FromChannel int    `yaml:"from_channel"`
	To          string `yaml:"to"`
	ToChannel   int    `yaml:"to_channel"`
	// Event routes the event pins instead of audio channels.
	Event bool `yaml:"event"`

	Node      string `yaml:"node"`
	Direction string `yaml:"direction"`
	Bus       int    `yaml:"bus"`
	Layout    string `yaml:"layout"`

	Blocks int `yaml:"blocks"`
	// Expect, when set, is the result the step must have.
	Expect *bool `yaml:"expect"`
}

// String renders a step the way the CLI prints it.
func (s Step) String() string {
	switch s.Op {
	case OpConnect, OpDisconnect:
		if s.Event {
			return fmt.Sprintf("%s %s:events -> %s:events", s.Op, s.From, s.To)
		}
		return fmt.Sprintf("%s %s:%d -> %s:%d", s.Op, s.From, s.FromChannel, s.To, s.ToChannel)
	case OpRemoveNode, OpDisconnectNode:
		return fmt.Sprintf("%s %s", s.Op, s.Node)
	case OpRequestLayout:
		return fmt.Sprintf("%s %s %s[%d] %s", s.Op, s.Node, s.Direction, s.Bus, s.Layout)
	case OpEnableBus, OpDisableBus:
		return fmt.Sprintf("%s %s %s[%d]", s.Op, s.Node, s.Direction, s.Bus)
	case OpAddBus, OpRemoveBus:
		return fmt.Sprintf("%s %s %s", s.Op, s.Node, s.Direction)
	case OpRender:
		return fmt.Sprintf("%s %d blocks", s.Op, s.Blocks)
	}
	return s.Op
}

// LoadSession reads and validates a session file.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s, err := ParseSession(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSession decodes and validates a session.
func ParseSession(data []byte) (*Session, error) {
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks names, kinds, operations and layout strings.
func (s *Session) Validate() error {
	var errs []error
	names := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		switch {
		case n.Name == "":
			errs = append(errs, fmt.Errorf("node %d: missing name", i))
		case names[n.Name]:
			errs = append(errs, fmt.Errorf("node %q: duplicate name", n.Name))
		}
		names[n.Name] = true

		if !slices.Contains(kinds, n.Kind) {
			errs = append(errs, fmt.Errorf("node %q: unknown kind %q", n.Name, n.Kind))
		}
		if set, err := channels.Parse(n.Layout); err != nil {
			errs = append(errs, fmt.Errorf("node %q: %w", n.Name, err))
		} else if set.IsDisabled() && strings.TrimSpace(n.Layout) != "" {
			errs = append(errs, fmt.Errorf("node %q: layout %q is disabled", n.Name, n.Layout))
		}
		for _, note := range n.Notes {
			if note > 127 {
				errs = append(errs, fmt.Errorf("node %q: note %d out of range", n.Name, note))
			}
		}
		switch n.Policy {
		case "", "fixed", "flexible", "symmetric":
		default:
			errs = append(errs, fmt.Errorf("node %q: unknown policy %q", n.Name, n.Policy))
		}
	}

	ref := func(i int, name string) {
		if !names[name] {
			errs = append(errs, fmt.Errorf("step %d: unknown node %q", i, name))
		}
	}
	for i, st := range s.Steps {
		if !slices.Contains(ops, st.Op) {
			errs = append(errs, fmt.Errorf("step %d: unknown op %q", i, st.Op))
			continue
		}
		switch st.Op {
		case OpConnect, OpDisconnect:
			ref(i, st.From)
			ref(i, st.To)
		case OpRender:
			if st.Blocks < 0 {
				errs = append(errs, fmt.Errorf("step %d: negative block count", i))
			}
		default:
			ref(i, st.Node)
		}
		switch st.Op {
		case OpRequestLayout, OpEnableBus, OpDisableBus, OpAddBus, OpRemoveBus:
			if _, err := ParseDirection(st.Direction); err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
			}
		}
		if st.Op == OpRequestLayout {
			if _, err := channels.Parse(st.Layout); err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// ParseDirection reads "input"/"in" or "output"/"out".
func ParseDirection(s string) (bus.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input", "in":
		return bus.DirectionInput, nil
	case "output", "out":
		return bus.DirectionOutput, nil
	}
	return bus.DirectionInput, fmt.Errorf("unknown direction %q", s)
}
