package bus

import (
	"errors"
	"fmt"

	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

// MaxBusChannels is the largest channel count a declared bus may carry.
const MaxBusChannels = 32

// MaxBuses is the largest number of buses of one direction. With
// MaxBusChannels it bounds the flattened channel index of a node.
const MaxBuses = 128

// Builder provides a fluent API for building bus configurations
type Builder struct {
	config *Configuration
	errors []error
}

// NewBuilder creates a new bus configuration builder
func NewBuilder() *Builder {
	return &Builder{
		config: &Configuration{},
	}
}

// WithInput adds a main input bus carrying set
func (b *Builder) WithInput(name string, set channels.Set) *Builder {
	b.config.inputs = append(b.config.inputs, New(name, DirectionInput, TypeMain, set))
	return b
}

// WithOutput adds a main output bus carrying set
func (b *Builder) WithOutput(name string, set channels.Set) *Builder {
	b.config.outputs = append(b.config.outputs, New(name, DirectionOutput, TypeMain, set))
	return b
}

// WithAuxInput adds an auxiliary input bus (e.g., sidechain).
// Aux buses start disabled; set stays available as their last enabled layout.
func (b *Builder) WithAuxInput(name string, set channels.Set) *Builder {
	bus := New(name, DirectionInput, TypeAux, set)
	bus.current = channels.Disabled()
	b.config.inputs = append(b.config.inputs, bus)
	return b
}

// WithAuxOutput adds an auxiliary output bus, disabled like WithAuxInput
func (b *Builder) WithAuxOutput(name string, set channels.Set) *Builder {
	bus := New(name, DirectionOutput, TypeAux, set)
	bus.current = channels.Disabled()
	b.config.outputs = append(b.config.outputs, bus)
	return b
}

// WithEventInput adds the event (MIDI) input pin
func (b *Builder) WithEventInput(name string) *Builder {
	if b.config.eventInput != "" {
		b.errors = append(b.errors, fmt.Errorf("event input already declared as %q", b.config.eventInput))
	}
	b.config.eventInput = name
	return b
}

// WithEventOutput adds the event (MIDI) output pin
func (b *Builder) WithEventOutput(name string) *Builder {
	if b.config.eventOutput != "" {
		b.errors = append(b.errors, fmt.Errorf("event output already declared as %q", b.config.eventOutput))
	}
	b.config.eventOutput = name
	return b
}

// WithStereoInput is a convenience method for adding stereo input
func (b *Builder) WithStereoInput(name string) *Builder {
	return b.WithInput(name, channels.Stereo())
}

// WithStereoOutput is a convenience method for adding stereo output
func (b *Builder) WithStereoOutput(name string) *Builder {
	return b.WithOutput(name, channels.Stereo())
}

// WithMonoInput is a convenience method for adding mono input
func (b *Builder) WithMonoInput(name string) *Builder {
	return b.WithInput(name, channels.Mono())
}

// WithMonoOutput is a convenience method for adding mono output
func (b *Builder) WithMonoOutput(name string) *Builder {
	return b.WithOutput(name, channels.Mono())
}

// WithSidechain adds a sidechain input bus (auxiliary stereo input)
func (b *Builder) WithSidechain(name string) *Builder {
	return b.WithAuxInput(name, channels.Stereo())
}

// With5_1Input adds a 5.1 surround input
func (b *Builder) With5_1Input(name string) *Builder {
	return b.WithInput(name, channels.Create5point1())
}

// With5_1Output adds a 5.1 surround output
func (b *Builder) With5_1Output(name string) *Builder {
	return b.WithOutput(name, channels.Create5point1())
}

// With7_1Input adds a 7.1 surround input
func (b *Builder) With7_1Input(name string) *Builder {
	return b.WithInput(name, channels.Create7point1())
}

// With7_1Output adds a 7.1 surround output
func (b *Builder) With7_1Output(name string) *Builder {
	return b.WithOutput(name, channels.Create7point1())
}

// SetBusEnabled enables or disables a declared bus
func (b *Builder) SetBusEnabled(direction Direction, index int, enabled bool) *Builder {
	bus := b.config.Bus(direction, index)
	if bus == nil {
		b.errors = append(b.errors, fmt.Errorf("bus not found: direction=%s, index=%d", direction, index))
		return b
	}
	if enabled {
		bus.Apply(bus.lastEnabled)
	} else {
		bus.Apply(channels.Disabled())
	}
	return b
}

// Validate checks if the configuration is valid
func (b *Builder) Validate() error {
	if len(b.errors) > 0 {
		return fmt.Errorf("builder errors: %w", errors.Join(b.errors...))
	}

	// MIDI effects might only have an event output
	if len(b.config.outputs) == 0 && !b.config.ProducesEvents() {
		return fmt.Errorf("configuration must have at least one output bus (audio or event)")
	}

	for _, dir := range Directions {
		if n := b.config.BusCount(dir); n > MaxBuses {
			return fmt.Errorf("%d %s buses exceed maximum of %d", n, dir, MaxBuses)
		}
		for _, bus := range *b.config.list(dir) {
			if bus.def.IsDisabled() {
				return fmt.Errorf("bus %s has no default layout", bus.name)
			}
			if bus.def.Size() > MaxBusChannels {
				return fmt.Errorf("channel count %d exceeds maximum of %d for bus %s", bus.def.Size(), MaxBusChannels, bus.name)
			}
		}
	}

	return nil
}

// Build returns the built configuration or an error
func (b *Builder) Build() (*Configuration, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild returns the built configuration or panics on error
func (b *Builder) MustBuild() *Configuration {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
