package bus

import (
	"testing"

	"github.com/justyntemme/vst3graph/pkg/framework/channels"
)

func TestNewStereoConfiguration(t *testing.T) {
	config := NewStereoConfiguration()

	if got := config.BusCount(DirectionInput); got != 1 {
		t.Errorf("Expected 1 input bus, got %d", got)
	}
	if got := config.BusCount(DirectionOutput); got != 1 {
		t.Errorf("Expected 1 output bus, got %d", got)
	}

	inBus := config.Bus(DirectionInput, 0)
	if inBus == nil {
		t.Fatal("Expected input bus to exist")
	}
	if inBus.NumChannels() != 2 {
		t.Errorf("Expected 2 input channels, got %d", inBus.NumChannels())
	}
	if inBus.Name() != "Stereo In" {
		t.Errorf("Expected input name 'Stereo In', got %s", inBus.Name())
	}

	if config.Bus(DirectionOutput, 1) != nil {
		t.Error("Expected nil for out of range bus")
	}
}

func TestNewMonoConfiguration(t *testing.T) {
	config := NewMonoConfiguration()

	if got := config.Bus(DirectionInput, 0).CurrentLayout(); !got.Equal(channels.Mono()) {
		t.Errorf("Expected mono input, got %s", got)
	}
	if got := config.Bus(DirectionOutput, 0).CurrentLayout(); !got.Equal(channels.Mono()) {
		t.Errorf("Expected mono output, got %s", got)
	}
}

func TestBusApplyRemembersLastEnabled(t *testing.T) {
	b := New("Main", DirectionInput, TypeMain, channels.Stereo())

	if !b.Apply(channels.Create5point1()) {
		t.Fatal("Expected layout change")
	}
	if !b.Apply(channels.Disabled()) {
		t.Fatal("Expected disable to change layout")
	}
	if b.IsEnabled() {
		t.Error("Expected bus to be disabled")
	}
	if got := b.LastEnabledLayout(); !got.Equal(channels.Create5point1()) {
		t.Errorf("Expected last enabled 5.1, got %s", got)
	}
	if got := b.DefaultLayout(); !got.Equal(channels.Stereo()) {
		t.Errorf("Default layout must not change, got %s", got)
	}
	if b.Apply(channels.Disabled()) {
		t.Error("Applying the current layout again should report no change")
	}
}

func TestChannelOffset(t *testing.T) {
	config := NewBuilder().
		WithStereoInput("Main").
		WithMonoInput("Aux").
		WithStereoOutput("Out").
		MustBuild()

	tests := []struct {
		absolute int
		bus      int
		channel  int
		ok       bool
	}{
		{0, 0, 0, true},
		{1, 0, 1, true},
		{2, 1, 0, true},
		{3, 0, 0, false},
		{-1, 0, 0, false},
	}

	for _, tt := range tests {
		bus, ch, ok := config.ChannelOffset(DirectionInput, tt.absolute)
		if ok != tt.ok || (ok && (bus != tt.bus || ch != tt.channel)) {
			t.Errorf("ChannelOffset(%d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.absolute, bus, ch, ok, tt.bus, tt.channel, tt.ok)
		}
		if ok {
			abs, ok := config.AbsoluteChannel(DirectionInput, bus, ch)
			if !ok || abs != tt.absolute {
				t.Errorf("AbsoluteChannel(%d, %d) = %d, want %d", bus, ch, abs, tt.absolute)
			}
		}
	}
}

func TestTotalChannelsSkipsDisabledBuses(t *testing.T) {
	config := NewBuilder().
		WithStereoInput("Main").
		WithMonoInput("Aux").
		WithStereoOutput("Out").
		MustBuild()

	if got := config.TotalChannels(DirectionInput); got != 3 {
		t.Errorf("Expected 3 active input channels, got %d", got)
	}

	config.Bus(DirectionInput, 1).Apply(channels.Disabled())

	if got := config.TotalChannels(DirectionInput); got != 2 {
		t.Errorf("Expected 2 active input channels after disabling, got %d", got)
	}
	if _, _, ok := config.ChannelOffset(DirectionInput, 2); ok {
		t.Error("Channel 2 should no longer resolve")
	}
}

func TestAddRemoveBus(t *testing.T) {
	config := NewEffectStereo()

	b := config.AddBus(DirectionOutput, "Aux Out", channels.Mono())
	if b.Type() != TypeAux || !b.IsEnabled() {
		t.Error("Expected an enabled aux bus")
	}
	if config.BusCount(DirectionOutput) != 2 {
		t.Fatalf("Expected 2 output buses, got %d", config.BusCount(DirectionOutput))
	}

	if err := config.RemoveLastBus(DirectionOutput); err != nil {
		t.Fatalf("RemoveLastBus failed: %v", err)
	}
	if err := config.RemoveLastBus(DirectionOutput); err != nil {
		t.Fatalf("RemoveLastBus failed: %v", err)
	}
	if err := config.RemoveLastBus(DirectionOutput); err == nil {
		t.Error("Expected error when no bus is left")
	}
}

func TestCloneIsDeep(t *testing.T) {
	config := NewEffectStereo()
	clone := config.Clone()

	clone.Bus(DirectionInput, 0).Apply(channels.Mono())

	if !config.Bus(DirectionInput, 0).CurrentLayout().Equal(channels.Stereo()) {
		t.Error("Mutating the clone changed the original")
	}
}

func TestLayout(t *testing.T) {
	config := NewEffectStereoSidechain()
	l := config.Layout()

	if len(l.Inputs) != 2 || len(l.Outputs) != 1 {
		t.Fatalf("Unexpected shape %s", l)
	}
	if !l.Get(DirectionInput, 1).IsDisabled() {
		t.Error("Sidechain should start disabled")
	}
	if !l.Get(DirectionOutput, 7).IsDisabled() {
		t.Error("Out of range Get should be disabled")
	}

	changed := l.With(DirectionInput, 1, channels.Mono())
	if l.Equal(changed) {
		t.Error("With must not mutate the receiver")
	}
	if !changed.SameShape(l) {
		t.Error("With must keep the shape")
	}
	if got := changed.String(); got != "in[Stereo, Mono] out[Stereo]" {
		t.Errorf("Unexpected String() %q", got)
	}
}

func TestBusRestore(t *testing.T) {
	b := New("Main", DirectionOutput, TypeMain, channels.Stereo())
	b.Apply(channels.Create7point1())

	b.Restore(channels.Stereo(), channels.Stereo())

	if !b.CurrentLayout().Equal(channels.Stereo()) || !b.LastEnabledLayout().Equal(channels.Stereo()) {
		t.Errorf("Restore did not undo Apply: current %s, last %s", b.CurrentLayout(), b.LastEnabledLayout())
	}
}
