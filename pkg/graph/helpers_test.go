package graph

import (
	"sync"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

func effect(opts ...plugin.Option) *plugin.Base {
	return plugin.NewBase(plugin.Info{ID: "test.effect", Name: "Effect"}, bus.NewEffectStereo(), opts...)
}

func source(set channels.Set) *plugin.Base {
	return plugin.NewBase(plugin.Info{ID: "test.source", Name: "Source"}, bus.NewAudioSource(set))
}

func sink(set channels.Set, opts ...plugin.Option) *plugin.Base {
	return plugin.NewBase(plugin.Info{ID: "test.sink", Name: "Sink"}, bus.NewAudioSink(set), opts...)
}

// fakeProcessor is a hand-driven capability predicate.
type fakeProcessor struct {
	buses     *bus.Configuration
	supports  func(direction bus.Direction, busIndex int, set channels.Set) bool
	nextBest  func(requested bus.Layout) bus.Layout
	added     channels.Set
	canAdd    bool
	canRemove bool
	counts    [2]int
	calls     int
}

func newFake(buses *bus.Configuration, supports func(bus.Direction, int, channels.Set) bool) *fakeProcessor {
	f := &fakeProcessor{buses: buses, supports: supports}
	for _, dir := range bus.Directions {
		f.counts[dir] = buses.BusCount(dir)
	}
	return f
}

func (f *fakeProcessor) Info() plugin.Info { return plugin.Info{ID: "test.fake", Name: "Fake"} }

func (f *fakeProcessor) Buses() *bus.Configuration { return f.buses.Clone() }

func (f *fakeProcessor) IsLayoutSupported(direction bus.Direction, busIndex int, set channels.Set) bool {
	f.calls++
	return f.supports(direction, busIndex, set)
}

func (f *fakeProcessor) DefaultLayout(direction bus.Direction, busIndex int) channels.Set {
	if b := f.buses.Bus(direction, busIndex); b != nil {
		return b.DefaultLayout()
	}
	if !f.added.IsDisabled() {
		return f.added
	}
	return channels.Stereo()
}

func (f *fakeProcessor) NextBestLayout(requested bus.Layout) bus.Layout {
	if f.nextBest != nil {
		return f.nextBest(requested)
	}
	return requested
}

func (f *fakeProcessor) CanAddBus(bus.Direction) bool    { return f.canAdd }
func (f *fakeProcessor) CanRemoveBus(bus.Direction) bool { return f.canRemove }

func (f *fakeProcessor) BusCountChanged(direction bus.Direction, count int) {
	f.counts[direction] = count
}

// recordingConsumer logs the gate calls it receives.
type recordingConsumer struct {
	mu        sync.Mutex
	calls     []string
	snapshots []*Snapshot
	suspended bool
}

func (c *recordingConsumer) Suspend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "suspend")
	c.suspended = true
}

func (c *recordingConsumer) ReleaseResources() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "release")
}

func (c *recordingConsumer) PrepareToPlay(s *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "prepare")
	c.snapshots = append(c.snapshots, s)
}

func (c *recordingConsumer) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "resume")
	c.suspended = false
}

func (c *recordingConsumer) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
	c.snapshots = nil
}

func (c *recordingConsumer) recorded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *recordingConsumer) lastSnapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.snapshots) == 0 {
		return nil
	}
	return c.snapshots[len(c.snapshots)-1]
}
