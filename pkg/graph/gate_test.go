package graph

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
)

var gateSequence = []string{"suspend", "release", "prepare", "resume"}

func TestGateSequence(t *testing.T) {
	c := &recordingConsumer{}
	g := New(WithConsumer(c))
	assert.Equal(t, []string{"prepare", "resume"}, c.recorded(), "prepared on creation")

	c.reset()
	a, _ := g.AddNode(effect())
	b, _ := g.AddNode(effect())
	assert.Equal(t, append(append([]string(nil), gateSequence...), gateSequence...), c.recorded())

	c.reset()
	require.True(t, g.AddConnection(a, 0, b, 0))
	assert.Equal(t, gateSequence, c.recorded())

	snap := c.lastSnapshot()
	require.NotNil(t, snap)
	assert.Equal(t, []Connection{{a, 0, b, 0}}, snap.Connections)
	assert.Same(t, g.Snapshot(), snap)
	assert.False(t, c.suspended)
}

func TestRejectedEditsDoNotSuspend(t *testing.T) {
	c := &recordingConsumer{}
	g := New(WithConsumer(c))
	a, _ := g.AddNode(effect())
	b, _ := g.AddNode(effect())
	require.True(t, g.AddConnection(a, 0, b, 0))
	c.reset()

	assert.False(t, g.AddConnection(a, 0, b, 0))
	assert.False(t, g.AddConnection(b, 0, a, 0))
	assert.False(t, g.AddConnection(a, 7, b, 0))
	assert.False(t, g.RemoveConnection(b, 0, a, 0))
	assert.False(t, g.RemoveNode(42))
	assert.False(t, g.AddBus(a, out))
	_, outcome := g.RequestLayout(a, in, 0, channels.Stereo())
	assert.Equal(t, Unchanged, outcome)

	assert.Empty(t, c.recorded())
}

func TestBatchIsAtomic(t *testing.T) {
	c := &recordingConsumer{}
	g := New(WithConsumer(c))
	before := g.Snapshot().Version
	c.reset()

	var a, b NodeID
	err := g.Batch(context.Background(), func(batch *Batch) error {
		a, _ = batch.AddNode(effect(plugin.WithPolicy(plugin.Flexible(8))))
		b, _ = batch.AddNode(effect(plugin.WithPolicy(plugin.Flexible(8))))
		if _, outcome := batch.RequestLayout(a, out, 0, channels.Create5point1()); outcome != Applied {
			return errors.New("layout refused")
		}
		if !batch.AddConnection(a, 5, b, 1) {
			return errors.New("connect failed")
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, gateSequence, c.recorded(), "one suspension for the whole batch")
	snap := g.Snapshot()
	assert.Equal(t, before+1, snap.Version)
	assert.Len(t, snap.Nodes, 2)
	assert.Equal(t, []Connection{{a, 5, b, 1}}, snap.Connections)
	node, ok := snap.Node(a)
	require.True(t, ok)
	assert.True(t, node.Layout.Outputs[0].Equal(channels.Create5point1()))
}

func TestBatchRollback(t *testing.T) {
	c := &recordingConsumer{}
	g := New(WithConsumer(c))
	a, _ := g.AddNode(effect(plugin.WithPolicy(plugin.Flexible(8))))
	b, _ := g.AddNode(effect())
	require.True(t, g.AddConnection(a, 0, b, 0))
	before := g.Snapshot()
	c.reset()

	errAbort := errors.New("abort")
	var added NodeID
	err := g.Batch(context.Background(), func(batch *Batch) error {
		added, _ = batch.AddNode(effect())
		batch.RemoveConnection(a, 0, b, 0)
		batch.RequestLayout(a, in, 0, channels.Mono())
		batch.RemoveNode(b)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	assert.Equal(t, gateSequence, c.recorded(), "consumer resumes after a rollback")
	assert.Same(t, before, g.Snapshot(), "nothing new published")
	assert.Same(t, before, c.lastSnapshot())
	assert.Equal(t, []NodeID{a, b}, g.Nodes())
	assert.Equal(t, []Connection{{a, 0, b, 0}}, g.Connections())

	set, _ := g.BusLayout(a, in, 0)
	assert.True(t, set.Equal(channels.Stereo()))
	p, _ := g.Processor(a)
	assert.True(t, p.(*plugin.Base).Layout().Inputs[0].Equal(channels.Stereo()), "processor told the restored layout")

	next, _ := g.AddNode(effect())
	assert.Greater(t, next, added, "ids handed out in a rolled back batch are not reused")
}

func TestBatchSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	g := New(WithTracerProvider(tp))

	a, _ := g.AddNode(effect())
	b, _ := g.AddNode(effect())
	require.True(t, g.AddConnection(a, 0, b, 0))
	err := g.Batch(context.Background(), func(*Batch) error { return errors.New("nope") })
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 4)
	for _, s := range spans {
		assert.Equal(t, "graph.batch", s.Name())
	}

	ops := make([]string, 0, len(spans))
	for _, s := range spans {
		for _, kv := range s.Attributes() {
			if kv.Key == attribute.Key("graph.op") {
				ops = append(ops, kv.Value.AsString())
			}
		}
	}
	assert.Equal(t, []string{opAddNode, opAddNode, opAddConnection, opBatch}, ops)
	assert.Equal(t, codes.Ok, spans[2].Status().Code)
	assert.Equal(t, codes.Error, spans[3].Status().Code)
}

func TestConcurrentEditors(t *testing.T) {
	c := &recordingConsumer{}
	g := New(WithConsumer(c))

	var ids []NodeID
	for i := 0; i < 8; i++ {
		id, _ := g.AddNode(effect(plugin.WithSumming(), plugin.WithPolicy(plugin.Flexible(8))))
		ids = append(ids, id)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				src := ids[(w+i)%len(ids)]
				dst := ids[(w*3+i*5+1)%len(ids)]
				g.AddConnection(src, i%2, dst, (i+w)%2)
				if i%7 == 0 {
					g.RequestLayout(src, out, 0, channels.Named(1+(i%8)))
				}
				if i%11 == 0 {
					g.RemoveConnection(src, i%2, dst, (i+w)%2)
				}
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			snap := g.Snapshot()
			for _, conn := range snap.Connections {
				src, ok := snap.Node(conn.SourceNode)
				if !ok || conn.SourceChannel >= src.NumChannels(out) {
					t.Errorf("snapshot %d has dangling source %s", snap.Version, conn)
				}
			}
			if len(snap.TopologicalOrder()) != len(snap.Nodes) {
				t.Errorf("snapshot %d has a cycle", snap.Version)
			}
		}
	}()

	wg.Wait()
	<-done
	assert.False(t, c.suspended)
}

func TestSetConsumer(t *testing.T) {
	g := New()
	first := &recordingConsumer{}
	second := &recordingConsumer{}

	g.SetConsumer(first)
	assert.Equal(t, []string{"prepare", "resume"}, first.recorded())

	g.SetConsumer(second)
	assert.Equal(t, []string{"prepare", "resume", "suspend", "release"}, first.recorded())
	assert.Equal(t, []string{"prepare", "resume"}, second.recorded())
}
