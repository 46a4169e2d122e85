package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/vst3graph/pkg/config"
	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/debug"
	"github.com/justyntemme/vst3graph/pkg/framework/process"
	"github.com/justyntemme/vst3graph/pkg/graph"
	"github.com/justyntemme/vst3graph/pkg/nodes"
)

// runner plays a session: it builds the graph, renders it on its own
// goroutine and applies the steps from another.
type runner struct {
	cfg      config.Config
	log      *debug.Logger
	out      io.Writer
	realtime bool

	graph    *graph.Graph
	renderer *process.Renderer
	ids      map[string]graph.NodeID
	names    map[graph.NodeID]string
}

func newRunner(cfg config.Config, log *debug.Logger, out io.Writer) *runner {
	r := process.NewRenderer(cfg.Renderer.SampleRate, cfg.Renderer.BlockSize, log)
	return &runner{
		cfg:      cfg,
		log:      log,
		out:      out,
		renderer: r,
		graph: graph.New(
			graph.WithConsumer(r),
			graph.WithLogger(log),
			graph.WithMaxDiscreteChannels(cfg.Graph.MaxDiscreteChannels),
		),
		ids:   make(map[string]graph.NodeID),
		names: make(map[graph.NodeID]string),
	}
}

func (rn *runner) run(ctx context.Context, s *config.Session) error {
	if err := rn.build(ctx, s); err != nil {
		return err
	}

	renderCtx, stop := context.WithCancel(ctx)
	g, renderCtx := errgroup.WithContext(renderCtx)
	g.Go(func() error { return rn.renderLoop(renderCtx) })
	g.Go(func() error {
		defer stop()
		return rn.steps(renderCtx, s.Steps)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	rn.report()
	if rn.cfg.Metrics.Enabled {
		return rn.dumpMetrics()
	}
	return nil
}

// build adds every node in one batch, so the renderer is prepared once.
func (rn *runner) build(ctx context.Context, s *config.Session) error {
	return rn.graph.Batch(ctx, func(b *graph.Batch) error {
		for _, spec := range s.Nodes {
			p, err := nodes.FromSpec(spec)
			if err != nil {
				return err
			}
			id := graph.NodeID(spec.ID)
			if id != 0 {
				if !b.AddNodeWithID(id, p) {
					return fmt.Errorf("node %q: id %d already in use", spec.Name, id)
				}
			} else {
				var ok bool
				if id, ok = b.AddNode(p); !ok {
					return fmt.Errorf("node %q: rejected", spec.Name)
				}
			}
			rn.ids[spec.Name] = id
			rn.names[id] = spec.Name
		}
		return nil
	})
}

func (rn *runner) renderLoop(ctx context.Context) error {
	var tick <-chan time.Time
	if rn.realtime {
		t := time.NewTicker(rn.renderer.Profiler().Period())
		defer t.Stop()
		tick = t.C
	}
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		if !rn.renderer.ProcessBlock(rn.cfg.Renderer.BlockSize) {
			runtime.Gosched()
		}
	}
}

func (rn *runner) steps(ctx context.Context, steps []config.Step) error {
	for i, st := range steps {
		got, err := rn.step(ctx, st)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, st, err)
		}
		fmt.Fprintf(rn.out, "%-50s %s\n", st.String(), okString(got))
		if st.Expect != nil && *st.Expect != got {
			return fmt.Errorf("step %d (%s): got %v, want %v", i, st, got, *st.Expect)
		}
	}
	return nil
}

func (rn *runner) step(ctx context.Context, st config.Step) (bool, error) {
	g := rn.graph
	switch st.Op {
	case config.OpConnect, config.OpDisconnect:
		src, dst := rn.ids[st.From], rn.ids[st.To]
		srcCh, dstCh := st.FromChannel, st.ToChannel
		if st.Event {
			srcCh, dstCh = graph.EventChannel, graph.EventChannel
		}
		if st.Op == config.OpConnect {
			if err := g.CheckConnection(src, srcCh, dst, dstCh); err != nil {
				rn.log.Info("connection refused", "step", st.String(), "reason", err)
				return false, nil
			}
			return g.AddConnection(src, srcCh, dst, dstCh), nil
		}
		return g.RemoveConnection(src, srcCh, dst, dstCh), nil

	case config.OpRemoveNode:
		return g.RemoveNode(rn.ids[st.Node]), nil
	case config.OpDisconnectNode:
		return g.DisconnectNode(rn.ids[st.Node]), nil
	case config.OpRender:
		return rn.waitBlocks(ctx, st.Blocks)
	}

	dir, err := config.ParseDirection(st.Direction)
	if err != nil {
		return false, err
	}
	id := rn.ids[st.Node]
	switch st.Op {
	case config.OpAddBus:
		return g.AddBus(id, dir), nil
	case config.OpRemoveBus:
		return g.RemoveBus(id, dir), nil
	case config.OpEnableBus, config.OpDisableBus:
		_, outcome := g.SetBusEnabled(id, dir, st.Bus, st.Op == config.OpEnableBus)
		return outcome == graph.Applied, nil
	case config.OpRequestLayout:
		set, err := channels.Parse(st.Layout)
		if err != nil {
			return false, err
		}
		got, outcome := g.RequestLayout(id, dir, st.Bus, set)
		rn.log.Debug("layout request", "node", st.Node, "outcome", outcome.String(), "layout", got.String())
		return outcome == graph.Applied || (outcome == graph.Unchanged && got.Equal(set)), nil
	}
	return false, fmt.Errorf("unknown op %q", st.Op)
}

// waitBlocks returns once the render goroutine has finished n more blocks.
func (rn *runner) waitBlocks(ctx context.Context, n int) (bool, error) {
	target := rn.renderer.Stats().Blocks + uint64(n)
	for rn.renderer.Stats().Blocks < target {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return true, nil
}

func (rn *runner) name(id graph.NodeID) string {
	if n, ok := rn.names[id]; ok {
		return n
	}
	return fmt.Sprintf("#%d", id)
}

func (rn *runner) report() {
	s := rn.graph.Snapshot()
	fmt.Fprintf(rn.out, "\ngraph %s version %d\n", rn.graph.ID(), s.Version)

	fmt.Fprintln(rn.out, "nodes:")
	for _, id := range s.TopologicalOrder() {
		n, _ := s.Node(id)
		fmt.Fprintf(rn.out, "  %-12s %-18s %s\n", rn.name(id), n.Processor.Info().DisplayName(), n.Layout)
	}

	fmt.Fprintln(rn.out, "connections:")
	for _, c := range s.Connections {
		fmt.Fprintf(rn.out, "  %s (%s) -> %s (%s)\n",
			rn.pin(c.SourceNode, c.SourceChannel), rn.graph.PinName(c.SourceNode, bus.DirectionOutput, c.SourceChannel),
			rn.pin(c.DestNode, c.DestChannel), rn.graph.PinName(c.DestNode, bus.DirectionInput, c.DestChannel))
	}

	fmt.Fprintln(rn.out, "levels:")
	for _, n := range s.Nodes {
		if len(n.Layout.Outputs) > 0 || n.NumChannels(bus.DirectionInput) == 0 {
			continue
		}
		rn.renderer.Inspect(n.ID, func(ctx *process.MultiBusContext) {
			for ch := 0; ch < n.NumChannels(bus.DirectionInput); ch++ {
				buf := ctx.InputChannel(ch)
				fmt.Fprintf(rn.out, "  %s:%d %s\n", rn.name(n.ID), ch, debug.Analyze(buf))
				rn.log.LogBufferIssues(buf, fmt.Sprintf("%s:%d", rn.name(n.ID), ch))
			}
		})
	}

	for _, n := range s.Nodes {
		if !n.AcceptsEvents {
			continue
		}
		rn.renderer.Inspect(n.ID, func(ctx *process.MultiBusContext) {
			for _, e := range ctx.InEvents.Events() {
				fmt.Fprintf(rn.out, "  %s:events %s\n", rn.name(n.ID), e)
			}
		})
	}

	st := rn.renderer.Stats()
	fmt.Fprintf(rn.out, "renderer: blocks=%d skipped=%d mismatches=%d load=%.2f%%\n",
		st.Blocks, st.Skipped, st.Mismatches, rn.renderer.Profiler().Load())
}

func (rn *runner) pin(id graph.NodeID, channel int) string {
	if channel == graph.EventChannel {
		return rn.name(id) + ":events"
	}
	return fmt.Sprintf("%s:%d", rn.name(id), channel)
}

// dumpMetrics prints the vst3graph series of the default registry.
func (rn *runner) dumpMetrics() error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintln(rn.out, "metrics:")
	for _, f := range families {
		if !strings.HasPrefix(f.GetName(), "vst3graph_") {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			fmt.Fprintf(rn.out, "  %s{%s} %g\n", f.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}
