package process

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/justyntemme/vst3graph/pkg/framework/debug"
	"github.com/justyntemme/vst3graph/pkg/graph"
)

// Processor is implemented by node processors that render audio or events.
// Nodes without it pass their inputs and events through.
type Processor interface {
	ProcessBlock(ctx *MultiBusContext)
}

var renderedBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vst3graph_render_blocks_total",
	Help: "Blocks requested from the renderer by result",
}, []string{"result"})

// route copies one source output channel into one destination input channel.
type route struct {
	src   *MultiBusContext
	srcCh int
	dstCh int
}

type nodeRun struct {
	id     graph.NodeID
	proc   Processor
	ctx    *MultiBusContext
	routes []route
	// events lists the nodes feeding the event input.
	events []*MultiBusContext
}

// Renderer is the real-time side of a graph. It implements graph.Consumer.
//
// ProcessBlock may be called from one goroutine while the graph is edited from
// others: Suspend waits for the block in flight and later blocks are skipped
// until Resume.
type Renderer struct {
	sampleRate float64
	blockSize  int
	log        *debug.Logger
	prof       *debug.BlockProfiler

	suspended atomic.Bool

	// block is held for the duration of one block and by the consumer callbacks.
	block    sync.Mutex
	prepared bool
	version  uint64
	runs     []nodeRun
	byID     map[graph.NodeID]*MultiBusContext

	blocks     atomic.Uint64
	skipped    atomic.Uint64
	mismatches atomic.Uint64
}

var _ graph.Consumer = (*Renderer)(nil)

// NewRenderer creates a renderer for blocks of at most blockSize samples.
// It starts unprepared; attach it to a graph to get the first snapshot.
func NewRenderer(sampleRate float64, blockSize int, log *debug.Logger) *Renderer {
	if log == nil {
		log = debug.Default()
	}
	return &Renderer{
		sampleRate: sampleRate,
		blockSize:  max(1, blockSize),
		log:        log,
		prof:       debug.NewBlockProfiler(sampleRate, max(1, blockSize)),
	}
}

// BlockSize returns the largest block ProcessBlock renders.
func (r *Renderer) BlockSize() int { return r.blockSize }

// SampleRate returns the sample rate handed to every node context.
func (r *Renderer) SampleRate() float64 { return r.sampleRate }

// Suspend stops rendering and waits for the block in flight.
func (r *Renderer) Suspend() {
	r.suspended.Store(true)
	r.block.Lock()
	r.block.Unlock() //nolint:staticcheck // empty critical section waits for the running block
}

// ReleaseResources drops every node buffer.
func (r *Renderer) ReleaseResources() {
	r.block.Lock()
	defer r.block.Unlock()
	r.prepared = false
	r.runs = nil
	r.byID = nil
}

// PrepareToPlay allocates buffers for the layouts in s and resolves its connections.
func (r *Renderer) PrepareToPlay(s *graph.Snapshot) {
	r.block.Lock()
	defer r.block.Unlock()

	r.byID = make(map[graph.NodeID]*MultiBusContext, len(s.Nodes))
	for _, n := range s.Nodes {
		r.byID[n.ID] = NewMultiBusContext(NewContext(r.blockSize, r.sampleRate), n.Layout)
	}

	order := s.TopologicalOrder()
	r.runs = make([]nodeRun, 0, len(order))
	for _, id := range order {
		n, _ := s.Node(id)
		run := nodeRun{id: id, ctx: r.byID[id]}
		run.proc, _ = n.Processor.(Processor)
		for _, c := range s.Inputs(id) {
			if c.IsEvent() {
				run.events = append(run.events, r.byID[c.SourceNode])
				continue
			}
			run.routes = append(run.routes, route{src: r.byID[c.SourceNode], srcCh: c.SourceChannel, dstCh: c.DestChannel})
		}
		r.runs = append(r.runs, run)
	}

	r.version = s.Version
	r.prepared = true
	r.log.Debug("prepared", "version", s.Version, "nodes", len(s.Nodes), "block_size", r.blockSize)
}

// Resume lets ProcessBlock render again.
func (r *Renderer) Resume() {
	r.suspended.Store(false)
}

// ProcessBlock renders n samples through every node. It returns false, without
// blocking, when the renderer is suspended, unprepared or busy being prepared.
func (r *Renderer) ProcessBlock(n int) bool {
	if r.suspended.Load() || !r.block.TryLock() {
		r.skip()
		return false
	}
	defer r.block.Unlock()
	if !r.prepared || r.suspended.Load() {
		r.skip()
		return false
	}

	start := time.Now()
	n = min(n, r.blockSize)
	for i := range r.runs {
		r.render(&r.runs[i], n)
	}
	r.prof.RecordBlock(time.Since(start))
	r.blocks.Add(1)
	renderedBlocks.WithLabelValues("processed").Inc()
	return true
}

func (r *Renderer) render(run *nodeRun, n int) {
	ctx := run.ctx
	ctx.SetBlockSize(n)
	ctx.ClearAllInputs()
	for _, rt := range run.routes {
		src := rt.src.OutputChannel(rt.srcCh)
		dst := ctx.InputChannel(rt.dstCh)
		if src == nil || dst == nil {
			r.mismatches.Add(1)
			continue
		}
		MixInto(dst, src)
	}
	ctx.InEvents.Clear()
	for _, src := range run.events {
		ctx.InEvents.Merge(src.OutEvents)
	}

	ctx.ClearAllOutputs()
	ctx.OutEvents.Clear()
	if run.proc != nil {
		run.proc.ProcessBlock(ctx)
		return
	}
	ctx.PassThroughAll()
	ctx.PassEvents()
}

func (r *Renderer) skip() {
	r.skipped.Add(1)
	renderedBlocks.WithLabelValues("skipped").Inc()
}

// Profiler returns the block timing statistics.
func (r *Renderer) Profiler() *debug.BlockProfiler { return r.prof }

// Inspect calls fn with the buffers of node id between blocks. It reports
// false when the node is unknown or the renderer is unprepared.
func (r *Renderer) Inspect(id graph.NodeID, fn func(ctx *MultiBusContext)) bool {
	r.block.Lock()
	defer r.block.Unlock()
	ctx, ok := r.byID[id]
	if !ok || !r.prepared {
		return false
	}
	fn(ctx)
	return true
}

// Version returns the snapshot version the buffers were prepared for.
func (r *Renderer) Version() uint64 {
	r.block.Lock()
	defer r.block.Unlock()
	return r.version
}

// Stats is a point-in-time view of the renderer counters.
type Stats struct {
	Blocks     uint64
	Skipped    uint64
	Mismatches uint64
}

// Stats returns the block counters. Mismatches counts connections whose
// channels did not resolve in the prepared buffers and stays zero while every
// layout change goes through the graph.
func (r *Renderer) Stats() Stats {
	return Stats{
		Blocks:     r.blocks.Load(),
		Skipped:    r.skipped.Load(),
		Mismatches: r.mismatches.Load(),
	}
}
