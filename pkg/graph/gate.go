package graph

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "vst3graph.graph"

// Consumer is the real-time side of the graph, typically an audio renderer.
//
// Suspend must return only once the consumer has stopped reading the graph,
// i.e. after any block in flight has finished. Between Suspend and Resume the
// consumer must not touch buffers sized for the old layout.
type Consumer interface {
	Suspend()
	ReleaseResources()
	PrepareToPlay(s *Snapshot)
	Resume()
}

// graphState is everything a rolled back mutation restores.
type graphState struct {
	reg   registry
	conns connectionList
}

func (g *Graph) saveState() graphState {
	return graphState{reg: g.reg.clone(), conns: append(connectionList(nil), g.conns...)}
}

// restoreState puts back a saved state. Ids handed out meanwhile stay used,
// and processors are told the restored layouts again.
func (g *Graph) restoreState(s graphState) {
	nextID := max(g.reg.nextID, s.reg.nextID)
	g.reg = s.reg
	g.reg.nextID = nextID
	g.conns = s.conns
	for _, id := range g.reg.order {
		n := g.reg.nodes[id]
		n.notifyBusCount(dirIn)
		n.notifyBusCount(dirOut)
		n.notifyLayout()
	}
}

// mutate runs apply inside the gate: the consumer is suspended and its
// resources released, apply runs, and the new state is published before the
// consumer is prepared and resumed. When apply fails the state from before is
// restored and nothing new is published. Called with g.mu held.
func (g *Graph) mutate(op string, apply func() error) error {
	return g.mutateContext(context.Background(), op, apply)
}

func (g *Graph) mutateContext(ctx context.Context, op string, apply func() error) (err error) {
	_, span := g.tracer.Start(ctx, "graph.batch")
	span.SetAttributes(
		attribute.String("graph.id", g.id.String()),
		attribute.String("graph.op", op),
	)
	defer span.End()

	start := time.Now()
	if c := g.consumer; c != nil {
		c.Suspend()
		c.ReleaseResources()
		defer func() {
			c.PrepareToPlay(g.snap.Load())
			c.Resume()
			suspendDuration.Observe(time.Since(start).Seconds())
		}()
	}

	saved := g.saveState()
	if err = apply(); err != nil {
		g.restoreState(saved)
		span.RecordError(err)
		span.SetStatus(codes.Error, "rolled back")
		editsTotal.WithLabelValues(op, errorLabel(err)).Inc()
		g.log.Debug("edit rolled back", "op", op, "reason", err.Error())
		return err
	}

	g.publish()
	span.SetAttributes(
		attribute.Int64("graph.version", int64(g.version)),
		attribute.Int("graph.nodes", g.reg.len()),
		attribute.Int("graph.connections", len(g.conns)),
	)
	span.SetStatus(codes.Ok, "published")
	editsTotal.WithLabelValues(op, "applied").Inc()
	return nil
}

// publish stores a new snapshot for the consumer. Called with g.mu held.
func (g *Graph) publish() {
	g.version++
	s := g.snapshot()
	g.snap.Store(s)
	nodesGauge.Set(float64(len(s.Nodes)))
	connectionsGauge.Set(float64(len(s.Connections)))
}
