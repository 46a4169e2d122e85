package nodes

import (
	"math"

	"github.com/justyntemme/vst3graph/pkg/framework/bus"
	"github.com/justyntemme/vst3graph/pkg/framework/channels"
	"github.com/justyntemme/vst3graph/pkg/framework/plugin"
	"github.com/justyntemme/vst3graph/pkg/framework/process"
)

// Gain scales its main input into its main output.
type Gain struct {
	*plugin.Base
	Factor float32
}

// NewGain creates a gain effect. A nil configuration means stereo in/out.
func NewGain(cfg *bus.Configuration, factor float32, opts ...plugin.Option) *Gain {
	return &Gain{
		Base: plugin.NewBase(plugin.Info{
			ID:       "com.vst3graph.gain",
			Name:     "Gain",
			Vendor:   vendor,
			Category: "Fx",
		}, cfg, opts...),
		Factor: factor,
	}
}

// ProcessBlock implements process.Processor.
func (g *Gain) ProcessBlock(ctx *process.MultiBusContext) {
	ctx.PassThrough()
	ctx.ProcessChannels(func(_ int, _, out []float32) {
		process.Gain(out, g.Factor)
	})
}

// Ducker lowers its main signal while the sidechain is loud.
type Ducker struct {
	*plugin.Base
	// Depth is how much of the main signal a full scale sidechain removes.
	Depth float32
}

// NewDucker creates a stereo effect with a stereo sidechain input, disabled
// until the host enables it.
func NewDucker(depth float32, opts ...plugin.Option) *Ducker {
	return &Ducker{
		Base: plugin.NewBase(plugin.Info{
			ID:       "com.vst3graph.ducker",
			Name:     "Sidechain Ducker",
			Vendor:   vendor,
			Category: "Fx|Dynamics",
		}, bus.NewEffectStereoSidechain(), opts...),
		Depth: depth,
	}
}

// Reduction returns the gain applied for a sidechain block.
func (d *Ducker) Reduction(sidechain [][]float32) float32 {
	var sum float64
	n := 0
	for _, ch := range sidechain {
		for _, v := range ch {
			sum += float64(v) * float64(v)
		}
		n += len(ch)
	}
	if n == 0 {
		return 1
	}
	rms := float32(math.Sqrt(sum / float64(n)))
	return max(0, 1-d.Depth*min(rms, 1))
}

// ProcessBlock implements process.Processor.
func (d *Ducker) ProcessBlock(ctx *process.MultiBusContext) {
	ctx.ProcessWithSidechain(func(main, sidechain, output [][]float32) {
		g := d.Reduction(sidechain)
		for ch := 0; ch < min(len(main), len(output)); ch++ {
			copy(output[ch], main[ch])
			process.Gain(output[ch], g)
		}
	})
}

// SurroundPanner spreads a stereo input over a surround output.
type SurroundPanner struct {
	*plugin.Base
	// Angle in degrees: 0 is front, 180 is rear.
	Angle float64
	// Centre and LFE are the send levels of the mid signal.
	Centre float32
	LFE    float32
}

// NewSurroundPanner creates a stereo to 5.1 panner.
func NewSurroundPanner(opts ...plugin.Option) *SurroundPanner {
	return &SurroundPanner{
		Base: plugin.NewBase(plugin.Info{
			ID:       "com.vst3graph.surround",
			Name:     "Surround Panner",
			Vendor:   vendor,
			Category: "Fx|Spatial",
		}, bus.NewSurroundPanner(), opts...),
		Centre: 0.5,
	}
}

// gains returns the constant power front and rear gains.
func (p *SurroundPanner) gains() (front, rear float32) {
	theta := math.Max(0, math.Min(180, p.Angle)) * math.Pi / 360
	return float32(math.Cos(theta)), float32(math.Sin(theta))
}

// ProcessBlock implements process.Processor. Output channels are found by
// role, so any negotiated output layout works; missing roles are skipped.
func (p *SurroundPanner) ProcessBlock(ctx *process.MultiBusContext) {
	in := ctx.GetMainInput()
	if len(in) == 0 || len(ctx.OutputBuses) == 0 {
		return
	}
	left, right := in[0], in[0]
	if len(in) > 1 {
		right = in[1]
	}

	out := ctx.OutputBuses[0]
	role := func(t channels.Type) []float32 {
		if i := out.Layout.IndexOf(t); i >= 0 {
			return out.Channels[i]
		}
		return nil
	}

	front, rear := p.gains()
	pairs := [...]struct {
		dst  []float32
		l, r float32
	}{
		{role(channels.Left), front, 0},
		{role(channels.Right), 0, front},
		{role(channels.LeftSurround), rear, 0},
		{role(channels.RightSurround), 0, rear},
	}
	for _, s := range pairs {
		if s.dst == nil {
			continue
		}
		for i := range s.dst {
			s.dst[i] = left[i]*s.l + right[i]*s.r
		}
	}

	mid := ctx.WorkBuffer()
	for i := range mid {
		mid[i] = (left[i] + right[i]) / 2
	}
	sends := [...]struct {
		dst   []float32
		level float32
	}{
		{role(channels.Centre), p.Centre},
		{role(channels.LFE), p.LFE},
	}
	for _, s := range sends {
		if s.dst != nil {
			copy(s.dst, mid)
			process.Gain(s.dst, s.level)
		}
	}
}

var (
	_ process.Processor = (*Gain)(nil)
	_ process.Processor = (*Ducker)(nil)
	_ process.Processor = (*SurroundPanner)(nil)
)
