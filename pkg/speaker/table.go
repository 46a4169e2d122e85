package speaker

import ch "github.com/justyntemme/vst3graph/pkg/framework/channels"

// Mapping is one row of the arrangement table: a code and its ordered roles.
type Mapping struct {
	Code  Arrangement
	Roles []ch.Type
}

// mappings is scanned in declaration order by both directions of the codec.
// Cine and music variants differ only by role order, so rows must never be reordered.
var mappings = []Mapping{
	{ArrMono, []ch.Type{ch.Centre}},
	{ArrStereo, []ch.Type{ch.Left, ch.Right}},
	{ArrStereoSurround, []ch.Type{ch.LeftSurround, ch.RightSurround}},
	{ArrStereoCenter, []ch.Type{ch.LeftCentre, ch.RightCentre}},
	{ArrStereoSide, []ch.Type{ch.LeftRearSurround, ch.RightRearSurround}},
	{ArrStereoCLfe, []ch.Type{ch.Centre, ch.LFE}},
	{Arr30Cine, []ch.Type{ch.Left, ch.Right, ch.Centre}},
	{Arr30Music, []ch.Type{ch.Left, ch.Right, ch.Surround}},
	{Arr31Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE}},
	{Arr31Music, []ch.Type{ch.Left, ch.Right, ch.LFE, ch.Surround}},
	{Arr40Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.Surround}},
	{Arr40Music, []ch.Type{ch.Left, ch.Right, ch.LeftSurround, ch.RightSurround}},
	{Arr41Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE, ch.Surround}},
	{Arr41Music, []ch.Type{ch.Left, ch.Right, ch.LFE, ch.LeftSurround, ch.RightSurround}},
	{Arr50, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LeftSurround, ch.RightSurround}},
	{Arr51, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE, ch.LeftSurround, ch.RightSurround}},
	{Arr60Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LeftSurround, ch.RightSurround, ch.Surround}},
	{Arr60Music, []ch.Type{ch.Left, ch.Right, ch.LeftSurround, ch.RightSurround, ch.LeftRearSurround, ch.RightRearSurround}},
	{Arr61Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE, ch.LeftSurround, ch.RightSurround, ch.Surround}},
	{Arr61Music, []ch.Type{ch.Left, ch.Right, ch.LFE, ch.LeftSurround, ch.RightSurround, ch.LeftRearSurround, ch.RightRearSurround}},
	{Arr70Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LeftSurround, ch.RightSurround, ch.TopFrontLeft, ch.TopFrontRight}},
	{Arr70Music, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LeftSurround, ch.RightSurround, ch.LeftRearSurround, ch.RightRearSurround}},
	{Arr71Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE, ch.LeftSurround, ch.RightSurround, ch.TopFrontLeft, ch.TopFrontRight}},
	{Arr71Music, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE, ch.LeftSurround, ch.RightSurround, ch.LeftRearSurround, ch.RightRearSurround}},
	{Arr80Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LeftSurround, ch.RightSurround, ch.TopFrontLeft, ch.TopFrontRight, ch.Surround}},
	{Arr80Music, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LeftSurround, ch.RightSurround, ch.Surround, ch.LeftRearSurround, ch.RightRearSurround}},
	{Arr81Cine, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE, ch.LeftSurround, ch.RightSurround, ch.TopFrontLeft, ch.TopFrontRight, ch.Surround}},
	{Arr81Music, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE, ch.LeftSurround, ch.RightSurround, ch.Surround, ch.LeftRearSurround, ch.RightRearSurround}},
	{Arr102, []ch.Type{ch.Left, ch.Right, ch.Centre, ch.LFE, ch.LeftSurround, ch.RightSurround, ch.TopFrontLeft, ch.TopFrontCentre, ch.TopFrontRight, ch.TopRearLeft, ch.TopRearRight, ch.LFE2}},
}

// speakerCodes is the role to wire code bijection.
var speakerCodes = []struct {
	role    ch.Type
	speaker Speaker
}{
	{ch.Left, SpeakerL},
	{ch.Right, SpeakerR},
	{ch.Centre, SpeakerC},
	{ch.LFE, SpeakerLfe},
	{ch.LeftSurround, SpeakerLs},
	{ch.RightSurround, SpeakerRs},
	{ch.LeftCentre, SpeakerLc},
	{ch.RightCentre, SpeakerRc},
	{ch.Surround, SpeakerS},
	{ch.LeftRearSurround, SpeakerSl},
	{ch.RightRearSurround, SpeakerSr},
	{ch.TopMiddle, SpeakerTm},
	{ch.TopFrontLeft, SpeakerTfl},
	{ch.TopFrontCentre, SpeakerTfc},
	{ch.TopFrontRight, SpeakerTfr},
	{ch.TopRearLeft, SpeakerTrl},
	{ch.TopRearCentre, SpeakerTrc},
	{ch.TopRearRight, SpeakerTrr},
	{ch.LFE2, SpeakerLfe2},
}

// Table returns a copy of the arrangement table in scan order.
func Table() []Mapping {
	out := make([]Mapping, len(mappings))
	for i, m := range mappings {
		out[i] = Mapping{Code: m.Code, Roles: append([]ch.Type(nil), m.Roles...)}
	}
	return out
}

// matches reports whether roles equals the row exactly; a prefix is not a match.
func (m Mapping) matches(roles []ch.Type) bool {
	if len(roles) != len(m.Roles) {
		return false
	}
	for i, r := range m.Roles {
		if roles[i] != r {
			return false
		}
	}
	return true
}
