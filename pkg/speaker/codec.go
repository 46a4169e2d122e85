package speaker

import ch "github.com/justyntemme/vst3graph/pkg/framework/channels"

// ToChannelSet decodes an arrangement code. Codes missing from the table decode to
// fallbackChannels discrete channels.
func ToChannelSet(code Arrangement, fallbackChannels int) ch.Set {
	for _, m := range mappings {
		if m.Code == code {
			return ch.MustFromTypes(m.Roles...)
		}
	}
	return ch.Discrete(fallbackChannels)
}

// ToArrangement encodes a channel set. The first row whose roles equal the set in
// order wins; a disabled set is ArrEmpty and anything else is ArrUserDefined.
func ToArrangement(set ch.Set) Arrangement {
	if set.IsDisabled() {
		return ArrEmpty
	}
	roles := set.Types()
	for _, m := range mappings {
		if m.matches(roles) {
			return m.Code
		}
	}
	return ArrUserDefined
}

// SpeakerFor returns the wire code of a role. Roles without one map to SpeakerM.
func SpeakerFor(t ch.Type) Speaker {
	for _, sc := range speakerCodes {
		if sc.role == t {
			return sc.speaker
		}
	}
	return SpeakerM
}

// TypeFor returns the role of a wire code, or channels.Unknown.
func TypeFor(s Speaker) ch.Type {
	for _, sc := range speakerCodes {
		if sc.speaker == s {
			return sc.role
		}
	}
	return ch.Unknown
}

// SpeakerArrangement mirrors VstSpeakerArrangement: an arrangement code plus one
// wire code per channel.
type SpeakerArrangement struct {
	Type        Arrangement
	NumChannels int
	Speakers    []Speaker
}

// Describe builds the full speaker arrangement of a channel set.
func Describe(set ch.Set) SpeakerArrangement {
	arr := SpeakerArrangement{
		Type:        ToArrangement(set),
		NumChannels: set.Size(),
		Speakers:    make([]Speaker, set.Size()),
	}
	for i := range arr.Speakers {
		arr.Speakers[i] = SpeakerFor(set.TypeOf(i))
	}
	return arr
}

// ChannelSet decodes the arrangement from its code, falling back to NumChannels
// discrete channels.
func (a SpeakerArrangement) ChannelSet() ch.Set {
	return ToChannelSet(a.Type, a.NumChannels)
}
