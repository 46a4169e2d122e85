// Package speaker translates channel sets to and from the VST2 speaker-arrangement vocabulary.
//
// The codec is table driven and stateless. Arrangement codes and speaker wire
// codes use the integer values of the VST2 SDK so they can be written straight
// into a VstSpeakerArrangement.
package speaker

import "fmt"

// Arrangement is a VST2 speaker-arrangement code.
type Arrangement int32

const (
	// ArrUserDefined marks a layout that matches no table row.
	ArrUserDefined Arrangement = -2
	// ArrEmpty is the arrangement of a disabled bus.
	ArrEmpty Arrangement = -1

	ArrMono           Arrangement = 0
	ArrStereo         Arrangement = 1
	ArrStereoSurround Arrangement = 2
	ArrStereoCenter   Arrangement = 3
	ArrStereoSide     Arrangement = 4
	ArrStereoCLfe     Arrangement = 5
	Arr30Cine         Arrangement = 6
	Arr30Music        Arrangement = 7
	Arr31Cine         Arrangement = 8
	Arr31Music        Arrangement = 9
	Arr40Cine         Arrangement = 10
	Arr40Music        Arrangement = 11
	Arr41Cine         Arrangement = 12
	Arr41Music        Arrangement = 13
	Arr50             Arrangement = 14
	Arr51             Arrangement = 15
	Arr60Cine         Arrangement = 16
	Arr60Music        Arrangement = 17
	Arr61Cine         Arrangement = 18
	Arr61Music        Arrangement = 19
	Arr70Cine         Arrangement = 20
	Arr70Music        Arrangement = 21
	Arr71Cine         Arrangement = 22
	Arr71Music        Arrangement = 23
	Arr80Cine         Arrangement = 24
	Arr80Music        Arrangement = 25
	Arr81Cine         Arrangement = 26
	Arr81Music        Arrangement = 27
	Arr102            Arrangement = 28
)

var arrangementNames = map[Arrangement]string{
	ArrUserDefined:    "User Defined",
	ArrEmpty:          "Empty",
	ArrMono:           "Mono",
	ArrStereo:         "Stereo",
	ArrStereoSurround: "Stereo Surround",
	ArrStereoCenter:   "Stereo Center",
	ArrStereoSide:     "Stereo Side",
	ArrStereoCLfe:     "Stereo C/LFE",
	Arr30Cine:         "3.0 Cine",
	Arr30Music:        "3.0 Music",
	Arr31Cine:         "3.1 Cine",
	Arr31Music:        "3.1 Music",
	Arr40Cine:         "4.0 Cine",
	Arr40Music:        "4.0 Music",
	Arr41Cine:         "4.1 Cine",
	Arr41Music:        "4.1 Music",
	Arr50:             "5.0",
	Arr51:             "5.1",
	Arr60Cine:         "6.0 Cine",
	Arr60Music:        "6.0 Music",
	Arr61Cine:         "6.1 Cine",
	Arr61Music:        "6.1 Music",
	Arr70Cine:         "7.0 Cine",
	Arr70Music:        "7.0 Music",
	Arr71Cine:         "7.1 Cine",
	Arr71Music:        "7.1 Music",
	Arr80Cine:         "8.0 Cine",
	Arr80Music:        "8.0 Music",
	Arr81Cine:         "8.1 Cine",
	Arr81Music:        "8.1 Music",
	Arr102:            "10.2",
}

// String returns the display name of the arrangement.
func (a Arrangement) String() string {
	if name, ok := arrangementNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Arrangement(%d)", int32(a))
}

// Speaker is the VST2 wire code of a single speaker.
type Speaker int32

const (
	// SpeakerM is written for roles that have no VST2 speaker.
	SpeakerM    Speaker = 0
	SpeakerL    Speaker = 1
	SpeakerR    Speaker = 2
	SpeakerC    Speaker = 3
	SpeakerLfe  Speaker = 4
	SpeakerLs   Speaker = 5
	SpeakerRs   Speaker = 6
	SpeakerLc   Speaker = 7
	SpeakerRc   Speaker = 8
	SpeakerS    Speaker = 9
	SpeakerSl   Speaker = 10
	SpeakerSr   Speaker = 11
	SpeakerTm   Speaker = 12
	SpeakerTfl  Speaker = 13
	SpeakerTfc  Speaker = 14
	SpeakerTfr  Speaker = 15
	SpeakerTrl  Speaker = 16
	SpeakerTrc  Speaker = 17
	SpeakerTrr  Speaker = 18
	SpeakerLfe2 Speaker = 19

	SpeakerUndefined Speaker = 0x7fffffff
)
