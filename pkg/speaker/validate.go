package speaker

import (
	"errors"
	"fmt"

	ch "github.com/justyntemme/vst3graph/pkg/framework/channels"
)

func init() {
	if err := Validate(); err != nil {
		panic("speaker: invalid arrangement table: " + err.Error())
	}
}

// Validate checks the static tables: unique codes, well formed rows and a
// complete role/wire-code bijection for every role the rows use.
func Validate() error {
	var errs []error

	codes := make(map[Arrangement]int, len(mappings))
	for i, m := range mappings {
		if m.Code == ArrEmpty || m.Code == ArrUserDefined {
			errs = append(errs, fmt.Errorf("row %d: reserved code %s", i, m.Code))
		}
		if prev, dup := codes[m.Code]; dup {
			errs = append(errs, fmt.Errorf("row %d: code %s already used by row %d", i, m.Code, prev))
		}
		codes[m.Code] = i

		if _, err := ch.FromTypes(m.Roles...); err != nil {
			errs = append(errs, fmt.Errorf("row %d (%s): %w", i, m.Code, err))
			continue
		}
		for _, r := range m.Roles {
			if SpeakerFor(r) == SpeakerM {
				errs = append(errs, fmt.Errorf("row %d (%s): role %s has no speaker code", i, m.Code, r))
			}
		}
	}

	roles := make(map[ch.Type]bool, len(speakerCodes))
	speakers := make(map[Speaker]bool, len(speakerCodes))
	for _, sc := range speakerCodes {
		if roles[sc.role] {
			errs = append(errs, fmt.Errorf("role %s mapped twice", sc.role))
		}
		if speakers[sc.speaker] {
			errs = append(errs, fmt.Errorf("speaker code %d mapped twice", sc.speaker))
		}
		roles[sc.role] = true
		speakers[sc.speaker] = true

		if sc.speaker == SpeakerM || sc.speaker == SpeakerUndefined {
			errs = append(errs, fmt.Errorf("role %s uses reserved speaker code %d", sc.role, sc.speaker))
		}
		if TypeFor(sc.speaker) != sc.role {
			errs = append(errs, fmt.Errorf("speaker code %d does not decode to %s", sc.speaker, sc.role))
		}
	}

	return errors.Join(errs...)
}
