package plugin

import (
	"fmt"

	"github.com/google/uuid"
)

// Namespace is the UUIDv5 namespace plugin UIDs are derived in.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/justyntemme/vst3graph/plugin"))

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Fx", "Instrument")
}

// UID derives a deterministic 16-byte identifier from the string ID.
// Equal IDs always give equal UIDs, so sessions can refer to plugins by UID.
func (i Info) UID() uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(i.ID))
}

// ValidateUID checks that the info carries an ID and that it yields a usable UID.
func (i Info) ValidateUID() error {
	if i.ID == "" {
		return fmt.Errorf("plugin %q has no ID", i.Name)
	}
	uid := i.UID()
	if uid == uuid.Nil {
		return fmt.Errorf("plugin %q derived a nil UID", i.ID)
	}
	if uid.Version() != 5 {
		return fmt.Errorf("plugin %q UID has version %d, want 5", i.ID, uid.Version())
	}
	return nil
}

// DisplayName returns Name, or ID when no name is set.
func (i Info) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.ID
}
