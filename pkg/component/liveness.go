package component

import (
	"fmt"
	"strings"
)

// LivenessMode selects how PurgeComponentsList decides a component is still alive.
type LivenessMode uint8

const (
	// LivenessByTag keeps a component while any attached node carries the
	// same tag value as the component's node.
	LivenessByTag LivenessMode = iota

	// LivenessByIdentity keeps a component only while its own node is attached.
	LivenessByIdentity
)

// String returns the config spelling of the mode.
func (m LivenessMode) String() string {
	switch m {
	case LivenessByTag:
		return "tag"
	case LivenessByIdentity:
		return "identity"
	default:
		return fmt.Sprintf("LivenessMode(%d)", uint8(m))
	}
}

// ParseLiveness parses "tag" or "identity". The empty string means "tag".
func ParseLiveness(s string) (LivenessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tag":
		return LivenessByTag, nil
	case "identity":
		return LivenessByIdentity, nil
	default:
		return LivenessByTag, fmt.Errorf("unknown liveness mode %q (want tag or identity)", s)
	}
}
