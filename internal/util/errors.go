package util

import (
	"errors"
	"fmt"
)

// ErrInsufficientTopologyMetadata is matched by InsufficientTopologyMetadataError via errors.Is
var ErrInsufficientTopologyMetadata = errors.New("insufficient topology metadata")

// InsufficientTopologyMetadataError is returned when a member has none of the
// zone, rack or host attributes, so zone-aware groups cannot be built
type InsufficientTopologyMetadataError struct {
	MemberID string
}

func (e *InsufficientTopologyMetadataError) Error() string {
	return fmt.Sprintf("not enough metadata information is provided for member %q: "+
		"at least one of availability zone, rack or host information must be provided "+
		"with zone-aware member groups", e.MemberID)
}

func (e *InsufficientTopologyMetadataError) Is(target error) bool {
	return target == ErrInsufficientTopologyMetadata
}

// DiscoveryError is returned when a metadata or membership source fails
type DiscoveryError struct {
	Source string
	Reason string
	Err    error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s discovery failed: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s discovery failed: %s", e.Source, e.Reason)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// PublishError is returned when the group assignment cannot be written
type PublishError struct {
	Target string
	Reason string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing member groups failed: %s (%s)", e.Target, e.Reason)
}
