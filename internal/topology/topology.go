package topology

import (
	"fmt"
	"strings"
)

// Partition group metadata keys shared by discovery and placement. The values
// are part of the wire contract and must not change.
const (
	ZoneKey = "hazelcast.partition.group.zone"
	RackKey = "hazelcast.partition.group.rack"
	HostKey = "hazelcast.partition.group.host"
)

// LocalityKeys returns the reserved keys in priority order.
func LocalityKeys() []string {
	return []string{ZoneKey, RackKey, HostKey}
}

// GroupType selects how members are split into member groups.
type GroupType string

const (
	GroupTypeZoneAware GroupType = "zone-aware"
	GroupTypeHostAware GroupType = "host-aware"
	GroupTypePerMember GroupType = "per-member"
)

func ParseGroupType(s string) (GroupType, error) {
	switch t := GroupType(strings.ToLower(strings.TrimSpace(s))); t {
	case GroupTypeZoneAware, GroupTypeHostAware, GroupTypePerMember:
		return t, nil
	default:
		return "", fmt.Errorf("unknown member group type %q", s)
	}
}

// NodeNameAttribute holds the Kubernetes node a member is scheduled on. It is
// set by the Kubernetes member source and read by node label discovery.
const NodeNameAttribute = "kubernetes.node"
