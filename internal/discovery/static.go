package discovery

import (
	"context"
	"maps"
)

// StaticDiscovery returns a fixed metadata mapping, typically loaded from the
// configuration file.
type StaticDiscovery struct {
	metadata map[string]any
}

func NewStaticDiscovery(metadata map[string]any) *StaticDiscovery {
	return &StaticDiscovery{metadata: maps.Clone(metadata)}
}

func (s *StaticDiscovery) DiscoverLocalMetadata(context.Context) (map[string]any, error) {
	if s.metadata == nil {
		return map[string]any{}, nil
	}
	return maps.Clone(s.metadata), nil
}
