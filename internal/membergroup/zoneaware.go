package membergroup

import (
	"context"
	"fmt"

	"github.com/Ajpantuso/zone-grouper/internal/member"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"github.com/Ajpantuso/zone-grouper/internal/util"
	"go.uber.org/zap"
)

// ZoneAwareFactory groups members by availability zone, falling back to rack
// and then host when the coarser attribute is absent.
type ZoneAwareFactory struct {
	discovery MetadataDiscoverer
	logger    *zap.SugaredLogger
}

func NewZoneAwareFactory(opts ...FactoryOption) *ZoneAwareFactory {
	var cfg FactoryConfig
	cfg.Options(opts...)
	cfg.Default()

	return newZoneAwareFactory(&cfg)
}

func newZoneAwareFactory(cfg *FactoryConfig) *ZoneAwareFactory {
	return &ZoneAwareFactory{
		discovery: cfg.Discovery,
		logger:    cfg.Logger,
	}
}

// CreateMemberGroups merges freshly discovered metadata into every member and
// buckets members by locality key. It fails without returning any groups if a
// single member carries none of the zone, rack or host attributes.
func (f *ZoneAwareFactory) CreateMemberGroups(ctx context.Context, members []*member.Member) ([]MemberGroup, error) {
	groups := make(map[string]*DefaultMemberGroup)
	order := make([]string, 0)

	for _, m := range members {
		metadata, err := f.discover(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("discovering metadata for member %s: %w", m.ID(), err)
		}
		MergeDiscoveredMetadata(m, metadata)

		key, dimension, ok := LocalityKey(m)
		if !ok {
			f.logger.Debugw("Member has no locality metadata",
				"member_id", m.ID(),
				"address", m.Address(),
			)
			return nil, &util.InsufficientTopologyMetadataError{MemberID: m.ID()}
		}

		f.logger.Debugw("Member locality resolved",
			"member_id", m.ID(),
			"dimension", dimension,
			"locality_key", key,
		)

		group, ok := groups[key]
		if !ok {
			group = NewDefaultMemberGroup()
			groups[key] = group
			order = append(order, key)
		}
		group.AddMember(m)
	}

	result := make([]MemberGroup, 0, len(order))
	for _, key := range order {
		result = append(result, groups[key])
	}

	f.logger.Infow("Built zone-aware member groups",
		"member_count", len(members),
		"group_count", len(result),
	)

	return result, nil
}

func (f *ZoneAwareFactory) discover(ctx context.Context, m *member.Member) (map[string]any, error) {
	if f.discovery == nil {
		return nil, nil
	}
	if md, ok := f.discovery.(MemberMetadataDiscoverer); ok {
		return md.DiscoverMemberMetadata(ctx, m)
	}
	return f.discovery.DiscoverLocalMetadata(ctx)
}

// LocalityKey returns the first of the zone, rack and host string attributes
// present on m, together with the reserved key it was read from.
func LocalityKey(m *member.Member) (value string, dimension string, ok bool) {
	for _, key := range topology.LocalityKeys() {
		if v, present := m.StringAttribute(key); present {
			return v, key, true
		}
	}
	return "", "", false
}
