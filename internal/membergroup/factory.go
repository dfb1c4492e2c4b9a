package membergroup

import (
	"context"
	"fmt"

	"github.com/Ajpantuso/zone-grouper/internal/member"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"go.uber.org/zap"
)

// Factory splits a member snapshot into member groups.
type Factory interface {
	CreateMemberGroups(ctx context.Context, members []*member.Member) ([]MemberGroup, error)
}

// MetadataDiscoverer supplies topology metadata about the local runtime
// environment.
type MetadataDiscoverer interface {
	DiscoverLocalMetadata(ctx context.Context) (map[string]any, error)
}

// MemberMetadataDiscoverer is implemented by discoverers that can resolve
// metadata for a specific member rather than only the local one.
type MemberMetadataDiscoverer interface {
	MetadataDiscoverer
	DiscoverMemberMetadata(ctx context.Context, m *member.Member) (map[string]any, error)
}

// NewFactory returns the factory for groupType, wrapped in BackupSafe when
// requested.
func NewFactory(groupType topology.GroupType, opts ...FactoryOption) (Factory, error) {
	var cfg FactoryConfig
	cfg.Options(opts...)
	cfg.Default()

	var f Factory
	switch groupType {
	case topology.GroupTypeZoneAware:
		f = newZoneAwareFactory(&cfg)
	case topology.GroupTypeHostAware:
		f = &HostAwareFactory{}
	case topology.GroupTypePerMember:
		f = &PerMemberFactory{}
	default:
		return nil, fmt.Errorf("unsupported member group type %q", groupType)
	}

	if cfg.BackupSafe {
		f = NewBackupSafe(f)
	}

	return f, nil
}

type FactoryConfig struct {
	Logger     *zap.SugaredLogger
	Discovery  MetadataDiscoverer
	BackupSafe bool
}

func (c *FactoryConfig) Options(opts ...FactoryOption) {
	for _, opt := range opts {
		opt.ConfigureFactory(c)
	}
}

func (c *FactoryConfig) Default() {
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
}

type FactoryOption interface {
	ConfigureFactory(*FactoryConfig)
}
