package membergroup

import (
	"go.uber.org/zap"
)

type WithLogger struct {
	Logger *zap.SugaredLogger
}

func (w WithLogger) ConfigureFactory(c *FactoryConfig) {
	c.Logger = w.Logger
}

type WithDiscovery struct {
	Discovery MetadataDiscoverer
}

func (w WithDiscovery) ConfigureFactory(c *FactoryConfig) {
	c.Discovery = w.Discovery
}

type WithBackupSafe bool

func (w WithBackupSafe) ConfigureFactory(c *FactoryConfig) {
	c.BackupSafe = bool(w)
}
