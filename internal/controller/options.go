package controller

import (
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/metrics"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"go.uber.org/zap"
)

type WithLogger struct {
	Logger *zap.SugaredLogger
}

func (w WithLogger) ConfigureController(c *ControllerConfig) {
	c.Logger = w.Logger
}

type WithGroupType topology.GroupType

func (w WithGroupType) ConfigureController(c *ControllerConfig) {
	c.GroupType = topology.GroupType(w)
}

type WithResyncInterval time.Duration

func (w WithResyncInterval) ConfigureController(c *ControllerConfig) {
	c.ResyncInterval = time.Duration(w)
}

type WithRetry struct {
	InitialInterval time.Duration
	MaxRetries      uint64
}

func (w WithRetry) ConfigureController(c *ControllerConfig) {
	c.RetryInitialInterval = w.InitialInterval
	c.MaxRetries = w.MaxRetries
}

type WithMetrics struct {
	Metrics *metrics.Metrics
}

func (w WithMetrics) ConfigureController(c *ControllerConfig) {
	c.Metrics = w.Metrics
}

type WithPublisher struct {
	Publisher Publisher
}

func (w WithPublisher) ConfigureController(c *ControllerConfig) {
	c.Publisher = w.Publisher
}

type WithReadiness struct {
	Readiness Readiness
}

func (w WithReadiness) ConfigureController(c *ControllerConfig) {
	c.Readiness = w.Readiness
}

type WithServing struct {
	Serving Serving
}

func (w WithServing) ConfigureController(c *ControllerConfig) {
	c.Serving = w.Serving
}
