package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/membergroup"
	"github.com/Ajpantuso/zone-grouper/internal/membership"
	"github.com/Ajpantuso/zone-grouper/internal/metrics"
	"github.com/Ajpantuso/zone-grouper/internal/publish"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"github.com/Ajpantuso/zone-grouper/internal/util"
	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Publisher stores a grouping result for placement consumers.
type Publisher interface {
	Publish(ctx context.Context, assignment *publish.Assignment) error
}

// Readiness receives the outcome of every grouping pass.
type Readiness interface {
	SetStatus(ready bool, reason string)
}

// Serving receives the outcome of every grouping pass.
type Serving interface {
	SetServing(serving bool)
}

// Controller rebuilds member groups from the current membership snapshot.
type Controller struct {
	source  membership.Source
	factory membergroup.Factory
	cfg     *ControllerConfig
	logger  *zap.SugaredLogger
}

func NewController(source membership.Source, factory membergroup.Factory, opts ...ControllerOption) *Controller {
	var cfg ControllerConfig
	cfg.Options(opts...)
	cfg.Default()

	return &Controller{
		source:  source,
		factory: factory,
		cfg:     &cfg,
		logger:  cfg.Logger,
	}
}

// Reconcile runs a single grouping pass. Membership and discovery failures
// are retried with exponential backoff; missing topology metadata is not.
func (c *Controller) Reconcile(ctx context.Context) ([]membergroup.MemberGroup, error) {
	groupType := string(c.cfg.GroupType)
	start := time.Now()

	var (
		groups []membergroup.MemberGroup
		stage  string
	)
	operation := func() error {
		members, err := c.source.ListMembers(ctx)
		if err != nil {
			stage = metrics.StatusMembershipError
			return fmt.Errorf("listing members: %w", err)
		}

		groups, err = c.factory.CreateMemberGroups(ctx, members)
		if errors.Is(err, util.ErrInsufficientTopologyMetadata) {
			stage = metrics.StatusInsufficientMetadata
			return backoff.Permanent(err)
		}
		if err != nil {
			stage = metrics.StatusDiscoveryError
			return err
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warnw("Grouping pass failed, retrying",
			"error", err,
			"retry_in", wait,
		)
	}

	err := backoff.RetryNotify(operation, c.newBackOff(ctx), notify)

	c.cfg.Metrics.GroupingDuration.WithLabelValues(groupType).Observe(time.Since(start).Seconds())

	if err != nil {
		c.cfg.Metrics.GroupingRunsTotal.WithLabelValues(groupType, stage).Inc()
		c.cfg.Readiness.SetStatus(false, err.Error())
		c.cfg.Serving.SetServing(false)

		if stage == metrics.StatusInsufficientMetadata {
			c.logger.Errorw("Member groups cannot be built: deployment is missing locality metadata",
				"group_type", groupType,
				"error", err,
			)
		} else {
			c.logger.Errorw("Grouping pass failed",
				"group_type", groupType,
				"stage", stage,
				"error", err,
			)
		}
		return nil, err
	}

	c.record(groups)

	if c.cfg.Publisher != nil {
		assignment := publish.NewAssignment(c.cfg.GroupType, groups, time.Now())
		if err := c.cfg.Publisher.Publish(ctx, assignment); err != nil {
			c.cfg.Metrics.PublishTotal.WithLabelValues("error").Inc()
			c.cfg.Readiness.SetStatus(false, err.Error())
			c.cfg.Serving.SetServing(false)
			return nil, fmt.Errorf("publishing member groups: %w", err)
		}
		c.cfg.Metrics.PublishTotal.WithLabelValues("success").Inc()
	}

	c.cfg.Readiness.SetStatus(true, "")
	c.cfg.Serving.SetServing(true)

	return groups, nil
}

// Run reconciles immediately and then every resync interval until ctx is
// done. Pass failures are reported through metrics and readiness only.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Infow("Starting member group controller",
		"group_type", c.cfg.GroupType,
		"resync_interval", c.cfg.ResyncInterval,
	)

	ticker := time.NewTicker(c.cfg.ResyncInterval)
	defer ticker.Stop()

	for {
		_, _ = c.Reconcile(ctx)

		select {
		case <-ctx.Done():
			c.logger.Info("Context cancelled, stopping member group controller")
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Controller) record(groups []membergroup.MemberGroup) {
	groupType := string(c.cfg.GroupType)

	total := 0
	for _, g := range groups {
		total += g.Size()
		c.cfg.Metrics.GroupSize.WithLabelValues(groupType).Observe(float64(g.Size()))
	}

	c.cfg.Metrics.GroupingRunsTotal.WithLabelValues(groupType, metrics.StatusSuccess).Inc()
	c.cfg.Metrics.MemberGroups.WithLabelValues(groupType).Set(float64(len(groups)))
	c.cfg.Metrics.GroupedMembers.WithLabelValues(groupType).Set(float64(total))
	c.cfg.Metrics.LastSuccess.SetToCurrentTime()

	c.logger.Infow("Grouping pass succeeded",
		"group_type", groupType,
		"group_count", len(groups),
		"member_count", total,
	)
}

func (c *Controller) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryInitialInterval
	return backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.MaxRetries), ctx)
}

type ControllerConfig struct {
	Logger               *zap.SugaredLogger
	GroupType            topology.GroupType
	ResyncInterval       time.Duration
	RetryInitialInterval time.Duration
	MaxRetries           uint64
	Metrics              *metrics.Metrics
	Publisher            Publisher
	Readiness            Readiness
	Serving              Serving
}

func (c *ControllerConfig) Options(opts ...ControllerOption) {
	for _, opt := range opts {
		opt.ConfigureController(c)
	}
}

func (c *ControllerConfig) Default() {
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	if c.GroupType == "" {
		c.GroupType = topology.GroupTypeZoneAware
	}
	if c.ResyncInterval <= 0 {
		c.ResyncInterval = 30 * time.Second
	}
	if c.RetryInitialInterval <= 0 {
		c.RetryInitialInterval = 500 * time.Millisecond
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewMetrics(prometheus.NewRegistry())
	}
	if c.Readiness == nil {
		c.Readiness = noopStatus{}
	}
	if c.Serving == nil {
		c.Serving = noopStatus{}
	}
}

type ControllerOption interface {
	ConfigureController(*ControllerConfig)
}

type noopStatus struct{}

func (noopStatus) SetStatus(bool, string) {}
func (noopStatus) SetServing(bool) {}
