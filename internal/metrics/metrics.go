package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Grouping pass outcomes used as the status label.
const (
	StatusSuccess              = "success"
	StatusInsufficientMetadata = "insufficient_metadata"
	StatusDiscoveryError       = "discovery_error"
	StatusMembershipError      = "membership_error"
)

type Metrics struct {
	// Grouping passes
	GroupingRunsTotal *prometheus.CounterVec
	GroupingDuration  *prometheus.HistogramVec
	LastSuccess       prometheus.Gauge

	// Group shape
	MemberGroups   *prometheus.GaugeVec
	GroupedMembers *prometheus.GaugeVec
	GroupSize      *prometheus.HistogramVec

	// Publishing
	PublishTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg, or with the default
// registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		GroupingRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "member_grouping_runs_total",
				Help: "Total number of member grouping passes",
			},
			[]string{"group_type", "status"},
		),
		GroupingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "member_grouping_duration_seconds",
				Help:    "Duration of member grouping passes",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"group_type"},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "member_grouping_last_success_timestamp_seconds",
				Help: "Unix time of the last successful grouping pass",
			},
		),

		MemberGroups: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "member_groups",
				Help: "Number of member groups produced by the last successful pass",
			},
			[]string{"group_type"},
		),
		GroupedMembers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "member_groups_members",
				Help: "Number of members placed in groups by the last successful pass",
			},
			[]string{"group_type"},
		),
		GroupSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "member_group_size",
				Help:    "Distribution of member group sizes",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"group_type"},
		),

		PublishTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "member_groups_publish_total",
				Help: "Total number of member group publications",
			},
			[]string{"status"},
		),
	}
}
