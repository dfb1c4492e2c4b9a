package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/discovery"
	"github.com/Ajpantuso/zone-grouper/internal/publish"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func SetupViper(cmd *cobra.Command) (*viper.Viper, error) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", ".zone-grouper.yaml", "config file")

	flags := cmd.PersistentFlags()

	// Grouping
	flags.String("group-type", "zone-aware", "Member group type (zone-aware, host-aware, per-member)")
	flags.Bool("backup-safe", false, "Split a single resulting group in two so backups can be placed")

	// Membership
	flags.String("membership-source", "static", "Where members come from (static, kubernetes)")
	flags.String("member-namespace", "default", "Namespace of member pods")
	flags.String("member-label-selector", "", "Label selector identifying member pods")
	flags.String("pod-zone-label", "", "Pod label copied to the zone attribute")
	flags.String("pod-rack-label", "", "Pod label copied to the rack attribute")
	flags.String("pod-host-label", "", "Pod label copied to the host attribute")

	// Metadata discovery
	flags.String("discovery", "none", "Metadata discovery strategy (none, static, kubernetes, etcd)")
	flags.String("node-name", "", "Name of the Kubernetes node this process runs on")
	flags.String("node-zone-label", discovery.DefaultZoneLabel, "Node label holding the availability zone")
	flags.String("node-rack-label", discovery.DefaultRackLabel, "Node label holding the rack")
	flags.String("node-host-label", discovery.DefaultHostLabel, "Node label holding the host name")

	// ETCD Configuration
	flags.StringSlice("etcd-endpoints", []string{"http://localhost:2379"}, "ETCD endpoints holding member metadata")
	flags.String("etcd-key-prefix", "/zone-grouper/metadata", "ETCD key prefix for member metadata documents")
	flags.Duration("etcd-dial-timeout", 5*time.Second, "Timeout for connecting to and reading from ETCD")
	flags.Bool("etcd-tls-enabled", false, "Enable TLS authentication for ETCD")
	flags.String("etcd-client-cert-path", "/etc/etcd/tls/client/etcd-client.crt", "Path to ETCD client certificate")
	flags.String("etcd-client-key-path", "/etc/etcd/tls/client/etcd-client.key", "Path to ETCD client key")
	flags.String("etcd-ca-path", "/etc/etcd/tls/etcd-ca/ca.crt", "Path to ETCD CA certificate")

	// Publishing
	flags.Bool("publish-enabled", false, "Publish member groups to a ConfigMap")
	flags.String("publish-namespace", "default", "Namespace of the member groups ConfigMap")
	flags.String("publish-configmap", publish.DefaultConfigMapName, "Name of the member groups ConfigMap")

	// Controller
	flags.Duration("resync-interval", 30*time.Second, "Interval between grouping passes")
	flags.Duration("retry-initial-interval", 500*time.Millisecond, "Initial backoff for transient discovery failures")
	flags.Uint64("max-retries", 3, "Retries for transient discovery failures per pass")

	// Observability
	flags.String("metrics-bind-address", ":8080", "Address for metrics and health endpoints")
	flags.String("grpc-endpoint", "tcp://:9090", "gRPC health endpoint (tcp://host:port or unix:///path)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "json", "Log format (json, console)")

	viper := viper.New()

	if err := viper.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	return viper, nil
}

func LoadOptions(viper *viper.Viper) {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(cfgFile)

	// kebab-case keys map to SCREAMING_SNAKE_CASE environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// The config file is optional
	if err := viper.ReadInConfig(); err == nil {
		viper.WatchConfig()
	}
}
