package main

import (
	"crypto/tls"
	"fmt"

	"github.com/Ajpantuso/zone-grouper/internal/discovery"
	"github.com/Ajpantuso/zone-grouper/internal/membergroup"
	"github.com/Ajpantuso/zone-grouper/internal/membership"
	"github.com/Ajpantuso/zone-grouper/internal/publish"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// newKubeClient builds the in-cluster Kubernetes client.
var newKubeClient = func() (kubernetes.Interface, error) {
	restConfig, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("loading in-cluster config: %w", err)
	}
	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("creating kubernetes client: %w", err)
	}
	return client, nil
}

// components holds everything a grouping pass needs, built from configuration.
type components struct {
	groupType topology.GroupType
	source    membership.Source
	factory   membergroup.Factory
	publisher *publish.ConfigMapPublisher
	closers   []func() error
	logger    *zap.SugaredLogger
}

func (c *components) Close() {
	for _, closer := range c.closers {
		if err := closer(); err != nil {
			c.logger.Warnw("Failed to close component", "error", err)
		}
	}
}

func buildComponents(viper *viper.Viper, logger *zap.SugaredLogger) (*components, error) {
	groupType, err := topology.ParseGroupType(viper.GetString("group-type"))
	if err != nil {
		return nil, err
	}

	c := &components{groupType: groupType, logger: logger}

	var k8sClient kubernetes.Interface
	kubeClient := func() (kubernetes.Interface, error) {
		if k8sClient != nil {
			return k8sClient, nil
		}
		client, err := newKubeClient()
		if err != nil {
			return nil, err
		}
		logger.Infow("Kubernetes client initialized")
		k8sClient = client
		return k8sClient, nil
	}

	switch source := viper.GetString("membership-source"); source {
	case "static":
		var members []membership.StaticMember
		if err := viper.UnmarshalKey("members", &members); err != nil {
			return nil, fmt.Errorf("parsing static members: %w", err)
		}
		c.source = membership.NewStaticSource(members)
	case "kubernetes":
		client, err := kubeClient()
		if err != nil {
			return nil, err
		}
		c.source = membership.NewKubernetesSource(client, logger,
			viper.GetString("member-namespace"),
			viper.GetString("member-label-selector"),
			membership.PodLabels{
				Zone: viper.GetString("pod-zone-label"),
				Rack: viper.GetString("pod-rack-label"),
				Host: viper.GetString("pod-host-label"),
			},
		)
	default:
		return nil, fmt.Errorf("unknown membership source %q", source)
	}

	var discoverer membergroup.MetadataDiscoverer
	switch strategy := viper.GetString("discovery"); strategy {
	case "none", "":
	case "static":
		discoverer = discovery.NewStaticDiscovery(viper.GetStringMap("metadata"))
	case "kubernetes":
		client, err := kubeClient()
		if err != nil {
			return nil, err
		}
		discoverer = discovery.NewKubernetesNodeDiscovery(client, logger,
			viper.GetString("node-name"),
			discovery.NodeLabels{
				Zone: viper.GetString("node-zone-label"),
				Rack: viper.GetString("node-rack-label"),
				Host: viper.GetString("node-host-label"),
			},
		)
	case "etcd":
		var tlsConfig *tls.Config
		if viper.GetBool("etcd-tls-enabled") {
			tlsConfig, err = discovery.LoadTLSConfig(
				viper.GetString("etcd-client-cert-path"),
				viper.GetString("etcd-client-key-path"),
				viper.GetString("etcd-ca-path"),
			)
			if err != nil {
				return nil, err
			}
		}
		client, err := discovery.NewEtcdClient(
			viper.GetStringSlice("etcd-endpoints"),
			viper.GetDuration("etcd-dial-timeout"),
			tlsConfig,
		)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		discoverer = discovery.NewEtcdDiscovery(client.KV, logger,
			viper.GetString("etcd-key-prefix"),
			viper.GetDuration("etcd-dial-timeout"),
		)
	default:
		return nil, fmt.Errorf("unknown discovery strategy %q", strategy)
	}

	opts := []membergroup.FactoryOption{
		membergroup.WithLogger{Logger: logger},
		membergroup.WithBackupSafe(viper.GetBool("backup-safe")),
	}
	if discoverer != nil {
		opts = append(opts, membergroup.WithDiscovery{Discovery: discoverer})
	}
	c.factory, err = membergroup.NewFactory(groupType, opts...)
	if err != nil {
		return nil, err
	}

	if viper.GetBool("publish-enabled") {
		c.publisher, err = buildPublisher(viper, logger, kubeClient)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

func buildPublisher(viper *viper.Viper, logger *zap.SugaredLogger, kubeClient func() (kubernetes.Interface, error)) (*publish.ConfigMapPublisher, error) {
	client, err := kubeClient()
	if err != nil {
		return nil, err
	}
	return publish.NewConfigMapPublisher(client, logger,
		viper.GetString("publish-namespace"),
		viper.GetString("publish-configmap"),
	), nil
}
