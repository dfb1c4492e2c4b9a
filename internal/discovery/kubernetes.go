package discovery

import (
	"context"
	"fmt"

	"github.com/Ajpantuso/zone-grouper/internal/member"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"github.com/Ajpantuso/zone-grouper/internal/util"
	"go.uber.org/zap"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const (
	DefaultZoneLabel = "topology.kubernetes.io/zone"
	DefaultRackLabel = "topology.kubernetes.io/rack"
	DefaultHostLabel = "kubernetes.io/hostname"
)

// NodeLabels names the node labels that carry locality information.
type NodeLabels struct {
	Zone string
	Rack string
	Host string
}

func (l *NodeLabels) Default() {
	if l.Zone == "" {
		l.Zone = DefaultZoneLabel
	}
	if l.Rack == "" {
		l.Rack = DefaultRackLabel
	}
	if l.Host == "" {
		l.Host = DefaultHostLabel
	}
}

// KubernetesNodeDiscovery derives partition group metadata from the labels of
// the Kubernetes node a member runs on.
type KubernetesNodeDiscovery struct {
	k8sClient kubernetes.Interface
	logger    *zap.SugaredLogger
	nodeName  string
	labels    NodeLabels
}

func NewKubernetesNodeDiscovery(k8sClient kubernetes.Interface, logger *zap.SugaredLogger, nodeName string, labels NodeLabels) *KubernetesNodeDiscovery {
	labels.Default()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &KubernetesNodeDiscovery{
		k8sClient: k8sClient,
		logger:    logger,
		nodeName:  nodeName,
		labels:    labels,
	}
}

// DiscoverLocalMetadata returns the metadata of the node this process runs on.
func (d *KubernetesNodeDiscovery) DiscoverLocalMetadata(ctx context.Context) (map[string]any, error) {
	if d.nodeName == "" {
		return nil, &util.DiscoveryError{Source: "kubernetes", Reason: "local node name not configured"}
	}
	return d.nodeMetadata(ctx, d.nodeName)
}

// DiscoverMemberMetadata returns the metadata of the node m is scheduled on,
// falling back to the local node. Members with no resolvable node get no
// metadata.
func (d *KubernetesNodeDiscovery) DiscoverMemberMetadata(ctx context.Context, m *member.Member) (map[string]any, error) {
	nodeName, ok := m.StringAttribute(topology.NodeNameAttribute)
	if !ok || nodeName == "" {
		nodeName = d.nodeName
	}
	if nodeName == "" {
		d.logger.Debugw("No node known for member, skipping node discovery",
			"member_id", m.ID(),
		)
		return map[string]any{}, nil
	}
	return d.nodeMetadata(ctx, nodeName)
}

func (d *KubernetesNodeDiscovery) nodeMetadata(ctx context.Context, nodeName string) (map[string]any, error) {
	node, err := d.k8sClient.CoreV1().Nodes().Get(ctx, nodeName, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, &util.DiscoveryError{Source: "kubernetes", Reason: fmt.Sprintf("node %s not found", nodeName), Err: err}
	}
	if err != nil {
		return nil, &util.DiscoveryError{Source: "kubernetes", Reason: fmt.Sprintf("getting node %s", nodeName), Err: err}
	}

	metadata := make(map[string]any)
	if zone, ok := node.Labels[d.labels.Zone]; ok {
		metadata[topology.ZoneKey] = zone
	}
	if rack, ok := node.Labels[d.labels.Rack]; ok {
		metadata[topology.RackKey] = rack
	}
	if host, ok := node.Labels[d.labels.Host]; ok {
		metadata[topology.HostKey] = host
	} else {
		metadata[topology.HostKey] = node.Name
	}

	d.logger.Debugw("Discovered node metadata",
		"node_name", nodeName,
		"metadata", metadata,
	)

	return metadata, nil
}
