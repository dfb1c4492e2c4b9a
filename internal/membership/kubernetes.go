package membership

import (
	"context"
	"fmt"

	"github.com/Ajpantuso/zone-grouper/internal/member"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"github.com/Ajpantuso/zone-grouper/internal/util"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
)

// PodLabels optionally maps pod labels onto the reserved locality attributes.
// Empty fields are ignored.
type PodLabels struct {
	Zone string
	Rack string
	Host string
}

// KubernetesSource treats every live pod matching a label selector as a
// cluster member.
type KubernetesSource struct {
	k8sClient     kubernetes.Interface
	logger        *zap.SugaredLogger
	namespace     string
	labelSelector string
	podLabels     PodLabels
}

func NewKubernetesSource(k8sClient kubernetes.Interface, logger *zap.SugaredLogger, namespace, labelSelector string, podLabels PodLabels) *KubernetesSource {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &KubernetesSource{
		k8sClient:     k8sClient,
		logger:        logger,
		namespace:     namespace,
		labelSelector: labelSelector,
		podLabels:     podLabels,
	}
}

func (s *KubernetesSource) ListMembers(ctx context.Context) ([]*member.Member, error) {
	selector, err := labels.Parse(s.labelSelector)
	if err != nil {
		return nil, fmt.Errorf("invalid label selector %q: %w", s.labelSelector, err)
	}

	s.logger.Debugw("Listing member pods",
		"namespace", s.namespace,
		"label_selector", selector.String(),
	)

	pods, err := s.k8sClient.CoreV1().Pods(s.namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector.String(),
	})
	if err != nil {
		return nil, &util.DiscoveryError{Source: "kubernetes", Reason: "listing member pods", Err: err}
	}

	members := make([]*member.Member, 0, len(pods.Items))
	for i := range pods.Items {
		pod := &pods.Items[i]
		if !isLive(pod) {
			continue
		}
		members = append(members, s.toMember(pod))
	}

	if len(members) == 0 {
		return nil, &util.DiscoveryError{
			Source: "kubernetes",
			Reason: fmt.Sprintf("no member pods found in %s matching %s", s.namespace, selector.String()),
		}
	}

	s.logger.Infow("Discovered member pods",
		"namespace", s.namespace,
		"member_count", len(members),
	)

	return members, nil
}

func (s *KubernetesSource) toMember(pod *corev1.Pod) *member.Member {
	m := member.NewMember(pod.Name, pod.Status.PodIP)
	if pod.Spec.NodeName != "" {
		m.SetStringAttribute(topology.NodeNameAttribute, pod.Spec.NodeName)
	}

	for _, l := range []struct{ label, key string }{
		{s.podLabels.Zone, topology.ZoneKey},
		{s.podLabels.Rack, topology.RackKey},
		{s.podLabels.Host, topology.HostKey},
	} {
		if l.label == "" {
			continue
		}
		if v, ok := pod.Labels[l.label]; ok {
			m.SetStringAttribute(l.key, v)
		}
	}

	return m
}

func isLive(pod *corev1.Pod) bool {
	if pod.DeletionTimestamp != nil {
		return false
	}
	return pod.Status.Phase != corev1.PodSucceeded && pod.Status.Phase != corev1.PodFailed
}
