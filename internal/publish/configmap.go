package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/membergroup"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"github.com/Ajpantuso/zone-grouper/internal/util"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

const (
	DefaultConfigMapName = "member-groups"
	assignmentKey        = "assignment.json"
)

// Assignment is the serialized grouping result handed to placement consumers.
type Assignment struct {
	GroupType   topology.GroupType `json:"group_type"`
	GeneratedAt time.Time          `json:"generated_at"`
	Groups      []Group            `json:"groups"`
}

type Group struct {
	Index   int      `json:"index"`
	Members []string `json:"members"`
}

// NewAssignment flattens groups into member ID lists.
func NewAssignment(groupType topology.GroupType, groups []membergroup.MemberGroup, now time.Time) *Assignment {
	a := &Assignment{
		GroupType:   groupType,
		GeneratedAt: now.UTC(),
		Groups:      make([]Group, 0, len(groups)),
	}
	for i, g := range groups {
		ids := make([]string, 0, g.Size())
		for _, m := range g.Members() {
			ids = append(ids, m.ID())
		}
		a.Groups = append(a.Groups, Group{Index: i, Members: ids})
	}
	return a
}

// ConfigMapPublisher stores the latest Assignment in a ConfigMap.
type ConfigMapPublisher struct {
	k8sClient kubernetes.Interface
	logger    *zap.SugaredLogger
	namespace string
	name      string
}

func NewConfigMapPublisher(k8sClient kubernetes.Interface, logger *zap.SugaredLogger, namespace, name string) *ConfigMapPublisher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if name == "" {
		name = DefaultConfigMapName
	}

	return &ConfigMapPublisher{
		k8sClient: k8sClient,
		logger:    logger,
		namespace: namespace,
		name:      name,
	}
}

// Publish creates or updates the ConfigMap with the given assignment.
func (p *ConfigMapPublisher) Publish(ctx context.Context, assignment *Assignment) error {
	p.logger.Debugw("Publishing member groups",
		"configmap_name", p.name,
		"namespace", p.namespace,
		"group_count", len(assignment.Groups),
	)

	data, err := json.Marshal(assignment)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment: %w", err)
	}

	cm, err := p.k8sClient.CoreV1().ConfigMaps(p.namespace).Get(ctx, p.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		cm = &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      p.name,
				Namespace: p.namespace,
				Labels: map[string]string{
					"app": "zone-grouper",
				},
			},
			Data: map[string]string{
				assignmentKey: string(data),
			},
		}

		if _, err := p.k8sClient.CoreV1().ConfigMaps(p.namespace).Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return &util.PublishError{Target: p.namespace + "/" + p.name, Reason: err.Error()}
		}
		p.logger.Infow("Created ConfigMap for member groups",
			"configmap_name", p.name,
			"group_count", len(assignment.Groups),
		)
		return nil
	}
	if err != nil {
		return &util.PublishError{Target: p.namespace + "/" + p.name, Reason: err.Error()}
	}

	if cm.Data == nil {
		cm.Data = make(map[string]string)
	}
	cm.Data[assignmentKey] = string(data)

	if _, err := p.k8sClient.CoreV1().ConfigMaps(p.namespace).Update(ctx, cm, metav1.UpdateOptions{}); err != nil {
		return &util.PublishError{Target: p.namespace + "/" + p.name, Reason: err.Error()}
	}

	p.logger.Infow("Updated member groups",
		"configmap_name", p.name,
		"group_count", len(assignment.Groups),
	)
	return nil
}

// Retrieve reads back the last published assignment.
func (p *ConfigMapPublisher) Retrieve(ctx context.Context) (*Assignment, error) {
	cm, err := p.k8sClient.CoreV1().ConfigMaps(p.namespace).Get(ctx, p.name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap: %w", err)
	}

	data, ok := cm.Data[assignmentKey]
	if !ok {
		return nil, fmt.Errorf("member group assignment not found in %s/%s", p.namespace, p.name)
	}

	var assignment Assignment
	if err := json.Unmarshal([]byte(data), &assignment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment: %w", err)
	}
	return &assignment, nil
}
