package publish_test

import (
	"context"
	"testing"
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/member"
	"github.com/Ajpantuso/zone-grouper/internal/membergroup"
	"github.com/Ajpantuso/zone-grouper/internal/publish"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func testGroups() []membergroup.MemberGroup {
	return []membergroup.MemberGroup{
		membergroup.NewDefaultMemberGroup(member.NewMember("M1", ""), member.NewMember("M2", "")),
		membergroup.NewDefaultMemberGroup(member.NewMember("M3", "")),
	}
}

func TestNewAssignment(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := publish.NewAssignment(topology.GroupTypeZoneAware, testGroups(), now)

	assert.Equal(t, topology.GroupTypeZoneAware, a.GroupType)
	assert.Equal(t, now, a.GeneratedAt)
	assert.Equal(t, []publish.Group{
		{Index: 0, Members: []string{"M1", "M2"}},
		{Index: 1, Members: []string{"M3"}},
	}, a.Groups)
}

func TestPublishCreatesConfigMap(t *testing.T) {
	k8sClient := fake.NewSimpleClientset()
	p := publish.NewConfigMapPublisher(k8sClient, nil, "cache", "")

	a := publish.NewAssignment(topology.GroupTypeZoneAware, testGroups(), time.Now())
	require.NoError(t, p.Publish(context.Background(), a))

	cm, err := k8sClient.CoreV1().ConfigMaps("cache").Get(context.Background(), publish.DefaultConfigMapName, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "zone-grouper", cm.Labels["app"])
	assert.Contains(t, cm.Data["assignment.json"], `"group_type":"zone-aware"`)

	got, err := p.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a.Groups, got.Groups)
}

func TestPublishUpdatesExistingConfigMap(t *testing.T) {
	k8sClient := fake.NewSimpleClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "groups", Namespace: "cache"},
		Data:       map[string]string{"owner": "ops"},
	})
	p := publish.NewConfigMapPublisher(k8sClient, nil, "cache", "groups")

	require.NoError(t, p.Publish(context.Background(), publish.NewAssignment(topology.GroupTypeHostAware, testGroups()[1:], time.Now())))

	cm, err := k8sClient.CoreV1().ConfigMaps("cache").Get(context.Background(), "groups", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ops", cm.Data["owner"])

	got, err := p.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, topology.GroupTypeHostAware, got.GroupType)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, []string{"M3"}, got.Groups[0].Members)
}

func TestRetrieveMissing(t *testing.T) {
	p := publish.NewConfigMapPublisher(fake.NewSimpleClientset(), nil, "cache", "")

	_, err := p.Retrieve(context.Background())
	assert.Error(t, err)
}
