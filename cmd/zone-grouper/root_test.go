package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Ajpantuso/zone-grouper/internal/publish"
	"github.com/Ajpantuso/zone-grouper/internal/topology"
	"github.com/Ajpantuso/zone-grouper/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
)

func TestFlagDefaults(t *testing.T) {
	// Create a command and register flags
	cmd := &cobra.Command{}
	v, err := SetupViper(cmd)
	if err != nil {
		t.Fatalf("Failed to setup viper: %v", err)
	}

	tests := []struct {
		name    string
		flag    string
		want    interface{}
		getFunc func(*viper.Viper, string) interface{}
	}{
		{
			name:    "group-type default",
			flag:    "group-type",
			want:    "zone-aware",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "backup-safe default",
			flag:    "backup-safe",
			want:    false,
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetBool(k) },
		},
		{
			name:    "membership-source default",
			flag:    "membership-source",
			want:    "static",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "discovery default",
			flag:    "discovery",
			want:    "none",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "node-zone-label default",
			flag:    "node-zone-label",
			want:    "topology.kubernetes.io/zone",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "etcd-key-prefix default",
			flag:    "etcd-key-prefix",
			want:    "/zone-grouper/metadata",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "etcd-dial-timeout default",
			flag:    "etcd-dial-timeout",
			want:    5 * time.Second,
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetDuration(k) },
		},
		{
			name:    "resync-interval default",
			flag:    "resync-interval",
			want:    30 * time.Second,
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetDuration(k) },
		},
		{
			name:    "max-retries default",
			flag:    "max-retries",
			want:    uint64(3),
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetUint64(k) },
		},
		{
			name:    "publish-configmap default",
			flag:    "publish-configmap",
			want:    "member-groups",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "log-level default",
			flag:    "log-level",
			want:    "info",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "log-format default",
			flag:    "log-format",
			want:    "json",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.getFunc(v, tt.flag)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvironmentVariableBinding(t *testing.T) {
	cmd := &cobra.Command{}
	v, err := SetupViper(cmd)
	if err != nil {
		t.Fatalf("Failed to setup viper: %v", err)
	}

	LoadOptions(v)

	tests := []struct {
		name    string
		envVar  string
		envVal  string
		flag    string
		want    interface{}
		getFunc func(*viper.Viper, string) interface{}
	}{
		{
			name:    "NODE_NAME binding",
			envVar:  "NODE_NAME",
			envVal:  "ip-10-0-0-1",
			flag:    "node-name",
			want:    "ip-10-0-0-1",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "GROUP_TYPE binding",
			envVar:  "GROUP_TYPE",
			envVal:  "host-aware",
			flag:    "group-type",
			want:    "host-aware",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
		{
			name:    "BACKUP_SAFE binding",
			envVar:  "BACKUP_SAFE",
			envVal:  "true",
			flag:    "backup-safe",
			want:    true,
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetBool(k) },
		},
		{
			name:    "LOG_LEVEL binding",
			envVar:  "LOG_LEVEL",
			envVal:  "debug",
			flag:    "log-level",
			want:    "debug",
			getFunc: func(vv *viper.Viper, k string) interface{} { return vv.GetString(k) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.envVal)

			got := tt.getFunc(v, tt.flag)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"}, // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			result := parseLogLevel(tt.level)
			expected := parseLogLevel(tt.expected)
			assert.Equal(t, expected, result)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zone-grouper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runGroup(t *testing.T, args ...string) (*publish.Assignment, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"group", "--log-level", "error"}, args...))

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}

	var assignment publish.Assignment
	require.NoError(t, json.Unmarshal(out.Bytes(), &assignment))
	return &assignment, nil
}

func TestGroupCommandStaticMembers(t *testing.T) {
	path := writeConfig(t, `
members:
  - id: M1
    address: 10.0.0.1:5701
    attributes:
      hazelcast.partition.group.zone: us-east-1a
  - id: M2
    address: 10.0.0.2:5701
    attributes:
      hazelcast.partition.group.zone: us-east-1a
  - id: M3
    address: 10.0.0.3:5701
    attributes:
      hazelcast.partition.group.zone: us-east-1b
  - id: M4
    address: 10.0.0.4:5701
    attributes:
      hazelcast.partition.group.rack: r7
`)

	assignment, err := runGroup(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, topology.GroupTypeZoneAware, assignment.GroupType)
	assert.Equal(t, []publish.Group{
		{Index: 0, Members: []string{"M1", "M2"}},
		{Index: 1, Members: []string{"M3"}},
		{Index: 2, Members: []string{"M4"}},
	}, assignment.Groups)
}

func TestGroupCommandStaticDiscovery(t *testing.T) {
	path := writeConfig(t, `
discovery: static
metadata:
  hazelcast.partition.group.host: h1
members:
  - id: M1
  - id: M2
`)

	assignment, err := runGroup(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, []publish.Group{{Index: 0, Members: []string{"M1", "M2"}}}, assignment.Groups)
}

func TestGroupCommandFailsWithoutLocality(t *testing.T) {
	path := writeConfig(t, `
members:
  - id: M1
    attributes:
      hazelcast.partition.group.zone: z1
  - id: M2
`)

	_, err := runGroup(t, "--config", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrInsufficientTopologyMetadata)
}

func TestBuildComponentsRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{key: "group-type", value: "custom", want: "unknown member group type"},
		{key: "membership-source", value: "consul", want: "unknown membership source"},
		{key: "discovery", value: "dns", want: "unknown discovery strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, err := SetupViper(&cobra.Command{})
			require.NoError(t, err)
			v.Set(tt.key, tt.value)

			_, err = buildComponents(v, zap.NewNop().Sugar())
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "zone-grouper version dev (built unknown, commit unknown)\n", out.String())
}

func useFakeKubeClient(t *testing.T) kubernetes.Interface {
	t.Helper()

	client := fake.NewSimpleClientset()
	previous := newKubeClient
	newKubeClient = func() (kubernetes.Interface, error) { return client, nil }
	t.Cleanup(func() { newKubeClient = previous })
	return client
}

func TestAssignmentCommandReadsPublishedGroups(t *testing.T) {
	useFakeKubeClient(t)
	path := writeConfig(t, `
publish-enabled: true
publish-namespace: cache
members:
  - id: M1
    attributes:
      hazelcast.partition.group.zone: z1
  - id: M2
    attributes:
      hazelcast.partition.group.rack: r1
`)

	published, err := runGroup(t, "--config", path)
	require.NoError(t, err)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"assignment", "--config", path, "--log-level", "error"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var stored publish.Assignment
	require.NoError(t, json.Unmarshal(out.Bytes(), &stored))
	assert.Equal(t, published.Groups, stored.Groups)
	assert.Equal(t, []publish.Group{
		{Index: 0, Members: []string{"M1"}},
		{Index: 1, Members: []string{"M2"}},
	}, stored.Groups)
}

func TestAssignmentCommandWithoutPublishedGroups(t *testing.T) {
	useFakeKubeClient(t)

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"assignment", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--log-level", "error"})

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "failed to get ConfigMap")
}
