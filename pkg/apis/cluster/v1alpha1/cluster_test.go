package v1alpha1_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fleetup/fleetup/pkg/apis/cluster/v1alpha1"
	"github.com/fleetup/fleetup/pkg/svc/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterFromNodesAssignsPositionalNodeIDs(t *testing.T) {
	t.Parallel()

	nodes := []provider.NodeInfo{
		{Name: "demo-node-0", IP: "203.0.113.10"},
		{Name: "demo-node-1", IP: "203.0.113.11"},
	}

	cluster := v1alpha1.ClusterFromNodes("demo", nodes)

	assert.Equal(t, v1alpha1.APIVersion, cluster.APIVersion)
	assert.Equal(t, v1alpha1.Kind, cluster.Kind)
	assert.Equal(t, "demo", cluster.Spec.Name)

	require.Len(t, cluster.Spec.Instances, 2)
	assert.Equal(t, "node-0", cluster.Spec.Instances[0].NodeID)
	assert.Equal(t, "203.0.113.10", cluster.Spec.Instances[0].IP)
	assert.Equal(t, v1alpha1.DefaultSSHPort, cluster.Spec.Instances[0].Port)
	assert.Equal(t, "node-1", cluster.Spec.Instances[1].NodeID)
}

func TestSetUsernameAndKeypairApplyToAllInstances(t *testing.T) {
	t.Parallel()

	cluster := v1alpha1.ClusterFromNodes("demo", []provider.NodeInfo{
		{IP: "203.0.113.10"}, {IP: "203.0.113.11"},
	})

	cluster.SetUsername("ubuntu")
	cluster.SetKeypair("~/.ssh/id_ed25519")

	for _, instance := range cluster.Spec.Instances {
		assert.Equal(t, "ubuntu", instance.Username)
		assert.Equal(t, "~/.ssh/id_ed25519", instance.Keypair)
	}
}

func TestInstanceIndexBounds(t *testing.T) {
	t.Parallel()

	cluster := v1alpha1.ClusterFromNodes("demo", []provider.NodeInfo{{IP: "203.0.113.10"}})

	_, err := cluster.Instance(1)
	assert.True(t, errors.Is(err, v1alpha1.ErrNodeIndexOutOfRange))

	_, err = cluster.Instance(-1)
	assert.True(t, errors.Is(err, v1alpha1.ErrNodeIndexOutOfRange))

	master, err := cluster.Master()
	require.NoError(t, err)
	assert.Equal(t, "node-0", master.NodeID)
}

func TestSaveAndLoadClusterRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cluster.yaml")

	want := v1alpha1.ClusterFromNodes("demo", []provider.NodeInfo{
		{IP: "203.0.113.10"}, {IP: "203.0.113.11"},
	})
	want.SetUsername("ubuntu")
	want.SetKeypair("/keys/demo")

	err := v1alpha1.SaveCluster(want, path)
	require.NoError(t, err)

	got, err := v1alpha1.LoadCluster(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadClusterMissingFile(t *testing.T) {
	t.Parallel()

	_, err := v1alpha1.LoadCluster(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, v1alpha1.ErrClusterFileNotFound))
}
