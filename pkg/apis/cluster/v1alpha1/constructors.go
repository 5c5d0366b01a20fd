package v1alpha1

import (
	"errors"
	"fmt"
	"os"

	yamlmarshaller "github.com/fleetup/fleetup/pkg/io/marshaller/yaml"
	"github.com/fleetup/fleetup/pkg/svc/provider"
)

// clusterFilePermissions keeps the metadata private; it references key paths.
const clusterFilePermissions = 0o600

// NewCluster creates an empty cluster with API metadata set.
func NewCluster(name string) *Cluster {
	return &Cluster{
		APIVersion: APIVersion,
		Kind:       Kind,
		Spec: Spec{
			Name: name,
		},
	}
}

// ClusterFromNodes builds cluster metadata from launched provider nodes.
// Node ids are assigned by position (node-0, node-1, ...).
func ClusterFromNodes(name string, nodes []provider.NodeInfo) *Cluster {
	cluster := NewCluster(name)

	for index, node := range nodes {
		cluster.Spec.Instances = append(cluster.Spec.Instances, Instance{
			NodeID: fmt.Sprintf("node-%d", index),
			IP:     node.IP,
			Port:   DefaultSSHPort,
		})
	}

	return cluster
}

// LoadCluster reads cluster metadata from the given path.
func LoadCluster(path string) (*Cluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrClusterFileNotFound, path)
		}

		return nil, fmt.Errorf("failed to read cluster file %s: %w", path, err)
	}

	var cluster Cluster

	err = yamlmarshaller.NewMarshaller[Cluster]().Unmarshal(data, &cluster)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cluster file %s: %w", path, err)
	}

	return &cluster, nil
}

// SaveCluster writes cluster metadata to the given path.
func SaveCluster(cluster *Cluster, path string) error {
	content, err := yamlmarshaller.NewMarshaller[Cluster]().Marshal(*cluster)
	if err != nil {
		return fmt.Errorf("failed to marshal cluster metadata: %w", err)
	}

	err = os.WriteFile(path, []byte(content), clusterFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write cluster file %s: %w", path, err)
	}

	return nil
}
