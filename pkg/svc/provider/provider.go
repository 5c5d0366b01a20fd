// Package provider abstracts the cloud vendor that launches and manages the
// virtual machines a cluster runs on.
package provider

import "context"

// NodeInfo contains information about a node managed by a provider.
type NodeInfo struct {
	// Name is the provider-side name of the machine.
	Name string

	// ClusterName is the name of the cluster this node belongs to.
	ClusterName string

	// IP is the public address of the machine.
	IP string

	// State is the current provider-side state (running, off, ...).
	State string
}

// LaunchSpec describes the machines to launch for a cluster.
type LaunchSpec struct {
	// ClusterName tags every resource so it can be found and deleted later.
	ClusterName string
	// Count is the number of machines to launch.
	Count int
	// ServerType is the provider machine size.
	ServerType string
	// Image is the OS image name.
	Image string
	// Location is the provider region or datacenter.
	Location string
	// SSHKeyName is the name of the SSH key registered with the provider.
	SSHKeyName string
}

// Provider defines the interface for infrastructure providers. Providers
// handle machine-level operations only; everything above the OS is the Salt
// layer's concern.
type Provider interface {
	// LaunchNodes creates the machines described by the spec and returns
	// them in launch order with their public addresses populated.
	LaunchNodes(ctx context.Context, spec LaunchSpec) ([]NodeInfo, error)

	// ListNodes returns all nodes for a specific cluster.
	ListNodes(ctx context.Context, clusterName string) ([]NodeInfo, error)

	// ListAllClusters returns the names of all clusters managed by this provider.
	ListAllClusters(ctx context.Context) ([]string, error)

	// NodesExist returns true if nodes exist for the given cluster name.
	NodesExist(ctx context.Context, clusterName string) (bool, error)

	// DeleteNodes removes all nodes for a cluster.
	DeleteNodes(ctx context.Context, clusterName string) error
}
