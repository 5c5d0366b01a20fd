package hetzner

import (
	"fmt"
	"strconv"
)

// Label constants for identifying fleetup-managed Hetzner resources.
const (
	// LabelOwned indicates the resource is managed by fleetup.
	// Value is always "true" for fleetup-managed resources.
	LabelOwned = "fleetup.owned"

	// LabelClusterName identifies which cluster the resource belongs to.
	LabelClusterName = "fleetup.cluster.name"

	// LabelNodeIndex identifies the launch index of the node.
	LabelNodeIndex = "fleetup.node.index"
)

// ResourceLabels creates the standard label set for a fleetup-managed resource.
func ResourceLabels(clusterName string) map[string]string {
	return map[string]string{
		LabelOwned:       "true",
		LabelClusterName: clusterName,
	}
}

// NodeLabels creates the complete label set for a cluster node.
func NodeLabels(clusterName string, index int) map[string]string {
	labels := ResourceLabels(clusterName)
	labels[LabelNodeIndex] = strconv.Itoa(index)

	return labels
}

// NodeName returns the provider-side server name for a node.
func NodeName(clusterName string, index int) string {
	return fmt.Sprintf("%s-node-%d", clusterName, index)
}
