// Package v1alpha1 defines the persisted cluster metadata model: the set of
// launched instances and how to reach them over SSH.
package v1alpha1

const (
	// Group is the API group for fleetup.
	Group = "fleetup.io"
	// Version is the API version for fleetup.
	Version = "v1alpha1"
	// Kind is the kind for fleetup clusters.
	Kind = "Cluster"
	// APIVersion is the full API version for fleetup.
	APIVersion = Group + "/" + Version
)

// DefaultSSHPort is the SSH port instances are reachable on unless the
// metadata says otherwise.
const DefaultSSHPort = 22

// Cluster represents the persisted metadata of a launched cluster: API
// metadata plus the instances it consists of. It is written to and read from
// the cluster file (cluster.yaml by default).
type Cluster struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`

	Spec Spec `json:"spec"`
}

// Spec defines the launched cluster.
type Spec struct {
	// Name is the cluster name used to tag provider resources.
	Name string `json:"name,omitempty"`
	// Instances are the launched nodes in launch order. The position in this
	// list defines the stable node id (node-0, node-1, ...).
	Instances []Instance `json:"instances"`
}

// Instance is one launched node and its SSH connection info.
type Instance struct {
	// NodeID is the stable identifier (node-<index>), distinct from the IP.
	NodeID string `json:"nodeId"`
	// IP is the public address of the instance.
	IP string `json:"ip"`
	// Port is the SSH port.
	Port int `json:"port"`
	// Username is the user to SSH as.
	Username string `json:"username,omitempty"`
	// Keypair is the path to the private key matching the provider key name.
	Keypair string `json:"keypair,omitempty"`
}

// SetUsername sets the SSH username on every instance.
func (c *Cluster) SetUsername(username string) {
	for i := range c.Spec.Instances {
		c.Spec.Instances[i].Username = username
	}
}

// SetKeypair sets the SSH private key path on every instance.
func (c *Cluster) SetKeypair(keypair string) {
	for i := range c.Spec.Instances {
		c.Spec.Instances[i].Keypair = keypair
	}
}

// Instance returns the instance at the given zero-based index.
func (c *Cluster) Instance(index int) (Instance, error) {
	if index < 0 || index >= len(c.Spec.Instances) {
		return Instance{}, ErrNodeIndexOutOfRange
	}

	return c.Spec.Instances[index], nil
}

// Master returns the control node (node-0). The Salt master, the
// dask.distributed scheduler and the Cloudera Manager server all live there.
func (c *Cluster) Master() (Instance, error) {
	return c.Instance(0)
}
