package hetzner

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetup/fleetup/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// DefaultActionTimeout is the timeout for waiting on Hetzner actions.
const DefaultActionTimeout = 5 * time.Minute

// Provider implements provider.Provider for Hetzner Cloud servers.
type Provider struct {
	client *hcloud.Client
}

// Compile-time interface compliance verification.
var _ provider.Provider = (*Provider)(nil)

// NewProvider creates a new Hetzner Cloud provider with the given client.
func NewProvider(client *hcloud.Client) *Provider {
	return &Provider{client: client}
}

// NewProviderFromToken creates a new Hetzner Cloud provider using an API token.
func NewProviderFromToken(token string) *Provider {
	return &Provider{client: hcloud.NewClient(hcloud.WithToken(token))}
}

// LaunchNodes creates the machines described by the spec, waits for each
// creation action, and returns the nodes in launch order with their public
// IPv4 addresses populated.
func (p *Provider) LaunchNodes(
	ctx context.Context,
	spec provider.LaunchSpec,
) ([]provider.NodeInfo, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	err := validateLaunchSpec(spec)
	if err != nil {
		return nil, err
	}

	sshKey, _, err := p.client.SSHKey.GetByName(ctx, spec.SSHKeyName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up ssh key %s: %w", spec.SSHKeyName, err)
	}

	if sshKey == nil {
		return nil, fmt.Errorf("%w: %s", ErrSSHKeyNotFound, spec.SSHKeyName)
	}

	nodes := make([]provider.NodeInfo, 0, spec.Count)

	for index := range spec.Count {
		server, err := p.createServer(ctx, spec, sshKey, index)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, provider.NodeInfo{
			Name:        server.Name,
			ClusterName: spec.ClusterName,
			IP:          server.PublicNet.IPv4.IP.String(),
			State:       string(server.Status),
		})
	}

	return nodes, nil
}

// createServer creates one server and waits for the creation action.
func (p *Provider) createServer(
	ctx context.Context,
	spec provider.LaunchSpec,
	sshKey *hcloud.SSHKey,
	index int,
) (*hcloud.Server, error) {
	name := NodeName(spec.ClusterName, index)

	createOpts := hcloud.ServerCreateOpts{
		Name:             name,
		Labels:           NodeLabels(spec.ClusterName, index),
		ServerType:       &hcloud.ServerType{Name: spec.ServerType},
		Image:            &hcloud.Image{Name: spec.Image},
		Location:         &hcloud.Location{Name: spec.Location},
		SSHKeys:          []*hcloud.SSHKey{sshKey},
		StartAfterCreate: hcloud.Ptr(true),
	}

	result, _, err := p.client.Server.Create(ctx, createOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", name, err)
	}

	err = p.waitForAction(ctx, result.Action)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for server %s creation: %w", name, err)
	}

	return result.Server, nil
}

// ListNodes returns all nodes for the given cluster based on labels.
func (p *Provider) ListNodes(
	ctx context.Context,
	clusterName string,
) ([]provider.NodeInfo, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	labelSelector := fmt.Sprintf("%s=true,%s=%s", LabelOwned, LabelClusterName, clusterName)

	servers, err := p.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labelSelector},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	nodes := make([]provider.NodeInfo, 0, len(servers))

	for _, server := range servers {
		nodes = append(nodes, provider.NodeInfo{
			Name:        server.Name,
			ClusterName: clusterName,
			IP:          server.PublicNet.IPv4.IP.String(),
			State:       string(server.Status),
		})
	}

	return nodes, nil
}

// ListAllClusters returns the names of all clusters managed by this provider.
func (p *Provider) ListAllClusters(ctx context.Context) ([]string, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	servers, err := p.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: LabelOwned + "=true"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	clusterSet := make(map[string]struct{})

	for _, server := range servers {
		if name, ok := server.Labels[LabelClusterName]; ok && name != "" {
			clusterSet[name] = struct{}{}
		}
	}

	clusters := make([]string, 0, len(clusterSet))
	for name := range clusterSet {
		clusters = append(clusters, name)
	}

	return clusters, nil
}

// NodesExist returns true if nodes exist for the given cluster name.
func (p *Provider) NodesExist(ctx context.Context, clusterName string) (bool, error) {
	nodes, err := p.ListNodes(ctx, clusterName)
	if err != nil {
		return false, err
	}

	return len(nodes) > 0, nil
}

// DeleteNodes removes all servers for the given cluster.
func (p *Provider) DeleteNodes(ctx context.Context, clusterName string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	nodes, err := p.ListNodes(ctx, clusterName)
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}

	for _, node := range nodes {
		server, _, err := p.client.Server.GetByName(ctx, node.Name)
		if err != nil {
			return fmt.Errorf("failed to get server %s: %w", node.Name, err)
		}

		if server == nil {
			continue
		}

		_, _, err = p.client.Server.DeleteWithResult(ctx, server)
		if err != nil {
			return fmt.Errorf("failed to delete server %s: %w", node.Name, err)
		}
	}

	return nil
}

// waitForAction waits for a Hetzner action to complete.
func (p *Provider) waitForAction(ctx context.Context, action *hcloud.Action) error {
	if action == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultActionTimeout)
	defer cancel()

	_, errChan := p.client.Action.WatchProgress(ctx, action)

	err := <-errChan
	if err != nil {
		return fmt.Errorf("%w: %w", ErrActionFailed, err)
	}

	return nil
}

// validateLaunchSpec rejects specs that would launch nothing or unnamed
// resources.
func validateLaunchSpec(spec provider.LaunchSpec) error {
	switch {
	case spec.ClusterName == "":
		return fmt.Errorf("%w: cluster name is empty", provider.ErrInvalidLaunchSpec)
	case spec.Count < 1:
		return fmt.Errorf("%w: count %d is below 1", provider.ErrInvalidLaunchSpec, spec.Count)
	case spec.SSHKeyName == "":
		return fmt.Errorf("%w: ssh key name is empty", provider.ErrInvalidLaunchSpec)
	default:
		return nil
	}
}
