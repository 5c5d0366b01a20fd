package sshclient

import (
	"context"
	"time"

	"github.com/fleetup/fleetup/pkg/apis/cluster/v1alpha1"
	"github.com/fleetup/fleetup/pkg/client/netretry"
	"golang.org/x/sync/errgroup"
)

// Reachability probe defaults. Fresh machines routinely refuse connections
// for a while after the provider reports them running.
const (
	defaultCheckAttempts = 6
	defaultCheckBaseWait = 2 * time.Second
	defaultCheckMaxWait  = 30 * time.Second
	defaultCheckParallel = 8
)

// CheckResult is one node's reachability outcome. Status is the display
// string for the SSH-check table ("OK" or the connection error).
type CheckResult struct {
	NodeID string
	IP     string
	OK     bool
	Status string
}

// CheckOptions tunes the cluster reachability probe. The zero value uses the
// package defaults.
type CheckOptions struct {
	Attempts int
	BaseWait time.Duration
	MaxWait  time.Duration
	Parallel int
}

func (o CheckOptions) withDefaults() CheckOptions {
	if o.Attempts <= 0 {
		o.Attempts = defaultCheckAttempts
	}

	if o.BaseWait <= 0 {
		o.BaseWait = defaultCheckBaseWait
	}

	if o.MaxWait <= 0 {
		o.MaxWait = defaultCheckMaxWait
	}

	if o.Parallel <= 0 {
		o.Parallel = defaultCheckParallel
	}

	return o
}

// CheckCluster probes every instance of the cluster concurrently and returns
// one result per instance, in metadata order regardless of completion order.
// An unreachable node is a result, not an error.
func CheckCluster(
	ctx context.Context,
	cluster *v1alpha1.Cluster,
	opts CheckOptions,
) []CheckResult {
	opts = opts.withDefaults()

	instances := cluster.Spec.Instances
	results := make([]CheckResult, len(instances))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Parallel)

	for index, instance := range instances {
		group.Go(func() error {
			results[index] = checkInstance(groupCtx, instance, opts)

			return nil
		})
	}

	// Workers only record results, so the group never returns an error.
	_ = group.Wait()

	return results
}

// checkInstance probes one instance with retries.
func checkInstance(
	ctx context.Context,
	instance v1alpha1.Instance,
	opts CheckOptions,
) CheckResult {
	client := New(Config{
		Host:    instance.IP,
		Port:    instance.Port,
		User:    instance.Username,
		KeyPath: instance.Keypair,
	})

	err := netretry.Do(ctx, opts.Attempts, opts.BaseWait, opts.MaxWait, func() error {
		return client.Check(ctx)
	})
	if err != nil {
		return CheckResult{
			NodeID: instance.NodeID,
			IP:     instance.IP,
			OK:     false,
			Status: err.Error(),
		}
	}

	return CheckResult{NodeID: instance.NodeID, IP: instance.IP, OK: true, Status: "OK"}
}
