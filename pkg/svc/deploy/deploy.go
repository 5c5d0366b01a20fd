// Package deploy drives post-provisioning workflows: assigning roles to
// nodes via grains, applying the matching Salt states, and reporting the
// per-node results.
package deploy

import (
	"context"
	"fmt"
	"io"

	"github.com/fleetup/fleetup/pkg/svc/report"
	"github.com/fleetup/fleetup/pkg/svc/salt"
	"github.com/fleetup/fleetup/pkg/ui/notify"
)

// Node targets for role assignment. The control node is always node-0;
// workers are everything else.
const (
	masterTarget  = "node-0"
	workersTarget = "node-[1-9]*"
	allTarget     = "node-*"
)

// rolesGrain is the grain key roles are appended to.
const rolesGrain = "roles"

// step assigns a role to a target and applies a state there.
type step struct {
	description string
	target      string
	role        string
	state       string
}

// Dask installs a dask.distributed scheduler on the control node and
// workers on the remaining nodes, reporting each state run.
func Dask(ctx context.Context, dispatcher salt.Dispatcher, writer io.Writer) error {
	steps := []step{
		{
			description: "Installing scheduler",
			target:      masterTarget,
			role:        "dask.distributed.scheduler",
			state:       "dask.distributed.scheduler",
		},
		{
			description: "Installing workers",
			target:      workersTarget,
			role:        "dask.distributed.worker",
			state:       "dask.distributed.worker",
		},
	}

	return run(ctx, dispatcher, writer, steps)
}

// ClouderaManager installs the Cloudera Manager server on the control node
// and agents everywhere, then applies the cluster state across all nodes.
func ClouderaManager(ctx context.Context, dispatcher salt.Dispatcher, writer io.Writer) error {
	// Role grains are assigned separately from the single cluster-wide
	// state run.
	_, err := dispatcher.Local(ctx, masterTarget, "grains.append", rolesGrain, "cloudera.manager.server")
	if err != nil {
		return fmt.Errorf("failed to assign server role: %w", err)
	}

	_, err = dispatcher.Local(ctx, allTarget, "grains.append", rolesGrain, "cloudera.manager.agent")
	if err != nil {
		return fmt.Errorf("failed to assign agent role: %w", err)
	}

	notify.Activityf(writer, "Installing Cloudera Manager")

	return applyState(ctx, dispatcher, writer, allTarget, "cloudera.manager.cluster")
}

// run executes role-assignment plus state-apply steps in order.
func run(ctx context.Context, dispatcher salt.Dispatcher, writer io.Writer, steps []step) error {
	for _, s := range steps {
		notify.Activityf(writer, "%s", s.description)

		_, err := dispatcher.Local(ctx, s.target, "grains.append", rolesGrain, s.role)
		if err != nil {
			return fmt.Errorf("failed to assign role %s: %w", s.role, err)
		}

		err = applyState(ctx, dispatcher, writer, s.target, s.state)
		if err != nil {
			return err
		}
	}

	return nil
}

// applyState runs state.sls on the target and prints the aggregated report.
func applyState(
	ctx context.Context,
	dispatcher salt.Dispatcher,
	writer io.Writer,
	target, state string,
) error {
	raw, err := dispatcher.Local(ctx, target, "state.sls", state)
	if err != nil {
		return fmt.Errorf("failed to apply state %s on %q: %w", state, target, err)
	}

	response, err := salt.ParseResponse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse state results for %s: %w", state, err)
	}

	err = report.PrintState(writer, response)
	if err != nil {
		return fmt.Errorf("failed to report state results for %s: %w", state, err)
	}

	return nil
}
