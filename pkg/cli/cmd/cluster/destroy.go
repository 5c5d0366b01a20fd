package cluster

import (
	"fmt"

	"github.com/fleetup/fleetup/pkg/di"
	"github.com/fleetup/fleetup/pkg/svc/provider"
	"github.com/fleetup/fleetup/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewDestroyCmd creates the destroy command.
func NewDestroyCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "destroy",
		Short:        "Delete every node of a cluster",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runtimeContainer.Invoke(func(injector di.Injector) error {
				return HandleDestroyRunE(cmd, injector, DestroyDeps{})
			})
		},
	}

	cmd.Flags().String("name", "fleetup", "Cluster name to destroy")

	return cmd
}

// DestroyDeps captures dependencies for the destroy command logic.
type DestroyDeps struct {
	// Provider is an optional provider override.
	// This is primarily for testing purposes.
	Provider provider.Provider
}

// HandleDestroyRunE handles the destroy command.
// Exported for testing purposes.
func HandleDestroyRunE(cmd *cobra.Command, injector di.Injector, deps DestroyDeps) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	prov := deps.Provider
	if prov == nil {
		prov, err = resolveProvider(injector, config)
		if err != nil {
			return err
		}
	}

	exists, err := prov.NodesExist(cmd.Context(), config.Cluster.Name)
	if err != nil {
		return fmt.Errorf("failed to look up cluster '%s': %w", config.Cluster.Name, err)
	}

	if !exists {
		return fmt.Errorf("%w: '%s'", provider.ErrNoNodes, config.Cluster.Name)
	}

	writer := cmd.OutOrStdout()

	notify.Activityf(writer, "Destroying cluster '%s'", config.Cluster.Name)

	err = prov.DeleteNodes(cmd.Context(), config.Cluster.Name)
	if err != nil {
		return fmt.Errorf("failed to destroy cluster '%s': %w", config.Cluster.Name, err)
	}

	notify.Successf(writer, "Cluster '%s' destroyed", config.Cluster.Name)

	return nil
}
