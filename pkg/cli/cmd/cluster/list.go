package cluster

import (
	"fmt"

	"github.com/fleetup/fleetup/pkg/di"
	"github.com/fleetup/fleetup/pkg/svc/provider"
	"github.com/fleetup/fleetup/pkg/ui/table"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List clusters and their nodes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runtimeContainer.Invoke(func(injector di.Injector) error {
				return HandleListRunE(cmd, injector, ListDeps{})
			})
		},
	}

	return cmd
}

// ListDeps captures dependencies for the list command logic.
type ListDeps struct {
	// Provider is an optional provider override.
	// This is primarily for testing purposes.
	Provider provider.Provider
}

// HandleListRunE handles the list command.
// Exported for testing purposes.
func HandleListRunE(cmd *cobra.Command, injector di.Injector, deps ListDeps) error {
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

	clusters, err := prov.ListAllClusters(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list clusters: %w", err)
	}

	writer := cmd.OutOrStdout()

	if len(clusters) == 0 {
		fmt.Fprintln(writer, "No clusters found.")

		return nil
	}

	rows := [][]string{{"Cluster", "Node", "IP", "State"}}

	for _, clusterName := range clusters {
		nodes, err := prov.ListNodes(cmd.Context(), clusterName)
		if err != nil {
			return fmt.Errorf("failed to list nodes of cluster '%s': %w", clusterName, err)
		}

		for _, node := range nodes {
			rows = append(rows, []string{node.ClusterName, node.Name, node.IP, node.State})
		}
	}

	err = table.New(rows, table.DefaultPadding).Write(writer)
	if err != nil {
		return fmt.Errorf("failed to render cluster table: %w", err)
	}

	return nil
}
