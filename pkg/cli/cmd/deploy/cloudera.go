package deploy

import (
	"github.com/fleetup/fleetup/pkg/di"
	"github.com/fleetup/fleetup/pkg/svc/deploy"
	"github.com/spf13/cobra"
)

const clouderaLongDesc = `Deploy Cloudera Manager onto the cluster.

The manager server is installed on the control node and an agent on
every node, then the cluster state is applied across all nodes with a
per-node report of successful and failed states.`

// NewClouderaManagerCmd creates the cloudera-manager command.
func NewClouderaManagerCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cloudera-manager",
		Short:        "Deploy Cloudera Manager across the cluster",
		Long:         clouderaLongDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runtimeContainer.Invoke(func(injector di.Injector) error {
				return HandleClouderaManagerRunE(cmd, injector, Deps{})
			})
		},
	}

	return cmd
}

// HandleClouderaManagerRunE handles the cloudera-manager command.
// Exported for testing purposes.
func HandleClouderaManagerRunE(cmd *cobra.Command, injector di.Injector, deps Deps) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher, err = resolveDispatcher(cmd, injector, config)
		if err != nil {
			return err
		}
	}

	return deploy.ClouderaManager(cmd.Context(), dispatcher, cmd.OutOrStdout())
}
