package deploy

import (
	"github.com/fleetup/fleetup/pkg/di"
	"github.com/fleetup/fleetup/pkg/svc/deploy"
	"github.com/spf13/cobra"
)

const daskLongDesc = `Deploy dask.distributed onto the cluster.

The scheduler is installed on the control node and a worker on every
other node. Each state run prints a per-node report of successful and
failed states.`

// NewDaskCmd creates the dask-distributed command.
func NewDaskCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dask-distributed",
		Short:        "Deploy a dask.distributed scheduler and workers",
		Long:         daskLongDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runtimeContainer.Invoke(func(injector di.Injector) error {
				return HandleDaskRunE(cmd, injector, Deps{})
			})
		},
	}

	return cmd
}

// HandleDaskRunE handles the dask-distributed command.
// Exported for testing purposes.
func HandleDaskRunE(cmd *cobra.Command, injector di.Injector, deps Deps) error {
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

	return deploy.Dask(cmd.Context(), dispatcher, cmd.OutOrStdout())
}
