// Package cmd assembles the fleetup command tree.
package cmd

import (
	"fmt"

	"github.com/fleetup/fleetup/pkg/cli/cmd/cluster"
	"github.com/fleetup/fleetup/pkg/cli/cmd/deploy"
	"github.com/fleetup/fleetup/pkg/cli/ui/errorhandler"
	runtime "github.com/fleetup/fleetup/pkg/di"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const rootLongDesc = `fleetup launches compute clusters on Hetzner Cloud, provisions them
with SaltStack, and deploys distributed frameworks onto them.`

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	runtimeContainer := runtime.NewRuntime()

	cmd := &cobra.Command{
		Use:          "fleetup",
		Short:        "fleetup launches and provisions compute clusters in the cloud",
		Long:         rootLongDesc,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().String("config", "", "Path to the fleetup config file")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}

	cmd.AddCommand(cluster.NewClusterCmd(runtimeContainer))
	cmd.AddCommand(deploy.NewDeployCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// handleRootRunE handles the root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
