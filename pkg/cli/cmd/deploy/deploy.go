// Package deploy contains the deploy command group: installing frameworks
// onto a provisioned cluster through the Salt dispatcher.
package deploy

import (
	"fmt"
	"os"

	"github.com/fleetup/fleetup/pkg/apis/cluster/v1alpha1"
	"github.com/fleetup/fleetup/pkg/di"
	"github.com/fleetup/fleetup/pkg/io/configmanager"
	"github.com/fleetup/fleetup/pkg/svc/salt"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewDeployCmd creates the deploy command group.
func NewDeployCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "deploy",
		Short:        "Deploy frameworks onto a provisioned cluster",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewDaskCmd(runtimeContainer))
	cmd.AddCommand(NewClouderaManagerCmd(runtimeContainer))

	return cmd
}

// Deps captures dependencies for the deploy command logic.
type Deps struct {
	// Dispatcher is an optional dispatcher override. If nil, one is built
	// from the cluster's control node address and the salt-api settings.
	// This is primarily for testing purposes.
	Dispatcher salt.Dispatcher
}

// loadConfig resolves the effective configuration for a command, honoring
// the root --config flag when set.
func loadConfig(cmd *cobra.Command) (*configmanager.Config, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")

	manager := configmanager.NewConfigManager(cmd.OutOrStdout(), configPath)

	return manager.Load()
}

// resolveDispatcher builds a salt-api dispatcher pointed at the cluster's
// control node.
func resolveDispatcher(
	cmd *cobra.Command,
	injector di.Injector,
	config *configmanager.Config,
) (salt.Dispatcher, error) {
	cluster, err := v1alpha1.LoadCluster(config.Cluster.File)
	if err != nil {
		return nil, err
	}

	master, err := cluster.Master()
	if err != nil {
		return nil, fmt.Errorf("no control node in cluster metadata: %w", err)
	}

	factory, err := di.ResolveDispatcherFactory(injector)
	if err != nil {
		return nil, err
	}

	password := config.SaltAPI.Password
	if password == "" {
		password, err = promptPassword(cmd)
		if err != nil {
			return nil, err
		}
	}

	baseURL := fmt.Sprintf("http://%s:%d", master.IP, config.SaltAPI.Port)

	return factory(baseURL, config.SaltAPI.Username, password), nil
}

// promptPassword reads the salt-api password from the terminal when it is
// not configured. A non-interactive session yields an empty password.
func promptPassword(cmd *cobra.Command) (string, error) {
	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return "", nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "salt-api password: ")

	password, err := term.ReadPassword(stdinFd)

	fmt.Fprintln(cmd.OutOrStdout())

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(password), nil
}
