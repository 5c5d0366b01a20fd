// Package cluster contains the cluster lifecycle commands: up, ssh, list,
// provision and destroy.
package cluster

import (
	"os"

	"github.com/fleetup/fleetup/pkg/di"
	"github.com/fleetup/fleetup/pkg/io/configmanager"
	"github.com/spf13/cobra"
)

// NewClusterCmd creates the cluster command group.
func NewClusterCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cluster",
		Short:        "Manage compute clusters",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewUpCmd(runtimeContainer))
	cmd.AddCommand(NewSSHCmd(runtimeContainer))
	cmd.AddCommand(NewListCmd(runtimeContainer))
	cmd.AddCommand(NewProvisionCmd(runtimeContainer))
	cmd.AddCommand(NewDestroyCmd(runtimeContainer))

	return cmd
}

// flagBindings maps config keys to the command flags that override them.
var flagBindings = map[string]string{
	"cluster.name":       "name",
	"cluster.count":      "count",
	"cluster.serverType": "type",
	"cluster.image":      "image",
	"cluster.location":   "location",
	"cluster.file":       "file",
	"ssh.keyName":        "keyname",
	"ssh.keypair":        "keypair",
	"ssh.username":       "username",
}

// loadConfig resolves the effective configuration for a command, honoring
// the root --config flag when set. Flags registered on the command take
// precedence over environment and file values.
func loadConfig(cmd *cobra.Command) (*configmanager.Config, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")

	manager := configmanager.NewConfigManager(cmd.OutOrStdout(), configPath)

	for key, flagName := range flagBindings {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			continue
		}

		err := manager.BindFlag(key, flag)
		if err != nil {
			return nil, err
		}
	}

	return manager.Load()
}

// providerToken returns the cloud API token from config or environment.
func providerToken(config *configmanager.Config) string {
	if config.Provider.Token != "" {
		return config.Provider.Token
	}

	return os.Getenv("HCLOUD_TOKEN")
}
