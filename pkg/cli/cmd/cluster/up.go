package cluster

import (
	"errors"
	"fmt"

	"github.com/fleetup/fleetup/pkg/apis/cluster/v1alpha1"
	"github.com/fleetup/fleetup/pkg/client/sshclient"
	"github.com/fleetup/fleetup/pkg/di"
	"github.com/fleetup/fleetup/pkg/io/configmanager"
	"github.com/fleetup/fleetup/pkg/svc/provider"
	"github.com/fleetup/fleetup/pkg/ui/notify"
	"github.com/fleetup/fleetup/pkg/ui/table"
	"github.com/spf13/cobra"
)

// ErrNoProviderToken is returned when no cloud API token is configured.
var ErrNoProviderToken = errors.New("no provider token configured (set provider.token or HCLOUD_TOKEN)")

const upLongDesc = `Launch a new compute cluster.

Launches the configured number of machines, writes their connection
metadata to the cluster file, optionally verifies SSH reachability, and
optionally provisions the Salt control plane on the nodes.

Examples:
  # Launch with defaults (4 nodes)
  fleetup cluster up --keyname mykey --keypair ~/.ssh/id_ed25519

  # Launch a bigger cluster without provisioning
  fleetup cluster up --keyname mykey --keypair ~/.ssh/id_ed25519 --count 8 --provision=false`

// NewUpCmd creates the up command.
func NewUpCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var sshCheck, provision bool

	cmd := &cobra.Command{
		Use:          "up",
		Short:        "Launch a cluster",
		Long:         upLongDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runtimeContainer.Invoke(func(injector di.Injector) error {
				return HandleUpRunE(cmd, injector, UpDeps{
					SSHCheck:  sshCheck,
					Provision: provision,
				})
			})
		},
	}

	// Flag defaults mirror the config defaults; bound flags fall back to
	// them below env and file values in the precedence chain.
	cmd.Flags().String("name", "fleetup", "Cluster name used to tag provider resources")
	cmd.Flags().Int("count", 4, "Number of nodes to launch")
	cmd.Flags().String("type", "cpx31", "Provider server type")
	cmd.Flags().String("image", "ubuntu-24.04", "OS image")
	cmd.Flags().String("location", "fsn1", "Provider location")
	cmd.Flags().String("keyname", "", "SSH key name registered with the provider")
	cmd.Flags().String("keypair", "", "Path to the private key matching the key name")
	cmd.Flags().String("username", "root", "User to SSH to the nodes")
	cmd.Flags().String("file", "cluster.yaml", "File to save the cluster metadata")
	cmd.Flags().BoolVar(&sshCheck, "ssh-check", true, "Check SSH connectivity after launch")
	cmd.Flags().BoolVar(&provision, "provision", true, "Provision Salt on the nodes after launch")

	return cmd
}

// UpDeps captures dependencies and toggles for the up command logic.
type UpDeps struct {
	// Provider is an optional provider override. If nil, the runtime's
	// provider factory is used with the configured token.
	// This is primarily for testing purposes.
	Provider provider.Provider

	// RunProvision is an optional override for the provisioning step.
	// This is primarily for testing purposes.
	RunProvision func(*cobra.Command, ProvisionDeps) error

	SSHCheck  bool
	Provision bool
}

// HandleUpRunE handles the up command.
// Exported for testing purposes.
func HandleUpRunE(cmd *cobra.Command, injector di.Injector, deps UpDeps) error {
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

	tmr, err := di.ResolveTimer(injector)
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()

	notify.Activityf(writer, "Launching %d nodes", config.Cluster.Count)

	nodes, err := prov.LaunchNodes(cmd.Context(), provider.LaunchSpec{
		ClusterName: config.Cluster.Name,
		Count:       config.Cluster.Count,
		ServerType:  config.Cluster.ServerType,
		Image:       config.Cluster.Image,
		Location:    config.Cluster.Location,
		SSHKeyName:  config.SSH.KeyName,
	})
	if err != nil {
		return fmt.Errorf("failed to launch nodes: %w", err)
	}

	cluster := v1alpha1.ClusterFromNodes(config.Cluster.Name, nodes)
	cluster.SetUsername(config.SSH.Username)
	cluster.SetKeypair(config.SSH.Keypair)

	err = v1alpha1.SaveCluster(cluster, config.Cluster.File)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(writer, tmr, "Cluster metadata written to %s", config.Cluster.File)

	if deps.SSHCheck {
		err = runSSHCheck(cmd, cluster)
		if err != nil {
			return err
		}
	}

	if deps.Provision {
		runProvision := deps.RunProvision
		if runProvision == nil {
			runProvision = HandleProvisionRunE
		}

		return runProvision(cmd, ProvisionDeps{
			Master:     true,
			Minions:    true,
			Upload:     true,
			FormulaDir: defaultFormulaDir,
		})
	}

	return nil
}

// runSSHCheck probes every node and renders the reachability table.
func runSSHCheck(cmd *cobra.Command, cluster *v1alpha1.Cluster) error {
	writer := cmd.OutOrStdout()

	notify.Activityf(writer, "Checking SSH connection to nodes")

	results := sshclient.CheckCluster(cmd.Context(), cluster, sshclient.CheckOptions{})

	rows := [][]string{{"Node IP", "SSH check"}}
	for _, result := range results {
		rows = append(rows, []string{result.IP, result.Status})
	}

	err := table.New(rows, table.DefaultPadding).Write(writer)
	if err != nil {
		return fmt.Errorf("failed to render SSH check table: %w", err)
	}

	return nil
}

// resolveProvider builds the configured cloud provider via the runtime's
// factory.
func resolveProvider(
	injector di.Injector,
	config *configmanager.Config,
) (provider.Provider, error) {
	token := providerToken(config)
	if token == "" {
		return nil, ErrNoProviderToken
	}

	factory, err := di.ResolveProviderFactory(injector)
	if err != nil {
		return nil, err
	}

	return factory(token), nil
}
