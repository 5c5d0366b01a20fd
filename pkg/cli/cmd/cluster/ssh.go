package cluster

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/fleetup/fleetup/pkg/apis/cluster/v1alpha1"
	"github.com/fleetup/fleetup/pkg/di"
	"github.com/spf13/cobra"
)

const sshLongDesc = `Open an interactive SSH session to a node of the cluster.

Nodes are addressed by their zero-based index; without an argument the
control node (node 0) is used.`

// NewSSHCmd creates the ssh command.
func NewSSHCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ssh [node]",
		Short:        "Open an SSH session to a cluster node",
		Long:         sshLongDesc,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runtimeContainer.Invoke(func(di.Injector) error {
				return HandleSSHRunE(cmd, args, SSHDeps{})
			})
		},
	}

	return cmd
}

// SSHDeps captures the process runner for the ssh command logic.
type SSHDeps struct {
	// Run executes the ssh binary. If nil, an interactive process attached
	// to the current terminal is used.
	// This is primarily for testing purposes.
	Run func(name string, args ...string) error
}

// HandleSSHRunE handles the ssh command.
// Exported for testing purposes.
func HandleSSHRunE(cmd *cobra.Command, args []string, deps SSHDeps) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	nodeIndex := 0

	if len(args) > 0 {
		nodeIndex, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid node index %q: %w", args[0], err)
		}
	}

	cluster, err := v1alpha1.LoadCluster(config.Cluster.File)
	if err != nil {
		return err
	}

	instance, err := cluster.Instance(nodeIndex)
	if err != nil {
		return err
	}

	sshArgs := []string{
		"-i", instance.Keypair,
		"-p", strconv.Itoa(instance.Port),
		"-o", "StrictHostKeyChecking=no",
		fmt.Sprintf("%s@%s", instance.Username, instance.IP),
	}

	run := deps.Run
	if run == nil {
		run = runInteractive
	}

	err = run("ssh", sshArgs...)
	if err != nil {
		return fmt.Errorf("ssh to %s failed: %w", instance.NodeID, err)
	}

	return nil
}

// runInteractive execs a process wired to the current terminal.
func runInteractive(name string, args ...string) error {
	process := exec.Command(name, args...)
	process.Stdin = os.Stdin
	process.Stdout = os.Stdout
	process.Stderr = os.Stderr

	return process.Run()
}
