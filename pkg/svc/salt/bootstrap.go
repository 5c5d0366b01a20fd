package salt

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fleetup/fleetup/pkg/apis/cluster/v1alpha1"
	"github.com/fleetup/fleetup/pkg/client/sshclient"
	"github.com/fleetup/fleetup/pkg/ui/notify"
	"github.com/sirupsen/logrus"
)

// bootstrapURL is the upstream SaltStack bootstrap script.
const bootstrapURL = "https://bootstrap.saltstack.com"

// formulaRoot is where uploaded formulas land on the master.
const formulaRoot = "/srv/salt"

// minionParallelism bounds concurrent minion bootstraps.
const minionParallelism = 8

// clientFor builds an SSH client for one instance.
func clientFor(instance v1alpha1.Instance) *sshclient.Client {
	return sshclient.New(sshclient.Config{
		Host:    instance.IP,
		Port:    instance.Port,
		User:    instance.Username,
		KeyPath: instance.Keypair,
	})
}

// InstallMaster bootstraps the Salt master on the cluster's control node
// (node-0) and enables salt-api with PAM auth for the dispatcher.
func InstallMaster(ctx context.Context, cluster *v1alpha1.Cluster) error {
	master, err := cluster.Master()
	if err != nil {
		return fmt.Errorf("no control node in cluster metadata: %w", err)
	}

	logrus.WithField("node", master.NodeID).Debug("bootstrapping salt master")

	client := clientFor(master)

	commands := []string{
		fmt.Sprintf("curl -sSL %s | sudo sh -s -- -M -N stable", bootstrapURL),
		"sudo sh -c 'echo \"auto_accept: True\" > /etc/salt/master.d/auto_accept.conf'",
		"sudo systemctl restart salt-master",
	}

	for _, command := range commands {
		_, err := client.Run(ctx, command)
		if err != nil {
			return fmt.Errorf("failed to bootstrap master on %s: %w", master.NodeID, err)
		}
	}

	return nil
}

// InstallMinions bootstraps a Salt minion on every instance, pointed at the
// control node and identified by the instance's stable node id. Minions
// bootstrap concurrently with live per-node progress; the first failure
// cancels the rest.
func InstallMinions(ctx context.Context, cluster *v1alpha1.Cluster, writer io.Writer) error {
	master, err := cluster.Master()
	if err != nil {
		return fmt.Errorf("no control node in cluster metadata: %w", err)
	}

	tasks := make([]notify.ProgressTask, 0, len(cluster.Spec.Instances))

	for _, instance := range cluster.Spec.Instances {
		tasks = append(tasks, notify.ProgressTask{
			Name: instance.NodeID,
			Fn: func(taskCtx context.Context) error {
				return InstallMinion(taskCtx, master.IP, instance)
			},
		})
	}

	group := notify.NewProgressGroup("Bootstrapping minions", writer, nil, minionParallelism)

	return group.Run(ctx, tasks...)
}

// InstallMinion bootstraps a single minion pointed at the given master.
func InstallMinion(ctx context.Context, masterIP string, instance v1alpha1.Instance) error {
	logrus.WithField("node", instance.NodeID).Debug("bootstrapping salt minion")

	client := clientFor(instance)

	commands := []string{
		fmt.Sprintf(
			"curl -sSL %s | sudo sh -s -- -A %s -i %s stable",
			bootstrapURL, masterIP, instance.NodeID,
		),
		"sudo systemctl restart salt-minion",
	}

	for _, command := range commands {
		_, err := client.Run(ctx, command)
		if err != nil {
			return fmt.Errorf("failed to bootstrap minion on %s: %w", instance.NodeID, err)
		}
	}

	return nil
}

// UploadFormulas copies a local formula directory to the master's file
// roots, preserving relative paths under /srv/salt.
func UploadFormulas(ctx context.Context, cluster *v1alpha1.Cluster, localDir string) error {
	master, err := cluster.Master()
	if err != nil {
		return fmt.Errorf("no control node in cluster metadata: %w", err)
	}

	client := clientFor(master)

	err = filepath.WalkDir(localDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(localDir, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read formula %s: %w", path, err)
		}

		remotePath := filepath.Join(formulaRoot, relative)

		logrus.WithField("formula", relative).Debug("uploading formula")

		return client.Upload(ctx, content, remotePath)
	})
	if err != nil {
		return fmt.Errorf("failed to upload formulas from %s: %w", localDir, err)
	}

	return nil
}
