package cluster

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fleetup/fleetup/pkg/apis/cluster/v1alpha1"
	"github.com/fleetup/fleetup/pkg/di"
	"github.com/fleetup/fleetup/pkg/svc/salt"
	"github.com/fleetup/fleetup/pkg/ui/notify"
	"github.com/spf13/cobra"
)

const provisionLongDesc = `Install the Salt control plane on an already launched cluster.

Bootstraps a Salt master on the control node, a minion on every node,
and uploads a local formula tree to the master's file roots. The upload
is skipped when the formula directory does not exist.`

// defaultFormulaDir is the formula tree uploaded to the master's file roots.
const defaultFormulaDir = "salt"

// NewProvisionCmd creates the provision command.
func NewProvisionCmd(runtimeContainer *di.Runtime) *cobra.Command {
	deps := ProvisionDeps{}

	cmd := &cobra.Command{
		Use:          "provision",
		Short:        "Install Salt on an existing cluster",
		Long:         provisionLongDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runtimeContainer.Invoke(func(di.Injector) error {
				return HandleProvisionRunE(cmd, deps)
			})
		},
	}

	cmd.Flags().BoolVar(&deps.Master, "master", true, "Bootstrap the Salt master on the control node")
	cmd.Flags().BoolVar(&deps.Minions, "minions", true, "Bootstrap Salt minions on all nodes")
	cmd.Flags().BoolVar(&deps.Upload, "upload", true, "Upload a local formula directory to the master")
	cmd.Flags().StringVar(&deps.FormulaDir, "formulas", defaultFormulaDir, "Local formula directory to upload")

	return cmd
}

// ProvisionDeps captures toggles and injectable bootstrap steps for the
// provision command logic.
type ProvisionDeps struct {
	Master  bool
	Minions bool
	Upload  bool

	FormulaDir string

	// Optional step overrides for testing purposes.
	InstallMaster  func(context.Context, *v1alpha1.Cluster) error
	InstallMinions func(context.Context, *v1alpha1.Cluster, io.Writer) error
	UploadFormulas func(context.Context, *v1alpha1.Cluster, string) error
}

// HandleProvisionRunE handles the provision command.
// Exported for testing purposes.
func HandleProvisionRunE(cmd *cobra.Command, deps ProvisionDeps) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cluster, err := v1alpha1.LoadCluster(config.Cluster.File)
	if err != nil {
		return err
	}

	installMaster := deps.InstallMaster
	if installMaster == nil {
		installMaster = salt.InstallMaster
	}

	installMinions := deps.InstallMinions
	if installMinions == nil {
		installMinions = salt.InstallMinions
	}

	uploadFormulas := deps.UploadFormulas
	if uploadFormulas == nil {
		uploadFormulas = salt.UploadFormulas
	}

	writer := cmd.OutOrStdout()

	if deps.Master {
		notify.Activityf(writer, "Bootstrapping Salt master on the control node")

		err = installMaster(cmd.Context(), cluster)
		if err != nil {
			return err
		}
	}

	if deps.Minions {
		err = installMinions(cmd.Context(), cluster, writer)
		if err != nil {
			return err
		}
	}

	if deps.Upload {
		_, statErr := os.Stat(deps.FormulaDir)

		switch {
		case errors.Is(statErr, os.ErrNotExist):
			notify.Warningf(writer, "Formula directory %s not found, skipping upload", deps.FormulaDir)
		case statErr != nil:
			return statErr
		default:
			notify.Activityf(writer, "Uploading formulas from %s", deps.FormulaDir)

			err = uploadFormulas(cmd.Context(), cluster, deps.FormulaDir)
			if err != nil {
				return err
			}
		}
	}

	notify.Successf(writer, "Cluster '%s' provisioned", cluster.Spec.Name)

	return nil
}
