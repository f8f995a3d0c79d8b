package cli

import (
	"github.com/spf13/cobra"

	"github.com/jakoblorz/project-version/internal/models"
	"github.com/jakoblorz/project-version/internal/release"
)

func newSetCommand(a *app) *cobra.Command {
	var (
		flags releaseFlags
		force bool
	)

	cmd := &cobra.Command{
		Use:   "set <VERSION>",
		Short: "Set an explicit version",
		Long:  `Sets the version to VERSION. It must be higher than the current version unless --force is given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRelease(cmd, &flags, release.Request{
				Operation: models.OperationSet,
				Version:   args[0],
				Force:     force,
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "allow a version that is not higher than the current one")

	return cmd
}
