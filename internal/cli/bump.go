package cli

import (
	"github.com/spf13/cobra"

	"github.com/jakoblorz/project-version/internal/models"
	"github.com/jakoblorz/project-version/internal/release"
)

func newBumpCommand(a *app) *cobra.Command {
	var flags releaseFlags

	cmd := &cobra.Command{
		Use:       "bump [major|minor|patch]",
		Short:     "Increment the version (patch by default)",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(models.BumpMajor), string(models.BumpMinor), string(models.BumpPatch)},
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			}
			bumpType, err := models.ParseBumpType(raw)
			if err != nil {
				return err
			}
			return a.runRelease(cmd, &flags, release.Request{
				Operation: models.OperationBump,
				BumpType:  bumpType,
			})
		},
	}
	flags.register(cmd)

	return cmd
}
