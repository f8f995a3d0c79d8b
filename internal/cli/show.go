package cli

import (
	"github.com/spf13/cobra"

	"github.com/jakoblorz/project-version/internal/detect"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the detected project and its current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show(cmd)
		},
	}
}

func (a *app) show(cmd *cobra.Command) error {
	dir, err := a.resolveDir()
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	project, adapter, err := detect.New(a.fs, detect.WithLogger(logger)).Detect(dir)
	if err != nil {
		return err
	}
	version, err := adapter.GetVersion()
	if err != nil {
		return err
	}

	renderProject(cmd.OutOrStdout(), project, version)
	return nil
}
