package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/project-version/internal/config"
	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/release"
	"github.com/jakoblorz/project-version/internal/tui"
)

// app holds the collaborators shared by every command.
type app struct {
	fs            filesystem.FileSystem
	runnerOptions []release.RunnerOption
	configOptions []config.Option
	confirm       release.ConfirmFunc
	logOutput     io.Writer

	dir     string
	verbose bool
	dryRun  bool
}

// Option configures the root command.
type Option func(*app)

// WithRunnerOptions passes options to every release runner, e.g. a git
// client or lock runner stub.
func WithRunnerOptions(options ...release.RunnerOption) Option {
	return func(a *app) { a.runnerOptions = append(a.runnerOptions, options...) }
}

// WithConfigOptions passes options to config.Load.
func WithConfigOptions(options ...config.Option) Option {
	return func(a *app) { a.configOptions = append(a.configOptions, options...) }
}

// WithConfirm replaces the interactive tag overwrite prompt.
func WithConfirm(fn release.ConfirmFunc) Option {
	return func(a *app) { a.confirm = fn }
}

// WithLogOutput redirects log output, stderr by default.
func WithLogOutput(w io.Writer) Option {
	return func(a *app) { a.logOutput = w }
}

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, options ...Option) *cobra.Command {
	a := &app{fs: fs, logOutput: os.Stderr}
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		a.confirm = tui.ConfirmTagOverwrite
	}
	for _, option := range options {
		option(a)
	}

	rootCmd := &cobra.Command{
		Use:   "project-version [DIRECTORY]",
		Short: "Bump the version of a project in place",
		Long: `Detects the project in DIRECTORY (default: the current directory), rewrites
its version in every manifest that carries it, updates the changelog and lock
files, and commits and tags the release.

Supported projects: package.json, pyproject.toml, Cargo.toml (crates and
workspace members), Go modules with a version.go, Ruby gems and Helm charts.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if a.verbose {
				level = log.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(a.logOutput, level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without a subcommand, show the detected project.
			if len(args) == 1 {
				a.dir = args[0]
			}
			return a.show(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.dir, "dir", "C", "", "project directory (same as the DIRECTORY argument)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&a.dryRun, "dry-run", "n", false, "show what would change without writing anything")

	rootCmd.AddCommand(newBumpCommand(a))
	rootCmd.AddCommand(newSetCommand(a))
	rootCmd.AddCommand(newShowCommand(a))

	return rootCmd
}

// resolveDir returns the absolute project directory.
func (a *app) resolveDir() (string, error) {
	dir := a.dir
	if dir == "" {
		dir = "."
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	cwd, err := a.fs.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, dir), nil
}

// Execute runs the root command with the process arguments
func Execute(ctx context.Context) error {
	fs := filesystem.NewOSFileSystem()
	rootCmd := NewRootCommand(fs)
	rootCmd.SetArgs(normalizeArgs(os.Args[1:], rootCmd))
	return rootCmd.ExecuteContext(ctx)
}
