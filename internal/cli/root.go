// Package cli wires the ripple command tree. Commands stay thin: they load
// configuration, hand the run to internal/release, and format the outcome.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/ripple/internal/config"
	ripplerr "github.com/ariel-frischer/ripple/internal/errors"
	"github.com/ariel-frischer/ripple/internal/git"
	"github.com/ariel-frischer/ripple/internal/manifest"
	"github.com/ariel-frischer/ripple/internal/release"
)

var (
	cfgFile string
	repoDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ripple",
	Short: "Compute next versions and changelogs from conventional commits",
	Long: `ripple derives the next semantic version and a changelog fragment for
every package in a repository from the conventional commits since its
last release tag. Bumps propagate across internal dependencies: a package
whose dependency released gets at least a patch release of its own.

Documentation: https://github.com/ariel-frischer/ripple`,
	Example: `  # Preview the pending release
  ripple next

  # Persist bumped manifests and changelog fragments
  ripple next --write

  # Machine-readable summary for pipelines
  ripple next --json

  # Gate a CI job on whether a release is warranted
  ripple check

  # Re-run the preview on every new commit or tag
  ripple next --watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to the project config file")
	rootCmd.PersistentFlags().StringVarP(&repoDir, "dir", "C", ".", "Repository root to operate on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging of git operations")
}

// Execute runs the root command and reports failures to stderr. The caller
// maps the returned error to a process exit code via ExitCode.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	switch {
	case stderrors.As(err, &exitErr):
		// Already reported by the command; carry only the code.
		return err
	case ripplerr.AsRunError(err) != nil:
		ripplerr.PrintError(ripplerr.AsRunError(err))
		return err
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			return NewExitError(ExitInvalidArguments)
		}
		return err
	}
}

// isUsageError reports whether the error came from cobra's flag or
// argument validation rather than from a run.
func isUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") ||
		strings.HasPrefix(msg, "flag needs an argument") ||
		strings.HasPrefix(msg, "invalid argument")
}

// loadRunConfig loads the merged configuration for the target repository
// and applies the global flag overrides.
func loadRunConfig() (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: cfgFile,
		ProjectDir:        repoDir,
	})
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		git.SetDebugLogger(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}
	return cfg, nil
}

// buildRunner opens the repository's commit and tag source and assembles
// the release runner for one invocation.
func buildRunner(cfg *config.Configuration) (*release.Runner, error) {
	src, err := git.NewSource(repoDir)
	if err != nil {
		return nil, ripplerr.Wrap(err, ripplerr.ExternalQuery,
			"Run ripple from inside a git repository or pass --dir")
	}
	store := manifest.NewStore(repoDir)
	return release.NewRunner(src, src, store, cfg), nil
}
