package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/ripple/internal/config"
	"github.com/ariel-frischer/ripple/internal/output"
	"github.com/ariel-frischer/ripple/internal/release"
)

var (
	nextJSON  bool
	nextWrite bool
	nextWatch bool
)

// nextOutput is the JSON output structure for the next command.
type nextOutput struct {
	Release   bool            `json:"release"`
	Version   string          `json:"version,omitempty"`
	Changelog string          `json:"changelog,omitempty"`
	Packages  []packageOutput `json:"packages"`
}

// packageOutput is one package's outcome in JSON output.
type packageOutput struct {
	Name     string `json:"name"`
	Dir      string `json:"dir"`
	Current  string `json:"current"`
	Next     string `json:"next,omitempty"`
	Severity string `json:"severity"`
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Compute the next version and changelog for the pending release",
	Long: `Compute the next semantic version and changelog fragment for every
package from the conventional commits since its last release tag.

The command prints one line per package plus the aggregate changelog.
Nothing is written unless --write is given; a run where no package
qualifies for a bump reports "release: false" and still exits 0.

When the repository declares multiple packages, a bump anywhere in a
package's internal dependencies forces at least a patch release of the
package itself, and the aggregate version is the umbrella version.`,
	Example: `  # Preview the pending release
  ripple next

  # Persist bumped manifests and changelog fragments
  ripple next --write

  # Machine-readable summary for pipelines
  ripple next --json

  # Recompute the preview on every new commit or tag
  ripple next --watch`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	nextCmd.Flags().BoolVar(&nextJSON, "json", false, "Output in JSON format")
	nextCmd.Flags().BoolVar(&nextWrite, "write", false, "Persist bumped manifests and changelog fragments")
	nextCmd.Flags().BoolVar(&nextWatch, "watch", false, "Recompute on every new commit or tag (Ctrl+C to stop)")
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	if nextWatch {
		return watchNext(cmd, cfg)
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	sum, err := computeSummary(cmd, runner)
	if err != nil {
		return err
	}

	if nextJSON {
		return printJSON(cmd, sum)
	}

	printSummary(cmd, sum)

	if nextWrite {
		return writeSummary(cmd, runner, cfg, sum)
	}
	return nil
}

// computeSummary runs one resolution with a progress spinner on
// interactive terminals. The spinner writes to stderr so stdout stays
// clean for the summary itself.
func computeSummary(cmd *cobra.Command, runner *release.Runner) (*release.Summary, error) {
	caps := output.DetectCapabilities()
	spin := output.NewScanSpinner(cmd.ErrOrStderr(), "Scanning commit history...", caps)
	spin.Start()
	sum, err := runner.Run(cmd.Context())
	spin.Stop()
	return sum, err
}

// watchNext re-runs the preview whenever the repository's refs change,
// until the user interrupts. Write mode is ignored under watch: the loop
// is a preview, and persisting on every ref change would compound bumps.
func watchNext(cmd *cobra.Command, cfg *config.Configuration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := release.NewWatcher(repoDir)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for new commits and tags. Press Ctrl+C to stop.")

	return w.Watch(ctx, func(ctx context.Context) error {
		// Reopen the repository each pass so freshly packed refs and new
		// tag files are visible to go-git.
		runner, err := buildRunner(cfg)
		if err != nil {
			return err
		}
		sum, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		if nextJSON {
			return printJSON(cmd, sum)
		}
		printSummary(cmd, sum)
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	})
}

// printJSON emits the machine-readable summary.
func printJSON(cmd *cobra.Command, sum *release.Summary) error {
	out := nextOutput{
		Release:  sum.Release,
		Packages: make([]packageOutput, 0, len(sum.Packages)),
	}
	if sum.Release {
		out.Version = sum.Version
		out.Changelog = sum.Changelog
	}
	for _, p := range sum.Packages {
		pkg := packageOutput{
			Name:     p.Name,
			Dir:      p.Dir,
			Current:  p.Current,
			Severity: p.Severity.String(),
		}
		if p.Released() {
			pkg.Next = p.Next
		}
		out.Packages = append(out.Packages, pkg)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	return enc.Encode(out)
}

// printSummary renders the human-readable run outcome.
func printSummary(cmd *cobra.Command, sum *release.Summary) {
	caps := output.DetectCapabilities()
	out := cmd.OutOrStdout()

	for _, p := range sum.Packages {
		kind := p.Severity.String()
		colored := output.SeverityColor(kind, caps)
		if p.Released() {
			fmt.Fprintf(out, "%s: %s -> %s (%s)\n", p.Name, p.Current, p.Next, colored(kind))
		} else {
			fmt.Fprintf(out, "%s: %s (%s)\n", p.Name, p.Current, colored("no release"))
		}
	}

	fmt.Fprintf(out, "\nrelease: %t\n", sum.Release)
	if !sum.Release {
		return
	}
	fmt.Fprintf(out, "version: %s\n", sum.Version)
	if sum.Changelog != "" {
		fmt.Fprintf(out, "\n%s", sum.Changelog)
	}
}

// writeSummary persists the run outcome and confirms each file touched.
func writeSummary(cmd *cobra.Command, runner *release.Runner, cfg *config.Configuration, sum *release.Summary) error {
	out := cmd.OutOrStdout()

	if cfg.DryRun {
		fmt.Fprintln(out, "\n(dry run: nothing written)")
		return nil
	}
	if !sum.Release {
		return nil
	}

	if err := runner.Write(sum); err != nil {
		return err
	}

	caps := output.DetectCapabilities()
	syms := output.SelectSymbols(caps)
	fmt.Fprintln(out)
	for _, p := range sum.Packages {
		if !p.Released() {
			continue
		}
		fmt.Fprintf(out, "%s %s: wrote manifest %s and %s\n", syms.Checkmark, p.Name, p.Next, p.ChangelogPath)
	}
	if len(sum.Packages) > 1 {
		fmt.Fprintf(out, "%s updated %s\n", syms.Checkmark, cfg.ChangelogFile)
	}
	return nil
}
