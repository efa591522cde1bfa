package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether the commit history warrants a release",
	Long: `Run the resolution engine and report only whether a release is
warranted. Exits 0 when at least one package qualifies for a bump and 3
when none does, so pipelines can gate release jobs on the exit code.`,
	Example: `  # Skip the publish job when there is nothing to release
  ripple check && make publish`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	sum, err := computeSummary(cmd, runner)
	if err != nil {
		return err
	}

	if !sum.Release {
		fmt.Fprintln(cmd.OutOrStdout(), "no release warranted")
		return NewExitError(ExitNoRelease)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "release warranted: %s\n", sum.Version)
	return nil
}
