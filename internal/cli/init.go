package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/ripple/internal/config"
	"github.com/ariel-frischer/ripple/internal/output"
)

var (
	initUser  bool
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter ripple configuration file",
	Long: `Write a fully commented configuration file with every option at its
default value.

By default the file goes to .ripple/config.yml in the target repository.
With --user it goes to the user-level location instead, applying to every
repository without its own project config. An existing file is left
unchanged unless --force is given.`,
	Example: `  # Create .ripple/config.yml in the current repository
  ripple init

  # Create the user-level config (~/.config/ripple/config.yml on Linux)
  ripple init --user

  # Overwrite an existing config with the defaults
  ripple init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initUser, "user", false, "Write the user-level config instead of the project config")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := initConfigPath()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(out, "config already exists at %s (use --force to overwrite)\n", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	syms := output.SelectSymbols(output.DetectCapabilities())
	fmt.Fprintf(out, "%s wrote %s\n", syms.Checkmark, path)
	return nil
}

// initConfigPath resolves where the config file goes: the user-level
// location with --user, otherwise the project location under the target
// repository.
func initConfigPath() (string, error) {
	if initUser {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", fmt.Errorf("locating user config directory: %w", err)
		}
		return path, nil
	}
	return filepath.Join(repoDir, config.ProjectConfigPath()), nil
}
