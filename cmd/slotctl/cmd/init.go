package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/slotkit/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a new configuration",
	Long: `Write a configuration file with a generated API key and program id.

Example:
  slotctl init --config ./slotkit.yaml --data-dir ./data`,
	Annotations: map[string]string{"skipContainer": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := initializeConfig(path, dataDir, force)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", path)
		cmd.Printf("Program ID: %s\n", cfg.Runtime.ProgramID)
		cmd.Printf("API key:    %s\n", cfg.Security.APIKey)
		return nil
	},
}

func initializeConfig(path, dataDir string, force bool) (*config.Config, error) {
	if config.ConfigExists(path) && !force {
		return nil, errors.Newf("config %s already exists (use --force to overwrite)", path)
	}
	return config.BootstrapConfig(path, dataDir)
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}
