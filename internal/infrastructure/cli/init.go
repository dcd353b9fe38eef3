package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultFile
		if cfgFile != "" {
			path = cfgFile
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return NewCLIError(
				fmt.Sprintf("%s already exists", path),
				"Pass --force to overwrite it",
				nil,
			)
		}

		if err := config.Save(path, config.Default()); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}

		fmt.Printf("Successfully wrote %s\n", path)
		fmt.Println("Set REQBOT_API_KEY (or OPENAI_API_KEY) before serving; the credential is never stored in the file.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
	initCmd.Flags().StringVar(&cfgFile, "config", "", "Config file path (default requirementsbot.yaml)")
	RootCmd.AddCommand(initCmd)
}
