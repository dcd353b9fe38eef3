package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "requirementsbot",
	Version: Version,
	Short:   "Turn product designs into structured requirement bundles",
	Long: `RequirementsBot turns product design inputs (a Figma link, a brief,
validation rules, an optional screenshot) into a structured bundle of
user stories, BDD scenarios, imperative tests, a UI data model, and a
validation report, using an OpenAI-compatible completion service.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Global flags can be defined here
}
