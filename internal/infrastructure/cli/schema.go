package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/requirements"
)

var (
	schemaOutput   string
	schemaCheck    bool
	schemaEnvelope bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema generated bundles must satisfy",
	Long: `Print the JSON schema generated bundles must satisfy.

With --envelope the full response_format object sent to the completion
service is printed instead of the bare schema. With --check the schema is
compiled and the command reports whether it is well formed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaCheck {
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(requirements.Schema())); err != nil {
				return fmt.Errorf("schema does not compile: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema compiles cleanly")
			return nil
		}

		var doc interface{} = requirements.Schema()
		if schemaEnvelope {
			doc = requirements.ResponseFormat()
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}

		if schemaOutput != "" {
			if err := os.WriteFile(schemaOutput, append(data, '\n'), 0600); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}
			fmt.Printf("Schema written to %s\n", schemaOutput)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Write the schema to a file instead of stdout")
	schemaCmd.Flags().BoolVar(&schemaCheck, "check", false, "Compile the schema and report whether it is well formed")
	schemaCmd.Flags().BoolVar(&schemaEnvelope, "envelope", false, "Print the full response_format envelope")
	RootCmd.AddCommand(schemaCmd)
}
