package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/requirements"
	infraAI "github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/ai"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of the RequirementsBot environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Running RequirementsBot Doctor...")

		hasIssues := false
		check := func(name string, fn func() error) {
			fmt.Printf("Checking %s... ", name)
			if err := fn(); err != nil {
				fmt.Printf("FAIL\n  Error: %v\n", err)
				hasIssues = true
			} else {
				fmt.Printf("PASS\n")
			}
		}

		cfg, cfgErr := loadConfig()

		check("Configuration", func() error {
			return cfgErr
		})

		check("Credential", func() error {
			if cfgErr != nil {
				return fmt.Errorf("skipped (configuration failed)")
			}
			return cfg.Validate()
		})

		check("Prompt File", func() error {
			if cfgErr != nil {
				return fmt.Errorf("skipped (configuration failed)")
			}
			if cfg.PromptFile == "" {
				fmt.Printf("(built-in) ")
				return nil
			}
			_, err := os.Stat(cfg.PromptFile)
			return err
		})

		check("Bundle Schema", func() error {
			_, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(requirements.Schema()))
			return err
		})

		check("Provider", func() error {
			if cfgErr != nil {
				return fmt.Errorf("skipped (configuration failed)")
			}
			_, err := infraAI.NewProvider(infraAI.Options{
				Provider: cfg.Provider,
				Model:    cfg.Model,
				BaseURL:  cfg.BaseURL,
				APIKey:   cfg.APIKey,
				Timeout:  cfg.Timeout,
			})
			return err
		})

		check("Upstream", func() error {
			if cfgErr != nil {
				return fmt.Errorf("skipped (configuration failed)")
			}
			switch strings.ToLower(cfg.Provider) {
			case "", "openai":
			default:
				fmt.Printf("(%s, skipped) ", cfg.Provider)
				return nil
			}
			base := cfg.BaseURL
			if base == "" {
				base = infraAI.DefaultBaseURL
			}
			// Any HTTP response proves the endpoint is reachable; an
			// unauthenticated probe normally earns a 401.
			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get(strings.TrimSuffix(base, "/") + "/models")
			if err != nil {
				return fmt.Errorf("endpoint unreachable: %w", err)
			}
			defer func() { _ = resp.Body.Close() }()
			return nil
		})

		if hasIssues {
			fmt.Println("\nissues found! Please fix them before continuing.")
			return fmt.Errorf("doctor found issues")
		}
		fmt.Println("\nEverything looks good!")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
