package cli

import (
	"fmt"
	"os"

	"github.com/Pvilangaiah/RequirementsBot/internal/application"
	"github.com/Pvilangaiah/RequirementsBot/internal/domain/prompt"
	infraAI "github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/ai"
	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/config"
)

// cfgFile is the --config flag shared by commands that load settings.
var cfgFile string

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newGenerateService builds the generation pipeline from the configuration:
// provider, prompt builder with an optional file override, and the service.
func newGenerateService(cfg *config.Config) (*application.GenerateService, *prompt.Builder, error) {
	provider, err := infraAI.NewProvider(infraAI.Options{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	builder := prompt.NewBuilder()
	if cfg.PromptFile != "" {
		if data, err := os.ReadFile(cfg.PromptFile); err == nil {
			builder.SetSystemPrompt(string(data))
		}
	}

	return application.NewGenerateService(provider, builder, cfg.Model), builder, nil
}
