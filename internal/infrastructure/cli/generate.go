package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pvilangaiah/RequirementsBot/internal/application"
)

var (
	genFigmaURL  string
	genBrief     string
	genBriefFile string
	genRules     string
	genRulesFile string
	genModel     string
	genDetail    string
	genImageFile string
	genInput     string
	genOutput    string
)

// generateInputFile mirrors the HTTP request body so a saved request can be
// replayed from the command line.
type generateInputFile struct {
	FigmaURL     string `json:"figmaUrl"`
	Brief        string `json:"brief"`
	Rules        string `json:"rules"`
	Model        string `json:"model"`
	Detail       string `json:"detail"`
	ImageDataURL string `json:"imageDataUrl"`
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a requirements bundle from design inputs",
	Long: `Generate a requirements bundle without running the server.

Examples:
  requirementsbot generate --brief "Checkout flow for the web shop"
  requirementsbot generate --figma-url https://figma.com/file/abc \
    --rules-file rules.txt --image-file screen.png --output bundle.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return NewCLIError(
				"configuration is not usable",
				"Set REQBOT_API_KEY, or set REQBOT_AI_PROVIDER=mock for offline testing",
				err,
			)
		}

		svc, _, err := newGenerateService(cfg)
		if err != nil {
			return err
		}

		// Base values from --input, individual flags override.
		var base generateInputFile
		if genInput != "" {
			data, err := os.ReadFile(genInput)
			if err != nil {
				return fmt.Errorf("read input file: %w", err)
			}
			if err := json.Unmarshal(data, &base); err != nil {
				return fmt.Errorf("parse input file: %w", err)
			}
		}

		figmaURL := base.FigmaURL
		if genFigmaURL != "" {
			figmaURL = genFigmaURL
		}

		brief := base.Brief
		if genBrief != "" {
			brief = genBrief
		}
		if genBriefFile != "" {
			data, err := os.ReadFile(genBriefFile)
			if err != nil {
				return fmt.Errorf("read brief file: %w", err)
			}
			brief = string(data)
		}

		rules := base.Rules
		if genRules != "" {
			rules = genRules
		}
		if genRulesFile != "" {
			data, err := os.ReadFile(genRulesFile)
			if err != nil {
				return fmt.Errorf("read rules file: %w", err)
			}
			rules = string(data)
		}

		model := base.Model
		if genModel != "" {
			model = genModel
		}

		detail := base.Detail
		if genDetail != "" {
			detail = genDetail
		}

		imageDataURL := base.ImageDataURL
		if genImageFile != "" {
			imageDataURL, err = encodeImageFile(genImageFile)
			if err != nil {
				return err
			}
		}

		result, err := svc.Generate(cmd.Context(), application.GenerateInput{
			FigmaURL:     figmaURL,
			Brief:        brief,
			Rules:        rules,
			Model:        model,
			Detail:       detail,
			ImageDataURL: imageDataURL,
		})
		if err != nil {
			return MapError(err)
		}

		if genOutput != "" {
			if err := os.WriteFile(genOutput, []byte(result.Content), 0600); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("Bundle written to %s (model %s, %d/%d tokens)\n",
				genOutput, result.Model, result.Usage.InputTokens, result.Usage.OutputTokens)
			return nil
		}

		fmt.Println(result.Content)
		return nil
	},
}

// encodeImageFile turns a local image into the data URL the completion
// service expects for vision input.
func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image file: %w", err)
	}

	mimeType := ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mimeType = "image/png"
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".gif":
		mimeType = "image/gif"
	case ".webp":
		mimeType = "image/webp"
	default:
		return "", fmt.Errorf("unsupported image type %q (use png, jpg, gif, or webp)", filepath.Ext(path))
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

func init() {
	generateCmd.Flags().StringVar(&genFigmaURL, "figma-url", "", "Figma file or frame URL")
	generateCmd.Flags().StringVar(&genBrief, "brief", "", "Product brief text")
	generateCmd.Flags().StringVar(&genBriefFile, "brief-file", "", "Read the brief from a file")
	generateCmd.Flags().StringVar(&genRules, "rules", "", "Validation rules text")
	generateCmd.Flags().StringVar(&genRulesFile, "rules-file", "", "Read validation rules from a file")
	generateCmd.Flags().StringVar(&genModel, "model", "", "Model override for this run")
	generateCmd.Flags().StringVar(&genDetail, "detail", "", "Detail level (default standard)")
	generateCmd.Flags().StringVar(&genImageFile, "image-file", "", "Design screenshot to attach")
	generateCmd.Flags().StringVar(&genInput, "input", "", "JSON file with the request body fields")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Write the bundle to a file instead of stdout")
	generateCmd.Flags().StringVar(&cfgFile, "config", "", "Config file path (default requirementsbot.yaml)")
	RootCmd.AddCommand(generateCmd)
}
