package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/requirements"
	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/export"
)

var (
	exportRepo   string
	exportToken  string
	exportLabels []string
	exportDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a generated bundle to an external tracker",
}

var exportGitHubCmd = &cobra.Command{
	Use:   "github <bundle.json>",
	Short: "File one GitHub issue per user story",
	Long: `File one GitHub issue per user story in a generated bundle.

The issue body carries the story narrative, its acceptance criteria as a
checklist, and any traceability links back to design nodes and entities.
The token comes from --token, REQBOT_GITHUB_TOKEN, or GITHUB_TOKEN.

Examples:
  requirementsbot export github bundle.json --repo acme/shop
  requirementsbot export github bundle.json --repo acme/shop --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return NewCLIError(
				"could not read the bundle file",
				"Generate one first: requirementsbot generate --brief \"...\" --output bundle.json",
				err,
			)
		}

		bundle, err := requirements.ParseBundle(data)
		if err != nil {
			return NewCLIError(
				"the bundle file is not valid JSON",
				"Regenerate it, or check the file for manual edits",
				err,
			)
		}

		owner, repo, ok := strings.Cut(exportRepo, "/")
		if !ok || owner == "" || repo == "" {
			return NewCLIError(
				"invalid repository reference",
				"Pass --repo as owner/name, for example --repo acme/shop",
				fmt.Errorf("got %q", exportRepo),
			)
		}

		token := exportToken
		if token == "" {
			token = os.Getenv("REQBOT_GITHUB_TOKEN")
		}
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}

		exporter, err := export.NewGitHubExporter(cmd.Context(), token, owner, repo)
		if err != nil {
			return NewCLIError(
				"could not set up the GitHub exporter",
				"Set REQBOT_GITHUB_TOKEN (or pass --token) and check --repo",
				err,
			)
		}
		exporter.SetDryRun(exportDryRun)
		if len(exportLabels) > 0 {
			exporter.SetLabels(exportLabels)
		}

		results, err := exporter.ExportStories(cmd.Context(), bundle)
		if err != nil {
			return NewCLIError(
				"exporting stories failed",
				"Check the token's repo permissions and that the repository exists",
				err,
			)
		}

		for _, r := range results {
			if exportDryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "[dry-run] %s: %s\n", r.StoryID, r.Title)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.StoryID, r.URL)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d stories to %s/%s\n", len(results), owner, repo)
		return nil
	},
}

func init() {
	exportGitHubCmd.Flags().StringVar(&exportRepo, "repo", "", "Target repository as owner/name")
	exportGitHubCmd.Flags().StringVar(&exportToken, "token", "", "GitHub token (falls back to REQBOT_GITHUB_TOKEN, GITHUB_TOKEN)")
	exportGitHubCmd.Flags().StringSliceVar(&exportLabels, "labels", nil, "Labels to apply to each issue")
	exportGitHubCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "Print what would be filed without calling GitHub")
	_ = exportGitHubCmd.MarkFlagRequired("repo")

	exportCmd.AddCommand(exportGitHubCmd)
	RootCmd.AddCommand(exportCmd)
}
