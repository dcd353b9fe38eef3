package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	inframcp "github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/mcp"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the RequirementsBot MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("REQBOT_SKIP_MCP_START") == "true" {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return NewCLIError("could not load configuration", "Check the config file syntax", err)
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

		server, err := inframcp.NewServer(svc)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}

		switch strings.ToLower(mcpTransport) {
		case "stdio", "":
			err = server.StartStdio()
		case "http":
			err = server.StartHTTP(mcpAddr)
		case "ws", "websocket":
			err = server.StartWebSocket(mcpAddr)
		case "grpc":
			err = server.StartGRPC(mcpAddr)
		default:
			err = fmt.Errorf("unsupported transport: %s", mcpTransport)
		}
		return err
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use (stdio, http, ws, grpc)")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", ":8080", "Address for http/ws/grpc transports")
	mcpCmd.Flags().StringVar(&cfgFile, "config", "", "Config file path (default requirementsbot.yaml)")
	RootCmd.AddCommand(mcpCmd)
}
