package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/httpapi"
	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/telemetry"
	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/watch"
)

var (
	serveAddr       string
	servePromptFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the requirements generation HTTP server",
	Long: `Start the HTTP server that accepts product design inputs and relays
them to the completion service.

The endpoint accepts POST with an optional JSON body:
  {"figmaUrl", "brief", "rules", "model", "detail", "imageDataUrl"}

Examples:
  # Serve on the default address with the key from the environment
  REQBOT_API_KEY=sk-... requirementsbot serve

  # Serve on a custom port with a watched prompt override
  REQBOT_PROMPT_FILE=prompt.txt requirementsbot serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		if servePromptFile != "" {
			cfg.PromptFile = servePromptFile
		}
		if err := cfg.Validate(); err != nil {
			return NewCLIError(
				"configuration is not usable",
				"Set REQBOT_API_KEY, or set REQBOT_AI_PROVIDER=mock for offline testing",
				err,
			)
		}

		svc, builder, err := newGenerateService(cfg)
		if err != nil {
			return err
		}

		shutdownTelemetry, err := telemetry.Init(context.Background(), telemetry.DefaultConfig())
		if err != nil {
			log.Printf("Telemetry disabled: %v", err)
			shutdownTelemetry = func(context.Context) error { return nil }
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTelemetry(ctx)
		}()

		// Reload the prompt override while the server runs
		watchCtx, stopWatch := context.WithCancel(context.Background())
		defer stopWatch()
		if cfg.PromptFile != "" {
			watcher, err := watch.NewPromptWatcher(cfg.PromptFile, 0, func(content string) {
				builder.SetSystemPrompt(content)
			})
			if err != nil {
				return fmt.Errorf("watch prompt file: %w", err)
			}
			go func() {
				if err := watcher.Run(watchCtx); err != nil && watchCtx.Err() == nil {
					log.Printf("Prompt watcher stopped: %v", err)
				}
			}()
			fmt.Printf("Watching %s for system prompt changes\n", cfg.PromptFile)
		}

		server := httpapi.NewServer(cfg.Addr, svc, cfg.Timeout)

		// Handle graceful shutdown
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			<-stop
			fmt.Println("\nShutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}()

		display := cfg.Addr
		if strings.HasPrefix(display, ":") {
			display = "localhost" + display
		}
		fmt.Printf("Starting RequirementsBot server on %s\n", cfg.Addr)
		fmt.Println("Endpoints:")
		fmt.Printf("  POST http://%s/          (generate a bundle)\n", display)
		fmt.Printf("  GET  http://%s/health\n", display)
		fmt.Printf("  GET  http://%s/requests  (recent requests)\n", display)
		fmt.Println("\nPress Ctrl+C to stop")

		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&servePromptFile, "prompt-file", "", "System prompt override file to load and watch")
	serveCmd.Flags().StringVar(&cfgFile, "config", "", "Config file path (default requirementsbot.yaml)")
	RootCmd.AddCommand(serveCmd)
}
