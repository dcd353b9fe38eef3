// Package mcp exposes requirement generation to MCP clients.
package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/Pvilangaiah/RequirementsBot/internal/application"
)

// Server wraps the MCP protocol server around the generation service.
type Server struct {
	mcpServer *mcp.Server
	svc       *application.GenerateService
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients. Internal details
// stay out of the protocol response.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

func NewServer(svc *application.GenerateService) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("generate service is nil")
	}

	info := mcp.ServerInfo{
		Name:    "requirementsbot",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("RequirementsBot MCP Server"),
			mcp.WithDescription("RequirementsBot turns product design inputs into structured requirement bundles."),
			mcp.WithWebsiteURL("https://github.com/Pvilangaiah/RequirementsBot"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use generate_requirements to produce a bundle from a Figma link, brief, and validation rules. Read requirements://schema for the output contract."),
		),
		svc: svc,
	}

	s.registerTools()
	s.registerSchemaResource()
	return s, nil
}

type GenerateArgs struct {
	FigmaURL     string `json:"figma_url,omitempty" jsonschema:"description=Figma file or frame URL for the design"`
	Brief        string `json:"brief,omitempty" jsonschema:"description=Short product brief describing the feature"`
	Rules        string `json:"rules,omitempty" jsonschema:"description=Validation rules the requirements must respect"`
	Model        string `json:"model,omitempty" jsonschema:"description=Override for the completion model"`
	Detail       string `json:"detail,omitempty" jsonschema:"description=Detail level, e.g. standard or exhaustive"`
	ImageDataURL string `json:"image_data_url,omitempty" jsonschema:"description=Design screenshot as a data URL"`
}

func (s *Server) registerTools() {
	// Tool: generate_requirements
	s.mcpServer.Tool("generate_requirements").
		Description("Generate a structured requirements bundle (user stories, BDD scenarios, tests, data model, validation report) from product design inputs").
		UIResource("ui://requirementsbot/bundle").
		Handler(s.handleGenerate)

	// Tool: requirements_schema
	s.mcpServer.Tool("requirements_schema").
		Description("Return the JSON schema every generated requirements bundle must satisfy").
		UIResource("ui://requirementsbot/schema").
		Handler(s.handleSchema)
}

func (s *Server) handleGenerate(ctx context.Context, args GenerateArgs) (string, error) {
	result, err := s.svc.Generate(ctx, application.GenerateInput{
		FigmaURL:     args.FigmaURL,
		Brief:        args.Brief,
		Rules:        args.Rules,
		Model:        args.Model,
		Detail:       args.Detail,
		ImageDataURL: args.ImageDataURL,
	})
	if err != nil {
		return "", mcpErr("Generation failed. Check the API credential and that the completion service is reachable.")
	}
	return result.Content, nil
}

func (s *Server) handleSchema(ctx context.Context, args struct{}) (any, error) {
	return schemaDocument(), nil
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) StartWebSocket(addr string) error {
	return s.ServeWebSocket(context.Background(), addr)
}

func (s *Server) StartGRPC(addr string) error {
	return s.ServeGRPC(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}

func (s *Server) ServeGRPC(ctx context.Context, addr string) error {
	return mcp.ServeGRPC(ctx, s.mcpServer, addr)
}
