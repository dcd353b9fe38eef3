package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/requirements"
)

// SchemaVersion is the current bundle schema version (semver).
const SchemaVersion = "1.0.0"

type schemaResponse struct {
	SchemaVersion string                 `json:"schema_version"`
	ServerVersion string                 `json:"server_version"`
	SchemaName    string                 `json:"schema_name"`
	Schema        map[string]interface{} `json:"schema"`
}

func schemaDocument() schemaResponse {
	return schemaResponse{
		SchemaVersion: SchemaVersion,
		ServerVersion: Version,
		SchemaName:    requirements.SchemaName,
		Schema:        requirements.Schema(),
	}
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource("requirements://schema").
		Name("requirements://schema").
		Description("JSON schema that generated requirement bundles must satisfy").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			data, err := json.Marshal(schemaDocument())
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      "requirements://schema",
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
