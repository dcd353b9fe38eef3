package application

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
	"github.com/Pvilangaiah/RequirementsBot/internal/domain/prompt"
	"github.com/Pvilangaiah/RequirementsBot/internal/domain/requirements"
	"github.com/Pvilangaiah/RequirementsBot/internal/infrastructure/telemetry"
)

// EmptyBundle is relayed when the completion service returns no content.
const EmptyBundle = "{}"

var bundleSchemaLoader = gojsonschema.NewGoLoader(requirements.Schema())

// GenerateInput carries the design inputs for one generation run.
type GenerateInput struct {
	FigmaURL     string
	Brief        string
	Rules        string
	Model        string
	Detail       string
	ImageDataURL string
}

// GenerateResult is the relayed outcome of a generation run.
type GenerateResult struct {
	// Content is the upstream message content, passed through unmodified
	// except for the empty-content placeholder.
	Content string
	Model   string
	Usage   ai.TokenUsage
}

type GenerateService struct {
	provider     ai.Provider
	builder      *prompt.Builder
	defaultModel string
}

func NewGenerateService(provider ai.Provider, builder *prompt.Builder, defaultModel string) *GenerateService {
	if builder == nil {
		builder = prompt.NewBuilder()
	}
	return &GenerateService{provider: provider, builder: builder, defaultModel: defaultModel}
}

// PromptBuilder returns the prompt builder used by this service.
func (s *GenerateService) PromptBuilder() *prompt.Builder {
	return s.builder
}

// Generate relays one design analysis request to the completion service and
// returns whatever it answered. The content is never rewritten on the way
// through; structural problems are reported out of band.
func (s *GenerateService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	model := in.Model
	if model == "" {
		model = s.defaultModel
	}

	messages := s.builder.Messages(prompt.Input{
		FigmaURL:     in.FigmaURL,
		Brief:        in.Brief,
		Rules:        in.Rules,
		Detail:       in.Detail,
		ImageDataURL: in.ImageDataURL,
	})

	start := time.Now()
	resp, err := s.provider.CreateChat(ctx, ai.ChatRequest{
		Model:          model,
		Messages:       messages,
		ResponseFormat: requirements.ResponseFormat(),
	})
	if err != nil {
		telemetry.RecordUpstreamRequest(ctx, model, "error", time.Since(start))
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	telemetry.RecordUpstreamRequest(ctx, model, "success", time.Since(start))
	telemetry.RecordTokens(ctx, resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	content := resp.Content
	if content == "" {
		content = EmptyBundle
	}

	s.inspect(content)

	return &GenerateResult{Content: content, Model: resp.Model, Usage: resp.Usage}, nil
}

// inspect runs an advisory schema check over the relayed content. Findings
// are logged only; the payload itself is the caller's to interpret.
func (s *GenerateService) inspect(content string) {
	cleanJSON := extractJSONPayload(content)
	if os.Getenv("REQBOT_AI_DEBUG") != "" {
		fmt.Fprintf(os.Stderr, "AI raw response: %s\n", content)
		fmt.Fprintf(os.Stderr, "AI extracted JSON: %s\n", cleanJSON)
	}
	if cleanJSON == "" || cleanJSON == EmptyBundle {
		return
	}

	documentLoader := gojsonschema.NewStringLoader(cleanJSON)
	result, err := gojsonschema.Validate(bundleSchemaLoader, documentLoader)
	if err != nil {
		log.Printf("bundle schema check skipped: %v", err)
		return
	}
	if result.Valid() {
		if os.Getenv("REQBOT_AI_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, "AI JSON schema validation passed\n")
		}
		return
	}

	log.Printf("relayed bundle does not conform to the schema (%d issues)", len(result.Errors()))
	if os.Getenv("REQBOT_AI_DEBUG") != "" {
		for _, desc := range result.Errors() {
			fmt.Fprintf(os.Stderr, "AI JSON schema issue: %s\n", desc)
		}
	}
}

// extractJSONPayload strips markdown fences and surrounding prose from a
// model response, leaving the first JSON array or object it contains.
func extractJSONPayload(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return clean
	}

	startArray := strings.Index(clean, "[")
	startObject := strings.Index(clean, "{")
	start := -1
	if startArray == -1 {
		start = startObject
	} else if startObject == -1 || startArray < startObject {
		start = startArray
	} else {
		start = startObject
	}
	if start == -1 {
		return clean
	}

	endArray := strings.LastIndex(clean, "]")
	endObject := strings.LastIndex(clean, "}")
	end := -1
	if endArray == -1 {
		end = endObject
	} else if endObject == -1 || endArray > endObject {
		end = endArray
	} else {
		end = endObject
	}
	if end == -1 || end <= start {
		return clean
	}

	return strings.TrimSpace(clean[start : end+1])
}
