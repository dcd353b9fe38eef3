// Package ai implements the completion-service backends.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
)

// DefaultBaseURL is the endpoint used when no gateway override is configured.
const DefaultBaseURL = "https://api.openai.com/v1"

// OpenAIProvider talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIProvider struct {
	Model      string
	APIKey     string
	baseURL    string       // For testing - defaults to the OpenAI API
	httpClient *http.Client // For testing - defaults to http.DefaultClient
}

func NewOpenAIProvider(model, apiKey string) *OpenAIProvider {
	return NewOpenAIProviderWithClient(model, apiKey, "", nil)
}

// NewOpenAIProviderWithClient creates a provider with a custom HTTP client
// and base URL (for testing, or for OpenAI-compatible gateways).
func NewOpenAIProviderWithClient(model, apiKey, baseURL string, client *http.Client) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o"
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenAIProvider{
		Model:      model,
		APIKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
	}
}

func (p *OpenAIProvider) ID() string {
	return "openai:" + p.Model
}

type chatRequest struct {
	Model          string                 `json:"model"`
	Messages       []chatMessage          `json:"messages"`
	ResponseFormat map[string]interface{} `json:"response_format,omitempty"`
}

// chatMessage content is either a plain string or a list of content parts
// when an image rides along.
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imagePayload `json:"image_url,omitempty"`
}

type imagePayload struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func wireMessage(m ai.Message) chatMessage {
	if m.ImageURL == "" {
		return chatMessage{Role: m.Role, Content: m.Text}
	}
	return chatMessage{Role: m.Role, Content: []contentPart{
		{Type: "text", Text: m.Text},
		{Type: "image_url", ImageURL: &imagePayload{URL: m.ImageURL}},
	}}
}

func (p *OpenAIProvider) CreateChat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("API key not provided (set REQBOT_API_KEY or OPENAI_API_KEY)")
	}

	model := req.Model
	if model == "" {
		model = p.Model
	}

	messages := make([]chatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, wireMessage(m))
	}

	body, err := json.Marshal(chatRequest{
		Model:          model,
		Messages:       messages,
		ResponseFormat: req.ResponseFormat,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)

	client := p.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &ai.UpstreamError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(errBody)),
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, err
	}

	// A success without choices relays as empty content; the caller decides
	// on the placeholder, not the transport.
	content := ""
	if len(chatResp.Choices) > 0 {
		content = chatResp.Choices[0].Message.Content
	}

	return &ai.ChatResponse{
		Content: content,
		Model:   model,
		Usage: ai.TokenUsage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
		},
	}, nil
}
