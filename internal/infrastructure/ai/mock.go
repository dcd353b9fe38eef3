package ai

import (
	"context"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
)

// sampleContent is a small schema-conformant bundle so offline runs still
// produce something every downstream surface (review, export) can consume.
const sampleContent = `{"userStories":[{"id":"US-1","as_a":"user","i_want":"to sign in with my email","so_that":"I can reach my account","acceptance_criteria":["a valid email and password signs me in"],"trace":{"ui_nodes":["login-form"],"entities":["User"]}}],"declarativeStories":[{"title":"Sign in","scenarios":[{"given":"a registered user","when":"they submit valid credentials","then":"they land on the dashboard"}]}],"imperativeTests":[{"name":"sign in happy path","gherkin":"Given a registered user\nWhen they submit valid credentials\nThen they land on the dashboard","tags":["smoke"]}],"uiDataModel":{"entities":[{"name":"User","fields":[{"name":"email","type":"string","required":true},{"name":"password","type":"string","required":true}]}]},"validationReport":{"notes":["generated by mock provider"]}}`

// MockProvider returns canned content without network access. Tests use it
// to observe the request the service builds.
type MockProvider struct {
	Content     string
	Err         error
	LastRequest *ai.ChatRequest
}

func (m *MockProvider) ID() string {
	return "mock"
}

func (m *MockProvider) CreateChat(_ context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	m.LastRequest = &req
	if m.Err != nil {
		return nil, m.Err
	}
	content := m.Content
	if content == "" {
		content = sampleContent
	}
	return &ai.ChatResponse{
		Content: content,
		Model:   req.Model,
		Usage:   ai.TokenUsage{InputTokens: 42, OutputTokens: 17},
	}, nil
}
