// Package prompt builds the chat messages sent to the completion service.
package prompt

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/ai"
)

// Defaults substituted for absent request fields.
const (
	DefaultFigmaURL = "N/A"
	DefaultBrief    = "N/A"
	DefaultDetail   = "standard"
)

// systemPrompt is the fixed instruction. It names the five artifacts and
// forbids prose so the response stays machine-parseable.
const systemPrompt = `You are RequirementsBot, a senior product analyst. From the supplied design reference, brief and validation rules you produce exactly five artifacts:
1. userStories: user stories with id, as_a, i_want, so_that, acceptance_criteria, and trace links to UI nodes and data entities where identifiable.
2. declarativeStories: BDD feature narratives with given/when/then scenarios.
3. imperativeTests: executable test cases with Gherkin bodies, tags, and UI selectors where identifiable.
4. uiDataModel: data entities with typed fields, relations, and optional JSON Schemas and SQL DDL.
5. validationReport: coverage percentages, conflicts, ambiguities, missing information, and notes.
Return machine-parseable output only, no prose. Respond with a single JSON object conforming to the provided schema.`

// Input carries the caller-supplied generation inputs before defaulting.
type Input struct {
	FigmaURL     string
	Brief        string
	Rules        string
	Detail       string
	ImageDataURL string
}

// Builder assembles the outbound messages. The system prompt can be
// overridden at runtime (serve --prompt-file); reads and swaps are
// synchronized because the HTTP handler calls Messages concurrently.
type Builder struct {
	mu       sync.RWMutex
	override string
}

func NewBuilder() *Builder {
	return &Builder{}
}

// SetSystemPrompt replaces the system instruction. An empty value restores
// the built-in prompt.
func (b *Builder) SetSystemPrompt(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.override = strings.TrimSpace(s)
}

// SystemPrompt returns the active system instruction.
func (b *Builder) SystemPrompt() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.override != "" {
		return b.override
	}
	return systemPrompt
}

// Messages builds the two-message prompt. Absent fields are substituted
// with their defaults; an image reference becomes an extra content part on
// the user message.
func (b *Builder) Messages(in Input) []ai.Message {
	in = normalize(in)

	rules := in.Rules
	if rules == "" {
		rules = "None provided."
	}

	user := fmt.Sprintf(`Analyze the following product design and generate the five artifacts.

Figma URL: %s
Detail level: %s

Brief:
%s

Validation rules:
%s`, in.FigmaURL, in.Detail, in.Brief, rules)

	return []ai.Message{
		{Role: "system", Text: b.SystemPrompt()},
		{Role: "user", Text: user, ImageURL: in.ImageDataURL},
	}
}

// normalize fills absent fields with their documented defaults.
func normalize(in Input) Input {
	if strings.TrimSpace(in.FigmaURL) == "" {
		in.FigmaURL = DefaultFigmaURL
	}
	if strings.TrimSpace(in.Brief) == "" {
		in.Brief = DefaultBrief
	}
	if strings.TrimSpace(in.Detail) == "" {
		in.Detail = DefaultDetail
	}
	return in
}
