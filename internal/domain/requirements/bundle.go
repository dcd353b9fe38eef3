// Package requirements defines the generated requirements bundle and the
// JSON Schema contract the completion service is asked to satisfy.
package requirements

import "encoding/json"

// Bundle is the envelope the model returns: five artifacts derived from a
// design reference and a brief.
type Bundle struct {
	UserStories        []UserStory        `json:"userStories"`
	DeclarativeStories []DeclarativeStory `json:"declarativeStories"`
	ImperativeTests    []ImperativeTest   `json:"imperativeTests"`
	UIDataModel        UIDataModel        `json:"uiDataModel"`
	ValidationReport   ValidationReport   `json:"validationReport"`
}

// UserStory is a single "as a / I want / so that" story with acceptance
// criteria and optional traceability back to UI nodes and data entities.
type UserStory struct {
	ID                 string      `json:"id"`
	AsA                string      `json:"as_a"`
	IWant              string      `json:"i_want"`
	SoThat             string      `json:"so_that"`
	AcceptanceCriteria []string    `json:"acceptance_criteria"`
	Trace              *StoryTrace `json:"trace,omitempty"`
}

// StoryTrace links a story to the design nodes and entities it covers.
type StoryTrace struct {
	UINodes  []string `json:"ui_nodes"`
	Entities []string `json:"entities"`
}

// DeclarativeStory is a BDD feature narrative.
type DeclarativeStory struct {
	Title     string     `json:"title"`
	Scenarios []Scenario `json:"scenarios"`
}

// Scenario is one given/when/then block, optionally with an examples table.
type Scenario struct {
	Given    string `json:"given"`
	When     string `json:"when"`
	Then     string `json:"then"`
	Examples string `json:"examples,omitempty"`
}

// ImperativeTest is an executable test case with a Gherkin body.
type ImperativeTest struct {
	Name      string            `json:"name"`
	Gherkin   string            `json:"gherkin"`
	Tags      []string          `json:"tags"`
	Selectors map[string]string `json:"selectors,omitempty"`
}

// UIDataModel describes the entities implied by the design.
type UIDataModel struct {
	Entities    []Entity               `json:"entities"`
	JSONSchemas map[string]interface{} `json:"jsonSchemas,omitempty"`
	SQLDDL      string                 `json:"sqlDDL,omitempty"`
}

// Entity is a data entity with typed fields.
type Entity struct {
	Name      string   `json:"name"`
	Fields    []Field  `json:"fields"`
	Relations []string `json:"relations,omitempty"`
}

// Field is one attribute of an entity.
type Field struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required,omitempty"`
	Constraints string   `json:"constraints,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Coverage reports how much of the design the generated artifacts cover.
type Coverage struct {
	UIComponentsCoveredPct float64 `json:"uiComponentsCoveredPct"`
	FieldsWithTestsPct     float64 `json:"fieldsWithTestsPct"`
}

// ValidationReport lists the model's own findings about the inputs.
type ValidationReport struct {
	Coverage    *Coverage `json:"coverage,omitempty"`
	Conflicts   []string  `json:"conflicts,omitempty"`
	Ambiguities []string  `json:"ambiguities,omitempty"`
	Missing     []string  `json:"missing,omitempty"`
	Notes       []string  `json:"notes,omitempty"`
}

// ParseBundle decodes a generated bundle from JSON.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
