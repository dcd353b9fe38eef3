package requirements

import (
	"encoding/json"
	"testing"

	"github.com/xeipuuv/gojsonschema"
)

func TestSchemaCompiles(t *testing.T) {
	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(Schema())); err != nil {
		t.Fatalf("schema does not compile: %v", err)
	}
}

func TestResponseFormatEnvelope(t *testing.T) {
	rf := ResponseFormat()
	if rf["type"] != "json_schema" {
		t.Fatalf("expected type json_schema, got %v", rf["type"])
	}
	js, ok := rf["json_schema"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected json_schema envelope, got %T", rf["json_schema"])
	}
	if js["name"] != SchemaName {
		t.Fatalf("expected schema name %q, got %v", SchemaName, js["name"])
	}
	if _, ok := js["schema"].(map[string]interface{}); !ok {
		t.Fatalf("expected embedded schema object, got %T", js["schema"])
	}
}

func TestSchemaTopLevelContract(t *testing.T) {
	s := Schema()
	props := s["properties"].(map[string]interface{})
	for _, name := range []string{"userStories", "declarativeStories", "imperativeTests", "uiDataModel", "validationReport"} {
		if _, ok := props[name]; !ok {
			t.Errorf("missing top-level property %q", name)
		}
	}
	required := s["required"].([]string)
	if len(required) != 5 {
		t.Fatalf("expected all five artifacts required, got %v", required)
	}
	if s["additionalProperties"] != false {
		t.Fatal("top-level object must be closed")
	}
}

func TestSampleBundleValidates(t *testing.T) {
	bundle := Bundle{
		UserStories: []UserStory{
			{
				ID:                 "US-1",
				AsA:                "shopper",
				IWant:              "to filter products by price",
				SoThat:             "I can find items within my budget",
				AcceptanceCriteria: []string{"filter updates the product grid", "empty results show a hint"},
				Trace: &StoryTrace{
					UINodes:  []string{"frame:ProductGrid", "input:PriceRange"},
					Entities: []string{"Product"},
				},
			},
		},
		DeclarativeStories: []DeclarativeStory{
			{
				Title: "Price filtering",
				Scenarios: []Scenario{
					{Given: "a catalog with priced products", When: "the shopper sets a price range", Then: "only matching products remain"},
				},
			},
		},
		ImperativeTests: []ImperativeTest{
			{
				Name:      "filter_by_price",
				Gherkin:   "Given a catalog\nWhen I set the price range\nThen the grid shows matching products",
				Tags:      []string{"smoke", "catalog"},
				Selectors: map[string]string{"grid": "#product-grid"},
			},
		},
		UIDataModel: UIDataModel{
			Entities: []Entity{
				{
					Name: "Product",
					Fields: []Field{
						{Name: "id", Type: "string", Required: true},
						{Name: "price", Type: "number", Required: true, Constraints: ">= 0"},
					},
				},
			},
			SQLDDL: "CREATE TABLE product (id TEXT PRIMARY KEY, price NUMERIC);",
		},
		ValidationReport: ValidationReport{
			Coverage: &Coverage{UIComponentsCoveredPct: 80, FieldsWithTestsPct: 60},
			Notes:    []string{"price currency not specified in the brief"},
		},
	}

	doc, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal bundle: %v", err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(Schema()), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Valid() {
		for _, desc := range result.Errors() {
			t.Errorf("schema issue: %s", desc)
		}
		t.Fatal("sample bundle does not validate")
	}
}

func TestSchemaRejectsNonConformingDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"missing artifact",
			`{"userStories":[],"declarativeStories":[],"imperativeTests":[],"uiDataModel":{"entities":[]}}`,
		},
		{
			"unknown top-level field",
			`{"userStories":[],"declarativeStories":[],"imperativeTests":[],"uiDataModel":{"entities":[]},"validationReport":{},"summary":"extra"}`,
		},
		{
			"story missing so_that",
			`{"userStories":[{"id":"US-1","as_a":"user","i_want":"something","acceptance_criteria":[]}],"declarativeStories":[],"imperativeTests":[],"uiDataModel":{"entities":[]},"validationReport":{}}`,
		},
		{
			"field missing type",
			`{"userStories":[],"declarativeStories":[],"imperativeTests":[],"uiDataModel":{"entities":[{"name":"Product","fields":[{"name":"id"}]}]},"validationReport":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(Schema()), gojsonschema.NewStringLoader(tt.doc))
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if result.Valid() {
				t.Fatal("expected document to be rejected")
			}
		})
	}
}
