package requirements

// SchemaName identifies the structured-output contract sent to the
// completion service.
const SchemaName = "requirements_bundle"

// ResponseFormat wraps Schema in the chat-completions response_format
// envelope.
func ResponseFormat() map[string]interface{} {
	return map[string]interface{}{
		"type": "json_schema",
		"json_schema": map[string]interface{}{
			"name":   SchemaName,
			"schema": Schema(),
		},
	}
}

// Schema returns the JSON Schema the model output must conform to. Every
// object is closed (additionalProperties: false) so the model cannot invent
// fields; optional fields appear in properties but not in required.
func Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"userStories":        userStoriesSchema(),
			"declarativeStories": declarativeStoriesSchema(),
			"imperativeTests":    imperativeTestsSchema(),
			"uiDataModel":        uiDataModelSchema(),
			"validationReport":   validationReportSchema(),
		},
		"required": []string{
			"userStories",
			"declarativeStories",
			"imperativeTests",
			"uiDataModel",
			"validationReport",
		},
		"additionalProperties": false,
	}
}

func userStoriesSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":                  map[string]interface{}{"type": "string"},
				"as_a":                map[string]interface{}{"type": "string"},
				"i_want":              map[string]interface{}{"type": "string"},
				"so_that":             map[string]interface{}{"type": "string"},
				"acceptance_criteria": stringArraySchema(),
				"trace": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"ui_nodes": stringArraySchema(),
						"entities": stringArraySchema(),
					},
					"required":             []string{"ui_nodes", "entities"},
					"additionalProperties": false,
				},
			},
			"required":             []string{"id", "as_a", "i_want", "so_that", "acceptance_criteria"},
			"additionalProperties": false,
		},
	}
}

func declarativeStoriesSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{"type": "string"},
				"scenarios": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"given":    map[string]interface{}{"type": "string"},
							"when":     map[string]interface{}{"type": "string"},
							"then":     map[string]interface{}{"type": "string"},
							"examples": map[string]interface{}{"type": "string"},
						},
						"required":             []string{"given", "when", "then"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"title", "scenarios"},
			"additionalProperties": false,
		},
	}
}

func imperativeTestsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":    map[string]interface{}{"type": "string"},
				"gherkin": map[string]interface{}{"type": "string"},
				"tags":    stringArraySchema(),
				"selectors": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": map[string]interface{}{"type": "string"},
				},
			},
			"required":             []string{"name", "gherkin", "tags"},
			"additionalProperties": false,
		},
	}
}

func uiDataModelSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"entities": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name": map[string]interface{}{"type": "string"},
						"fields": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"name":        map[string]interface{}{"type": "string"},
									"type":        map[string]interface{}{"type": "string"},
									"required":    map[string]interface{}{"type": "boolean"},
									"constraints": map[string]interface{}{"type": "string"},
									"enum":        stringArraySchema(),
								},
								"required":             []string{"name", "type"},
								"additionalProperties": false,
							},
						},
						"relations": stringArraySchema(),
					},
					"required":             []string{"name", "fields"},
					"additionalProperties": false,
				},
			},
			"jsonSchemas": map[string]interface{}{"type": "object"},
			"sqlDDL":      map[string]interface{}{"type": "string"},
		},
		"required":             []string{"entities"},
		"additionalProperties": false,
	}
}

func validationReportSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"coverage": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"uiComponentsCoveredPct": map[string]interface{}{"type": "number"},
					"fieldsWithTestsPct":     map[string]interface{}{"type": "number"},
				},
				"required":             []string{"uiComponentsCoveredPct", "fieldsWithTestsPct"},
				"additionalProperties": false,
			},
			"conflicts":   stringArraySchema(),
			"ambiguities": stringArraySchema(),
			"missing":     stringArraySchema(),
			"notes":       stringArraySchema(),
		},
		"additionalProperties": false,
	}
}

func stringArraySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string"},
	}
}
