package explain

import "github.com/abhisek/futable/internal/llm"

// ExplanationSchema constrains the model to the four explanation fields.
var ExplanationSchema = &llm.Schema{
	Name:        "futures-explanation",
	Description: "A beginner-friendly explanation of one futures trading concept",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"definition": map[string]any{
				"type":        "string",
				"description": "A clear, formal definition (at most 2 sentences)",
				"minLength":   1,
			},
			"analogy": map[string]any{
				"type":        "string",
				"description": "An everyday metaphor such as buying a house or booking a hotel",
				"minLength":   1,
			},
			"keyPoint": map[string]any{
				"type":        "string",
				"description": "The one crucial thing to remember",
				"minLength":   1,
			},
			"example": map[string]any{
				"type":        "string",
				"description": "A very short numerical or scenario example",
				"minLength":   1,
			},
		},
		"required":             []any{"definition", "analogy", "keyPoint", "example"},
		"additionalProperties": false,
	},
}
