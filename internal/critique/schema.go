package critique

import "github.com/abhisek/interviewer/internal/llm"

// CritiqueSchema defines the model reply for a self-introduction review.
var CritiqueSchema = &llm.Schema{
	Name:        "intro-critique",
	Description: "Review of a self-introduction against a six-part structure",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"criteria": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"key": map[string]any{
							"type": "string",
							"enum": []any{"opening", "background", "skills", "achievements", "role_fit", "closing"},
						},
						"present": map[string]any{"type": "boolean"},
						"detail":  map[string]any{"type": "string"},
						"score": map[string]any{
							"type":    "integer",
							"minimum": 0,
							"maximum": 10,
						},
					},
					"required":             []any{"key", "present", "detail", "score"},
					"additionalProperties": false,
				},
			},
			"overall_score": map[string]any{
				"type":        "number",
				"description": "Overall quality from 0 to 10",
			},
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"suggestions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"criteria", "overall_score", "strengths", "suggestions"},
		"additionalProperties": false,
	},
}
