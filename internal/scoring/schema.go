package scoring

import "github.com/abhisek/interviewer/internal/llm"

// EvaluationSchema is the JSON contract between the model tier and the scorer.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Rubric-based evaluation of an interview answer against a reference answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"description": "Weighted rubric score from 0 to 100",
			},
			"grade": map[string]any{
				"type":        "string",
				"enum":        []any{"Excellent", "Good", "Fair", "NeedsImprovement", "優秀", "良好", "一般", "需要改進"},
				"description": "Excellent/優秀 (>=80), Good/良好 (>=60), Fair/一般 (>=40), NeedsImprovement/需要改進 otherwise",
			},
			"similarity": map[string]any{
				"type":        "number",
				"description": "Semantic similarity between the answer and the reference, 0.0 to 1.0",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One or two sentences of overall feedback addressed to the candidate",
			},
			"differences": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Key points where the answer differs from the reference",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "What the answer did well",
			},
			"suggestions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Concrete improvements for the candidate",
			},
		},
		"required":             []any{"score", "grade", "similarity", "feedback", "differences", "strengths", "suggestions"},
		"additionalProperties": false,
	},
}
