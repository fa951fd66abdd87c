package llm

// modelTable maps friendly model names to a vendor's model IDs. Names not
// in the table pass through, so full IDs always work.
type modelTable map[string]string

var (
	anthropicModels = modelTable{
		"claude-sonnet": "claude-sonnet-4-5-20250929",
		"claude-haiku":  "claude-haiku-4-5-20251001",
		"claude-opus":   "claude-opus-4-1-20250805",
	}
	openaiModels = modelTable{
		"gpt-4o":      "gpt-4o",
		"gpt-4o-mini": "gpt-4o-mini",
		"gpt-mini":    "gpt-4.1-mini",
	}
	geminiModels = modelTable{
		"gemini-flash": "gemini-2.5-flash",
		"gemini-lite":  "gemini-2.5-flash-lite",
		"gemini-pro":   "gemini-2.5-pro",
	}
)

func (t modelTable) resolve(name string) string {
	if id, ok := t[name]; ok {
		return id
	}
	return name
}

// pick returns the model serving req: its per-call override when set,
// otherwise the adapter default.
func (t modelTable) pick(req Request, fallback string) string {
	if req.Model == "" {
		return fallback
	}
	return t.resolve(req.Model)
}
