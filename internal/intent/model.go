package intent

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/logger"
)

// IntentSchema constrains the model to exactly one label.
var IntentSchema = &llm.Schema{
	Name:        "intent-classification",
	Description: "Classification of a candidate message into one interview action",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent": map[string]any{
				"type": "string",
				"enum": []any{
					string(GetQuestion), string(AnalyzeAnswer), string(GetStandardAnswer),
					string(StartInterview), string(Introduction), string(GeneralChat),
				},
			},
		},
		"required":             []any{"intent"},
		"additionalProperties": false,
	},
}

// ModelClassifier asks the semantic model for a label.
type ModelClassifier struct {
	provider llm.Provider
	timeout  time.Duration
	log      *zap.Logger
}

// NewModelClassifier returns nil when provider is nil.
func NewModelClassifier(provider llm.Provider, timeout time.Duration, log *zap.Logger) *ModelClassifier {
	if provider == nil {
		return nil
	}
	return &ModelClassifier{provider: provider, timeout: timeout, log: logger.OrNop(log)}
}

func (m *ModelClassifier) Name() string { return "model" }

func (m *ModelClassifier) Classify(ctx context.Context, message string) (Intent, bool) {
	ctx = llm.WithPurpose(ctx, llm.PurposeIntent)
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	resp, err := m.provider.Generate(ctx, llm.Request{
		System:      intentSystemPrompt,
		Messages:    llm.UserMessage(message),
		Schema:      IntentSchema,
		MaxTokens:   50,
		Temperature: 0,
	})
	if err != nil {
		m.log.Warn("intent classification failed", zap.Error(err))
		return "", false
	}

	var out struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", false
	}
	in, err := Parse(out.Intent)
	if err != nil {
		m.log.Debug("model returned unknown intent", zap.String("label", out.Intent))
		return "", false
	}
	return in, true
}

const intentSystemPrompt = `You route messages in a mock job interview. Classify the candidate's message as exactly one of:
- get_question: wants a new interview question
- analyze_answer: is answering a question and wants it evaluated
- get_standard_answer: wants the reference answer to the current question
- start_interview: wants to begin the interview
- introduction: is introducing themselves or wants to practice a self-introduction
- general_chat: anything else`
