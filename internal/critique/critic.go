package critique

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/metrics"
)

// Config holds configuration for the model tier.
type Config struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		MaxTokens:   1500,
		Temperature: 0.3,
	}
}

// Critic reviews self-introductions.
type Critic struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewCritic creates a Critic. With a nil provider only the keyword
// approximation is used.
func NewCritic(provider llm.Provider, cfg Config, log *zap.Logger) *Critic {
	return &Critic{provider: provider, cfg: cfg, log: logger.OrNop(log)}
}

// Analyze reviews intro. Model failures fall back to KeywordCritique.
func (c *Critic) Analyze(ctx context.Context, intro string) Critique {
	var out Critique
	if c.provider != nil {
		var err error
		out, err = c.modelCritique(ctx, intro)
		if err != nil {
			c.log.Warn("model critique failed, using keyword analysis", zap.Error(err))
			out = KeywordCritique(intro)
		}
	} else {
		out = KeywordCritique(intro)
	}

	metrics.IntroCritiques.WithLabelValues(string(out.Method)).Inc()
	return out
}

type critiqueOutput struct {
	Criteria []struct {
		Key     string `json:"key"`
		Present bool   `json:"present"`
		Detail  string `json:"detail"`
		Score   int    `json:"score"`
	} `json:"criteria"`
	OverallScore float64  `json:"overall_score"`
	Strengths    []string `json:"strengths"`
	Suggestions  []string `json:"suggestions"`
}

func (c *Critic) modelCritique(ctx context.Context, intro string) (Critique, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeIntroCritique)
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      critiqueSystemPrompt,
		Messages:    llm.UserMessage("Self-introduction:\n" + intro),
		Schema:      CritiqueSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return Critique{}, fmt.Errorf("model critique: %w", err)
	}

	var raw critiqueOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Critique{}, fmt.Errorf("parse critique: %w", err)
	}

	byKey := make(map[CriterionKey]Criterion)
	for _, rc := range raw.Criteria {
		key := CriterionKey(rc.Key)
		item, ok := rubricByKey(key)
		if !ok {
			continue
		}
		byKey[key] = Criterion{
			Key:     key,
			Name:    item.Name,
			Present: rc.Present,
			Detail:  rc.Detail,
			Score:   max(0, min(10, rc.Score)),
		}
	}
	if len(byKey) == 0 {
		return Critique{}, errors.New("critique covers no known criteria")
	}

	out := Critique{
		OverallScore: math.Max(0, math.Min(10, raw.OverallScore)),
		Strengths:    raw.Strengths,
		Suggestions:  raw.Suggestions,
		Method:       MethodSemanticModel,
	}
	for _, item := range rubric {
		cr, ok := byKey[item.Key]
		if !ok {
			cr = Criterion{Key: item.Key, Name: item.Name, Detail: "缺少相關內容"}
		}
		out.Criteria = append(out.Criteria, cr)
	}
	return out, nil
}

var critiqueSystemPrompt = `You are an experienced interview coach reviewing a candidate's spoken self-introduction for a software engineering role.

Evaluate it against six criteria, in order:
` + rubricPromptLines() + `
Instructions:
- For each criterion report whether it is present, a one-sentence detail, and a 0-10 score.
- overall_score is 0-10 and reflects structure, specificity and delivery.
- List concrete strengths and actionable suggestions.
- Write detail, strengths and suggestions in the candidate's language (Traditional Chinese when the introduction is in Chinese).`

func rubricPromptLines() string {
	var b strings.Builder
	for i, item := range rubric {
		fmt.Fprintf(&b, "%d. %s (%s), e.g. 「%s」\n", i+1, item.Key, item.Name, item.Example)
	}
	return b.String()
}
