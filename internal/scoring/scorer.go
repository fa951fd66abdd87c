// Package scoring grades interview answers against reference answers. A
// semantic model scores by meaning when one is configured; a deterministic
// character-similarity tier takes over whenever the model is absent, slow
// or returns something unusable.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/metrics"
)

// Config holds configuration for the model tier.
type Config struct {
	// Timeout bounds a single model call. Zero means no extra bound.
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     20 * time.Second,
		MaxTokens:   1000,
		Temperature: 0.3,
	}
}

// Scorer grades answers. The zero provider means deterministic only.
type Scorer struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewScorer creates a Scorer. provider may be nil.
func NewScorer(provider llm.Provider, cfg Config, log *zap.Logger) *Scorer {
	return &Scorer{provider: provider, cfg: cfg, log: logger.OrNop(log)}
}

// Score grades answer against reference. question may be empty. It always
// returns a usable Result.
func (s *Scorer) Score(ctx context.Context, answer, reference, question string) Result {
	var r Result
	if s.provider != nil {
		var err error
		r, err = s.modelScore(ctx, answer, reference, question)
		if err != nil {
			s.log.Warn("model scoring failed, using deterministic scorer",
				zap.Error(err),
				zap.String("answer", logger.Truncate(answer, 80)))
			r = Deterministic(answer, reference)
		}
	} else {
		r = Deterministic(answer, reference)
	}

	metrics.AnswersScored.WithLabelValues(string(r.Method)).Inc()
	metrics.AnswerScore.WithLabelValues(string(r.Method)).Observe(float64(r.Score))
	return r
}

type evaluationOutput struct {
	Score       float64  `json:"score"`
	Grade       string   `json:"grade"`
	Similarity  float64  `json:"similarity"`
	Feedback    string   `json:"feedback"`
	Differences []string `json:"differences"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
}

func (s *Scorer) modelScore(ctx context.Context, answer, reference, question string) (Result, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeAnswerScoring)
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	userMsg, err := buildEvaluationMessage(question, reference, answer)
	if err != nil {
		return Result{}, fmt.Errorf("build evaluation prompt: %w", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      evaluationSystemPrompt,
		Messages:    llm.UserMessage(userMsg),
		Schema:      EvaluationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("model evaluation: %w", err)
	}

	content, ok := llm.ExtractJSONObject(string(resp.Content))
	if !ok {
		return Result{}, fmt.Errorf("no JSON object in evaluation reply")
	}

	var out evaluationOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Result{}, fmt.Errorf("parse evaluation: %w", err)
	}

	// Bound the float first: out-of-range values do not survive int conversion.
	r := Result{
		Score:       int(math.Round(max(0, min(100, out.Score)))),
		Similarity:  out.Similarity,
		Feedback:    out.Feedback,
		Differences: out.Differences,
		Strengths:   out.Strengths,
		Suggestions: out.Suggestions,
		Method:      MethodSemanticModel,
	}
	r.clamp()

	if g, ok := ParseGrade(out.Grade); ok {
		r.Grade = g
	} else {
		r.Grade = GradeFor(r.Score)
	}
	return r, nil
}

const evaluationSystemPrompt = `You are a professional technical interviewer scoring a candidate's answer against a reference answer.

Score with this rubric:
1. Accuracy (40%): does the answer cover the core points of the reference?
2. Clarity (30%): is it clear and easy to follow?
3. Structure (20%): is it logically organized?
4. Completeness (10%): does it fully answer the question?

Instructions:
- Judge meaning, not wording. Paraphrases that say the same thing deserve high similarity.
- Grade bands: Excellent >= 80, Good >= 60, Fair >= 40, otherwise NeedsImprovement.
- Write feedback, differences, strengths and suggestions in the candidate's language (Traditional Chinese when the answer is in Chinese).
- Return only the JSON object.`

var evaluationUserTemplate = template.Must(template.New("evaluation").Parse(`Question: {{if .Question}}{{.Question}}{{else}}(not provided){{end}}

Reference answer: {{if .Reference}}{{.Reference}}{{else}}(not provided){{end}}

Candidate answer: {{.Answer}}`))

func buildEvaluationMessage(question, reference, answer string) (string, error) {
	var buf bytes.Buffer
	err := evaluationUserTemplate.Execute(&buf, struct {
		Question, Reference, Answer string
	}{question, reference, answer})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
