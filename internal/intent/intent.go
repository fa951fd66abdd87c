// Package intent classifies free-text messages from open dialogue into the
// closed set of interview actions.
package intent

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/metrics"
)

// Intent is one of the actions a free-text message can map to.
type Intent string

const (
	GetQuestion       Intent = "get_question"
	AnalyzeAnswer     Intent = "analyze_answer"
	GetStandardAnswer Intent = "get_standard_answer"
	StartInterview    Intent = "start_interview"
	Introduction      Intent = "introduction"
	GeneralChat       Intent = "general_chat"
)

// All lists every intent.
var All = []Intent{GetQuestion, AnalyzeAnswer, GetStandardAnswer, StartInterview, Introduction, GeneralChat}

// Parse validates a label.
func Parse(s string) (Intent, error) {
	label := Intent(strings.ToLower(strings.TrimSpace(s)))
	for _, i := range All {
		if i == label {
			return i, nil
		}
	}
	return "", fmt.Errorf("unknown intent %q", s)
}

// Decision is the routing outcome and the layer that produced it.
type Decision struct {
	Intent Intent
	Layer  string
}

// Classifier is one routing layer. It reports false when it has no opinion.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, message string) (Intent, bool)
}

// Router runs classifiers in order; the first match wins and the heuristic
// layer always answers.
type Router struct {
	classifiers []Classifier
	log         *zap.Logger
}

// NewRouter creates a Router. model may be nil to skip the model layer.
func NewRouter(model *ModelClassifier, log *zap.Logger) *Router {
	cs := []Classifier{KeywordClassifier{}}
	if model != nil {
		cs = append(cs, model)
	}
	cs = append(cs, HeuristicClassifier{})
	return &Router{classifiers: cs, log: logger.OrNop(log)}
}

// Route classifies message.
func (r *Router) Route(ctx context.Context, message string) Decision {
	d := Decision{Intent: GeneralChat, Layer: "default"}
	for _, c := range r.classifiers {
		if in, ok := c.Classify(ctx, message); ok {
			d = Decision{Intent: in, Layer: c.Name()}
			break
		}
	}

	r.log.Debug("routed message",
		zap.String("intent", string(d.Intent)),
		zap.String("layer", d.Layer),
		zap.String("message", logger.Truncate(message, 60)))
	metrics.IntentsRouted.WithLabelValues(string(d.Intent), d.Layer).Inc()
	return d
}

// HeuristicClassifier guesses from first-person phrasing and length.
type HeuristicClassifier struct{}

func (HeuristicClassifier) Name() string { return "heuristic" }

// minAnswerRunes is the length above which first-person text reads as an answer.
const minAnswerRunes = 20

var firstPersonWords = map[string]bool{"i": true, "my": true, "i'm": true, "i've": true, "me": true}

func (HeuristicClassifier) Classify(_ context.Context, message string) (Intent, bool) {
	text := strings.TrimSpace(message)
	if len([]rune(text)) > minAnswerRunes && hasFirstPerson(text) {
		return AnalyzeAnswer, true
	}
	return GeneralChat, true
}

func hasFirstPerson(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "我") {
		return true
	}
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '’'
	})
	for _, w := range words {
		if firstPersonWords[strings.ReplaceAll(w, "’", "'")] {
			return true
		}
	}
	return false
}
