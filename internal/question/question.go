// Package question supplies interview questions with their reference
// answers. A Corpus draws random documents from a Backend and maps their
// loosely-named fields onto a Question, degrading to a built-in question
// whenever the backend cannot produce one.
package question

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/metrics"
)

// Question is an issued interview question. It is never mutated after issue.
type Question struct {
	Text           string `json:"question"`
	StandardAnswer string `json:"standard_answer"`
	Source         string `json:"source"`
}

// Source yields the next question. It never fails.
type Source interface {
	Next(ctx context.Context) Question
}

// Document is one raw corpus record.
type Document struct {
	// Collection names where the document came from (index, file section).
	Collection string
	Fields     map[string]any
}

// Backend returns a uniformly random document from the corpus.
type Backend interface {
	RandomDocument(ctx context.Context) (Document, error)
}

// ErrEmptyCorpus is returned by backends that hold no documents.
var ErrEmptyCorpus = errors.New("question corpus is empty")

const (
	DefaultText   = "請介紹一下您自己"
	DefaultAnswer = "我是一位熱愛程式設計的工程師，擅長 Python 和 Web 開發。"
	DefaultSource = "預設問題"
	MissingAnswer = "（請根據您的經驗回答）"
)

// Default is the built-in question used when the corpus is unavailable.
func Default() Question {
	return Question{Text: DefaultText, StandardAnswer: DefaultAnswer, Source: DefaultSource}
}

var (
	questionFields = []string{"問題", "Question", "題目", "instruction", "question"}
	answerFields   = []string{"答案", "Answer", "answer", "output", "standard_answer"}
)

// Import bookkeeping added by corpus loaders; never question content.
var metadataFields = map[string]bool{
	"_id":          true,
	"_source_file": true,
	"_row_number":  true,
	"_import_time": true,
}

// FromDocument maps a raw document onto a Question. It reports false when
// the document has no usable content at all.
func FromDocument(doc Document) (Question, bool) {
	text := firstField(doc.Fields, questionFields)
	if text == "" {
		text = firstContentField(doc.Fields)
	}
	if text == "" {
		return Question{}, false
	}

	answer := firstField(doc.Fields, answerFields)
	if answer == "" {
		answer = MissingAnswer
	}

	return Question{Text: text, StandardAnswer: answer, Source: doc.Collection}, true
}

func firstField(fields map[string]any, names []string) string {
	for _, name := range names {
		if s := stringField(fields, name); s != "" {
			return s
		}
	}
	return ""
}

func stringField(fields map[string]any, name string) string {
	v, ok := fields[name]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// firstContentField renders "key: value" for the first non-metadata field
// in sorted key order.
func firstContentField(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !metadataFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		if v := stringField(fields, k); v != "" {
			return k + ": " + v
		}
	}
	return ""
}

// DefaultLookupTimeout bounds one backend lookup.
const DefaultLookupTimeout = 5 * time.Second

// Corpus is the Source backed by a document store.
type Corpus struct {
	backend Backend
	timeout time.Duration
	log     *zap.Logger
}

// NewCorpus creates a Source over backend. A nil backend always yields the
// built-in question.
func NewCorpus(backend Backend, log *zap.Logger) *Corpus {
	return &Corpus{backend: backend, timeout: DefaultLookupTimeout, log: logger.OrNop(log)}
}

// WithTimeout sets the lookup bound. Zero or less keeps the default.
func (c *Corpus) WithTimeout(d time.Duration) *Corpus {
	if d > 0 {
		c.timeout = d
	}
	return c
}

func (c *Corpus) Next(ctx context.Context) Question {
	if c.backend == nil {
		metrics.QuestionsServed.WithLabelValues("builtin").Inc()
		return Default()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	doc, err := c.backend.RandomDocument(ctx)
	if err != nil {
		c.log.Warn("question backend failed, using built-in question", zap.Error(err))
		metrics.QuestionsServed.WithLabelValues("builtin").Inc()
		return Default()
	}

	q, ok := FromDocument(doc)
	if !ok {
		c.log.Warn("question document has no usable fields", zap.String("collection", doc.Collection))
		metrics.QuestionsServed.WithLabelValues("builtin").Inc()
		return Default()
	}

	metrics.QuestionsServed.WithLabelValues("corpus").Inc()
	return q
}
