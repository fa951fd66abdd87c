package llm

import (
	"context"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter counts prompt tokens with the cl100k encoding. Other
// vendors tokenize differently, so counts are an approximation.
type TokenCounter struct {
	codec tokenizer.Codec
}

// NewTokenCounter returns a counter. When the codec cannot be loaded the
// counter falls back to a character estimate.
func NewTokenCounter() *TokenCounter {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{codec: codec}
}

// Count returns the number of tokens in text.
func (tc *TokenCounter) Count(text string) int {
	if tc.codec == nil {
		return len([]rune(text)) / 2
	}
	n, err := tc.codec.Count(text)
	if err != nil {
		return len([]rune(text)) / 2
	}
	return n
}

// Truncate shortens text to roughly limit tokens. The cut is proportional
// in runes with a safety margin, so multi-byte text stays valid UTF-8.
func (tc *TokenCounter) Truncate(text string, limit int) string {
	current := tc.Count(text)
	if current <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}

	runes := []rune(text)
	keep := int(float64(len(runes)) * float64(limit) / float64(current) * 0.9)
	if keep >= len(runes) {
		return text
	}
	return string(runes[:keep]) + "..."
}

// BudgetProvider trims oversized prompts before they reach the provider.
// Long candidate answers are the usual culprit.
type BudgetProvider struct {
	inner    Provider
	counter  *TokenCounter
	maxInput int
}

// WithTokenBudget wraps p so that the system prompt plus messages stay
// within maxInput tokens. The longest message absorbs the cut.
func WithTokenBudget(p Provider, maxInput int) Provider {
	return &BudgetProvider{inner: p, counter: NewTokenCounter(), maxInput: maxInput}
}

func (b *BudgetProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if b.maxInput <= 0 || len(req.Messages) == 0 {
		return b.inner.Generate(ctx, req)
	}

	total := b.counter.Count(req.System)
	longest, longestTokens := 0, -1
	for i, m := range req.Messages {
		n := b.counter.Count(m.Content)
		total += n
		if n > longestTokens {
			longest, longestTokens = i, n
		}
	}
	if total <= b.maxInput {
		return b.inner.Generate(ctx, req)
	}

	allowed := b.maxInput - (total - longestTokens)
	if allowed < 1 {
		allowed = 1
	}
	msgs := make([]Message, len(req.Messages))
	copy(msgs, req.Messages)
	msgs[longest].Content = b.counter.Truncate(msgs[longest].Content, allowed)
	req.Messages = msgs

	return b.inner.Generate(ctx, req)
}

func (b *BudgetProvider) ModelID() string {
	return b.inner.ModelID()
}
