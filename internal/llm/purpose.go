package llm

import (
	"context"
	"time"
)

// Purpose names the interview component a model call serves. Calls are
// budgeted, logged and priced per purpose.
type Purpose string

const (
	PurposeAnswerScoring Purpose = "answer-scoring"
	PurposeIntroCritique Purpose = "intro-critique"
	PurposeIntent        Purpose = "intent"
	PurposeUnknown       Purpose = "unknown"
)

// Purposes lists the purposes the interview issues, in display order.
var Purposes = []Purpose{PurposeAnswerScoring, PurposeIntroCritique, PurposeIntent}

// Policy is the call budget for one purpose. Zero fields fall back to the
// provider-wide setting.
type Policy struct {
	// Model overrides the configured model, e.g. a cheaper model for intent.
	Model string

	// Timeout bounds one logical call, retries included.
	Timeout time.Duration

	// MaxAttempts caps attempts including the first.
	MaxAttempts int
}

// Policies maps each purpose to its budget.
type Policies map[Purpose]Policy

// DefaultPolicies returns the stock budgets. Intent classification sits on
// the reply path of every open-dialogue message, so it gets a short
// deadline and a single attempt; the rule layers answer when it gives up.
func DefaultPolicies() Policies {
	return Policies{
		PurposeAnswerScoring: {Timeout: 25 * time.Second, MaxAttempts: 2},
		PurposeIntroCritique: {Timeout: 30 * time.Second, MaxAttempts: 2},
		PurposeIntent:        {Timeout: 8 * time.Second, MaxAttempts: 1},
	}
}

// For returns the policy for p, or the zero Policy.
func (ps Policies) For(p Purpose) Policy {
	return ps[p]
}

// Merge overlays the non-zero fields of other onto a copy of ps.
func (ps Policies) Merge(other Policies) Policies {
	out := make(Policies, len(ps)+len(other))
	for k, v := range ps {
		out[k] = v
	}
	for k, o := range other {
		cur := out[k]
		if o.Model != "" {
			cur.Model = o.Model
		}
		if o.Timeout > 0 {
			cur.Timeout = o.Timeout
		}
		if o.MaxAttempts > 0 {
			cur.MaxAttempts = o.MaxAttempts
		}
		out[k] = cur
	}
	return out
}

// PolicyProvider applies the purpose policy found on the context: it picks
// the model, sets the deadline and hands the attempt budget to the retry
// layer below it.
type PolicyProvider struct {
	inner    Provider
	policies Policies
}

// WithPolicies wraps p with per-purpose budgets.
func WithPolicies(p Provider, policies Policies) Provider {
	return &PolicyProvider{inner: p, policies: policies}
}

func (pp *PolicyProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	pol, ok := pp.policies[PurposeFrom(ctx)]
	if !ok {
		return pp.inner.Generate(ctx, req)
	}
	if req.Model == "" {
		req.Model = pol.Model
	}
	if pol.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pol.Timeout)
		defer cancel()
	}
	return pp.inner.Generate(withPolicy(ctx, pol), req)
}

func (pp *PolicyProvider) ModelID() string {
	return pp.inner.ModelID()
}
