package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/metrics"
)

// RetryProvider retries transient model failures with capped exponential
// backoff. The attempt budget comes from the purpose policy on the context
// and falls back to RetryConfig.MaxAttempts. The caller's deadline always
// wins over a pending wait.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   *zap.Logger
}

// WithRetry wraps p with retries. log may be nil.
func WithRetry(p Provider, cfg RetryConfig, log *zap.Logger) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &RetryProvider{inner: p, cfg: cfg, log: logger.OrNop(log).Named("llm.retry")}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	budget := r.attempts(ctx)
	purpose := string(PurposeFrom(ctx))
	malformedSeen := false

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var malformed *ErrInvalidResponse
		isMalformed := errors.As(err, &malformed)
		if attempt >= budget || !retryable(err) || (isMalformed && malformedSeen) {
			return nil, err
		}
		malformedSeen = malformedSeen || isMalformed

		outcome := Outcome(err)
		metrics.LLMRetries.WithLabelValues(purpose, outcome).Inc()
		wait := r.delay(attempt, err)
		r.log.Debug("retrying model call",
			zap.String("purpose", purpose),
			zap.Int("attempt", attempt),
			zap.Int("budget", budget),
			zap.Duration("wait", wait),
			zap.String("outcome", outcome),
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// attempts is the purpose policy's budget when one is set.
func (r *RetryProvider) attempts(ctx context.Context) int {
	if p, ok := policyFrom(ctx); ok && p.MaxAttempts > 0 {
		return p.MaxAttempts
	}
	return r.cfg.MaxAttempts
}

// retryable reports whether another attempt could succeed. A malformed
// reply is retryable once; the caller enforces the once.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var truncated *ErrMaxTokensExceeded
	return !errors.As(err, &truncated)
}

// delay is the wait before attempt+1: the provider's Retry-After when it
// sent one, else InitialWait*Multiplier^(attempt-1) capped at MaxWait,
// spread by up to 20% either way.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.cfg.InitialWait)
	for i := 1; i < attempt; i++ {
		d *= r.cfg.Multiplier
		if r.cfg.MaxWait > 0 && d >= float64(r.cfg.MaxWait) {
			break
		}
	}
	if r.cfg.MaxWait > 0 && d > float64(r.cfg.MaxWait) {
		d = float64(r.cfg.MaxWait)
	}
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
