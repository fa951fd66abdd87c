package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
// Zero values disable the corresponding filter.
type QueryOpts struct {
	Limit     int
	UserID    string
	SessionID string
	Purpose   string
	After     int64 // sequence > After
}

// ExchangeData is one user message and the interviewer's reply.
type ExchangeData struct {
	UserID      string
	SessionID   string
	UserMessage string
	AIResponse  string
	State       string
	Score       *int // set when the message was scored as an answer
	Timestamp   time.Time
}

// ExchangeRecord is a persisted exchange.
type ExchangeRecord struct {
	ID       int
	Sequence int64
	ExchangeData
}

// ExchangeRepo is the durable append-only interview log.
type ExchangeRepo interface {
	AppendExchange(ctx context.Context, data ExchangeData) error

	// QueryExchanges returns matching exchanges in chronological order.
	// With a Limit, the most recent Limit exchanges are returned.
	QueryExchanges(ctx context.Context, opts QueryOpts) ([]ExchangeRecord, error)
}

// LLMRequestEventData captures the data for a single model call.
type LLMRequestEventData struct {
	SessionID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a persisted model call.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates calls. Only the grouped-by keys are set.
type LLMUsageStats struct {
	SessionID    string
	Purpose      string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64

	// LastSequence is the newest event in the group.
	LastSequence int64
}

// EventRepo provides access to model call events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns matching events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageBySession groups by interview session, purpose and model.
	// An empty sessionID covers every session.
	LLMUsageBySession(ctx context.Context, sessionID string) ([]LLMUsageStats, error)
}
