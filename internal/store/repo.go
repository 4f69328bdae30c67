package store

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Session event actions.
const (
	ActionStart    = "start"
	ActionAbandon  = "abandon"
	ActionComplete = "complete"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int    // max results (0 = unlimited)
	After  int64  // sequence > After
	BankID string // only events for this bank ("" = all)
}

// SessionEventData captures one quiz session lifecycle event.
type SessionEventData struct {
	SessionID     string
	Action        string
	BankID        string
	Grade         string
	QuestionIndex int // where the learner was when the event fired
	Total         int // questions in the bank
	Score         int // only meaningful for ActionComplete
}

// SessionEvent is a stored SessionEventData with its ordering metadata.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// BankStats summarises completed attempts for one bank.
type BankStats struct {
	BankID    string
	Started   int
	Completed int
	Abandoned int
	AvgScore  float64
	BestScore int
	Total     int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates recorded LLM requests.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a quiz session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// SessionEvents returns session events in sequence order.
	SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// BankStats summarises session events per bank, ordered by bank id.
	BankStats(ctx context.Context) ([]BankStats, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMRequests returns recorded LLM requests, newest first.
	LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// LLMUsage totals the recorded LLM requests.
	LLMUsage(ctx context.Context) (LLMUsage, error)
}

// KVRepo stores string values under string keys.
type KVRepo interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put sets key to value.
	Put(ctx context.Context, key, value string) error

	// Update reads key, passes its current value ("" when absent) to fn and
	// stores the result, all inside one transaction. If fn returns an
	// error nothing is written.
	Update(ctx context.Context, key string, fn func(current string) (string, error)) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// builder returns the SQLite statement builder.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
