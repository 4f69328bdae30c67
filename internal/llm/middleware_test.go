package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/quizbook/internal/store"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

var okContent = json.RawMessage(`{"question":"q","answer":"a"}`)

func TestRetry(t *testing.T) {
	down := func() MockResponse { return MockResponse{Err: &UnavailableError{Err: errors.New("down")}} }
	invalid := MockResponse{Content: json.RawMessage(`{"question":"q"}`)}
	ok := MockResponse{Content: okContent}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down(), ok}, false, 2},
		{"all attempts fail", []MockResponse{down(), down(), down(), ok}, true, 3},
		{"invalid retried once", []MockResponse{invalid, ok}, false, 2},
		{"invalid twice gives up", []MockResponse{invalid, invalid, ok}, true, 2},
		{"truncation not retried", []MockResponse{{Err: &TruncatedError{}}, ok}, true, 1},
		{"cancellation not retried", []MockResponse{{Err: context.Canceled}, ok}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, fastRetry())
			_, err := p.Generate(context.Background(), userRequest(pairSchema()))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := len(mock.Calls()); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancelledWhileWaiting(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &UnavailableError{}}, MockResponse{Content: okContent})
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	p := WithRetry(mock, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, userRequest(pairSchema()))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRetry_BackoffHonoursRetryAfter(t *testing.T) {
	r := &RetryProvider{cfg: fastRetry()}
	if got := r.backoff(0, &RateLimitError{RetryAfter: 3 * time.Second}); got != 3*time.Second {
		t.Errorf("backoff = %v, want 3s", got)
	}
	for attempt := 0; attempt < 10; attempt++ {
		got := r.backoff(attempt, errors.New("x"))
		if got < 0 || got > 6*time.Millisecond {
			t.Errorf("attempt %d backoff %v outside jittered cap", attempt, got)
		}
	}
}

type fakeRecorder struct {
	events []store.LLMRequestEventData
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.events = append(f.events, data)
	return nil
}

func TestRecording(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &RateLimitError{Err: errors.New("429")}},
		MockResponse{Content: okContent, Usage: Usage{InputTokens: 12, OutputTokens: 34}},
	)
	rec := &fakeRecorder{}
	p := WithRetry(WithRecording(mock, rec), fastRetry())

	ctx := WithPurpose(context.Background(), "draft")
	if _, err := p.Generate(ctx, userRequest(pairSchema())); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(rec.events) != 2 {
		t.Fatalf("recorded %d events, want one per attempt", len(rec.events))
	}
	first, second := rec.events[0], rec.events[1]
	if first.Success || first.ErrorMessage == "" {
		t.Errorf("first event = %+v", first)
	}
	if !second.Success || second.InputTokens != 12 || second.OutputTokens != 34 {
		t.Errorf("second event = %+v", second)
	}
	if second.Purpose != "draft" || second.Provider != ProviderMock {
		t.Errorf("labels = %+v", second)
	}
}

func TestPurposeDefault(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("purpose = %q", got)
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"nil schema accepts text", nil, `not json at all`, false},
		{"valid", pairSchema(), `{"question":"q","answer":"a"}`, false},
		{"missing field", pairSchema(), `{"question":"q"}`, true},
		{"extra field", pairSchema(), `{"question":"q","answer":"a","x":1}`, true},
		{"wrong type", pairSchema(), `{"question":1,"answer":"a"}`, true},
		{"not json", pairSchema(), `{"question"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *InvalidResponseError
				if !errors.As(err, &inv) {
					t.Errorf("expected InvalidResponseError, got %T", err)
				}
			}
		})
	}
}
