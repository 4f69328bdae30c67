package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbook/internal/config"
	"github.com/abhisek/quizbook/internal/store"
)

// RequestRecorder stores one event per LLM request.
type RequestRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

type purposeKey struct{}

// WithPurpose labels requests made with ctx, e.g. "draft".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// RecordingProvider records every request as an llm_request event.
type RecordingProvider struct {
	inner    Provider
	recorder RequestRecorder
}

// WithRecording wraps p so each Generate call is recorded. A nil recorder
// only logs.
func WithRecording(p Provider, recorder RequestRecorder) Provider {
	return &RecordingProvider{inner: p, recorder: recorder}
}

func (r *RecordingProvider) Name() string    { return r.inner.Name() }
func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  r.inner.Name(),
		Model:     r.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"provider":   data.Provider,
		"model":      data.Model,
		"purpose":    data.Purpose,
		"latency_ms": data.LatencyMs,
		"tokens":     data.InputTokens + data.OutputTokens,
	})
	if err != nil {
		log.WithError(err).Debug("LLM request failed")
	} else {
		log.Debug("LLM request done")
	}

	if r.recorder != nil {
		if recErr := r.recorder.AppendLLMRequest(ctx, data); recErr != nil {
			log.WithError(recErr).Warn("failed to record LLM request event")
		}
	}
	return resp, err
}
