package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const llmEventsTable = "llm_request_events"

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	success := 0
	if data.Success {
		success = 1
	}
	query, args := builder().
		Insert(llmEventsTable).
		Columns("sequence", "timestamp", "provider", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, success, data.ErrorMessage).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}

	return nil
}

type llmEventRow struct {
	Sequence     int64  `sql:"sequence"`
	Timestamp    int64  `sql:"timestamp"`
	Provider     string `sql:"provider"`
	Model        string `sql:"model"`
	Purpose      string `sql:"purpose"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	LatencyMs    int64  `sql:"latency_ms"`
	Success      int    `sql:"success"`
	ErrorMessage string `sql:"error_message"`
}

func (r *eventRepo) LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := builder().
		Select("sequence", "timestamp", "provider", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		From(entsql.Table(llmEventsTable)).
		Where(entsql.GT("sequence", opts.After)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows []llmEventRow
	if err := r.scan(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}

	events := make([]LLMRequestEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, LLMRequestEvent{
			Sequence:  row.Sequence,
			Timestamp: time.UnixMilli(row.Timestamp).UTC(),
			LLMRequestEventData: LLMRequestEventData{
				Provider:     row.Provider,
				Model:        row.Model,
				Purpose:      row.Purpose,
				InputTokens:  row.InputTokens,
				OutputTokens: row.OutputTokens,
				LatencyMs:    row.LatencyMs,
				Success:      row.Success == 1,
				ErrorMessage: row.ErrorMessage,
			},
		})
	}
	return events, nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) (LLMUsage, error) {
	var rows []struct {
		Requests     int `sql:"requests"`
		Successes    int `sql:"successes"`
		InputTokens  int `sql:"input_tokens"`
		OutputTokens int `sql:"output_tokens"`
	}
	sel := builder().
		Select(
			entsql.As(entsql.Count("*"), "requests"),
			entsql.As("COALESCE(SUM(`success`), 0)", "successes"),
			entsql.As("COALESCE(SUM(`input_tokens`), 0)", "input_tokens"),
			entsql.As("COALESCE(SUM(`output_tokens`), 0)", "output_tokens"),
		).
		From(entsql.Table(llmEventsTable))
	if err := r.scan(ctx, sel, &rows); err != nil {
		return LLMUsage{}, fmt.Errorf("aggregate LLM usage: %w", err)
	}
	if len(rows) == 0 {
		return LLMUsage{}, nil
	}
	u := rows[0]
	return LLMUsage{
		Requests:     u.Requests,
		Failures:     u.Requests - u.Successes,
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
	}, nil
}
