package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const sessionEventsTable = "session_events"

// eventRepo implements EventRepo backed by the dialect builders and the
// global sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().
		Insert(sessionEventsTable).
		Columns("sequence", "timestamp", "session_id", "action", "bank_id", "grade", "question_index", "total", "score").
		Values(seqNum, time.Now().UnixMilli(), data.SessionID, data.Action, data.BankID, data.Grade, data.QuestionIndex, data.Total, data.Score).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

type sessionEventRow struct {
	Sequence      int64  `sql:"sequence"`
	Timestamp     int64  `sql:"timestamp"`
	SessionID     string `sql:"session_id"`
	Action        string `sql:"action"`
	BankID        string `sql:"bank_id"`
	Grade         string `sql:"grade"`
	QuestionIndex int    `sql:"question_index"`
	Total         int    `sql:"total"`
	Score         int    `sql:"score"`
}

func (r *eventRepo) SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := builder().
		Select("sequence", "timestamp", "session_id", "action", "bank_id", "grade", "question_index", "total", "score").
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.GT("sequence", opts.After)).
		OrderBy(entsql.Asc("sequence"))
	if opts.BankID != "" {
		sel.Where(entsql.EQ("bank_id", opts.BankID))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows []sessionEventRow
	if err := r.scan(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}

	events := make([]SessionEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, SessionEvent{
			Sequence:  row.Sequence,
			Timestamp: time.UnixMilli(row.Timestamp).UTC(),
			SessionEventData: SessionEventData{
				SessionID:     row.SessionID,
				Action:        row.Action,
				BankID:        row.BankID,
				Grade:         row.Grade,
				QuestionIndex: row.QuestionIndex,
				Total:         row.Total,
				Score:         row.Score,
			},
		})
	}
	return events, nil
}

func (r *eventRepo) BankStats(ctx context.Context) ([]BankStats, error) {
	var counts []struct {
		BankID string `sql:"bank_id"`
		Action string `sql:"action"`
		N      int    `sql:"n"`
	}
	countSel := builder().
		Select("bank_id", "action", entsql.As(entsql.Count("*"), "n")).
		From(entsql.Table(sessionEventsTable)).
		GroupBy("bank_id", "action")
	if err := r.scan(ctx, countSel, &counts); err != nil {
		return nil, fmt.Errorf("count session events: %w", err)
	}

	var scores []struct {
		BankID    string  `sql:"bank_id"`
		AvgScore  float64 `sql:"avg_score"`
		BestScore int     `sql:"best_score"`
		Total     int     `sql:"total"`
	}
	scoreSel := builder().
		Select(
			"bank_id",
			entsql.As(entsql.Avg("score"), "avg_score"),
			entsql.As(entsql.Max("score"), "best_score"),
			entsql.As(entsql.Max("total"), "total"),
		).
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.EQ("action", ActionComplete)).
		GroupBy("bank_id")
	if err := r.scan(ctx, scoreSel, &scores); err != nil {
		return nil, fmt.Errorf("aggregate scores: %w", err)
	}

	byBank := make(map[string]*BankStats)
	get := func(id string) *BankStats {
		st, ok := byBank[id]
		if !ok {
			st = &BankStats{BankID: id}
			byBank[id] = st
		}
		return st
	}
	for _, c := range counts {
		st := get(c.BankID)
		switch c.Action {
		case ActionStart:
			st.Started = c.N
		case ActionComplete:
			st.Completed = c.N
		case ActionAbandon:
			st.Abandoned = c.N
		}
	}
	for _, s := range scores {
		st := get(s.BankID)
		st.AvgScore = s.AvgScore
		st.BestScore = s.BestScore
		st.Total = s.Total
	}

	out := make([]BankStats, 0, len(byBank))
	for _, st := range byBank {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BankID < out[j].BankID })
	return out, nil
}

// scan runs a select and scans every row into dst, a pointer to a slice.
func (r *eventRepo) scan(ctx context.Context, sel *entsql.Selector, dst any) error {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dst)
}
