package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo over the llm_request_events table.
type eventRepo struct {
	db      DBTX
	dialect string
	now     func() time.Time
}

var llmEventColumns = []string{"id", "timestamp", "provider", "model", "purpose", "student_id", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	b := entsql.Dialect(r.dialect)
	query, args := b.Insert("llm_request_events").
		Columns(llmEventColumns...).
		Values(newID(), formatTime(r.now()), data.Provider, data.Model, data.Purpose, data.StudentID, data.InputTokens,
			data.OutputTokens, data.LatencyMs, boolToInt(data.Success), data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	b := entsql.Dialect(r.dialect)
	q := b.Select(llmEventColumns...).From(b.Table("llm_request_events")).OrderBy(entsql.Desc("timestamp"))

	var preds []*entsql.Predicate
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ("purpose", opts.Purpose))
	}
	if opts.StudentID != "" {
		preds = append(preds, entsql.EQ("student_id", opts.StudentID))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", formatTime(opts.To)))
	}
	if len(preds) > 0 {
		q = q.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	return r.list(ctx, q)
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id string) (*LLMEventRecord, error) {
	b := entsql.Dialect(r.dialect)
	q := b.Select(llmEventColumns...).From(b.Table("llm_request_events")).
		Where(entsql.HasPrefix("id", id)).
		OrderBy(entsql.Desc("timestamp")).
		Limit(2)
	events, err := r.list(ctx, q)
	if err != nil {
		return nil, err
	}
	switch {
	case len(events) == 0:
		return nil, fmt.Errorf("LLM event %s: %w", id, ErrNotFound)
	case len(events) > 1 && events[0].ID != id:
		return nil, fmt.Errorf("LLM event id prefix %q is ambiguous", id)
	}
	return &events[0], nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error) {
	events, err := r.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}
	byPurpose := map[string]*LLMPurposeUsage{}
	latency := map[string]int64{}
	for _, e := range events {
		u, ok := byPurpose[e.Purpose]
		if !ok {
			u = &LLMPurposeUsage{Purpose: e.Purpose}
			byPurpose[e.Purpose] = u
		}
		u.Calls++
		u.InputTokens += e.InputTokens
		u.OutputTokens += e.OutputTokens
		latency[e.Purpose] += e.LatencyMs
		if !e.Success {
			u.Failures++
		}
	}
	out := make([]LLMPurposeUsage, 0, len(byPurpose))
	for p, u := range byPurpose {
		u.AvgLatencyMs = latency[p] / int64(u.Calls)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Purpose < out[j].Purpose })
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	events, err := r.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}
	byModel := map[string]*LLMModelUsage{}
	for _, e := range events {
		u, ok := byModel[e.Model]
		if !ok {
			u = &LLMModelUsage{Model: e.Model}
			byModel[e.Model] = u
		}
		u.Calls++
		u.InputTokens += e.InputTokens
		u.OutputTokens += e.OutputTokens
	}
	out := make([]LLMModelUsage, 0, len(byModel))
	for _, u := range byModel {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out, nil
}

func (r *eventRepo) list(ctx context.Context, q *entsql.Selector) ([]LLMEventRecord, error) {
	query, args := q.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		var (
			e       LLMEventRecord
			ts      string
			success int
		)
		if err := rows.Scan(&e.ID, &ts, &e.Provider, &e.Model, &e.Purpose, &e.StudentID, &e.InputTokens, &e.OutputTokens,
			&e.LatencyMs, &success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		e.Timestamp = parseTime(ts)
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}
