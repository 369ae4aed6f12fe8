package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{"sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"}

// eventRepo implements EventRepo over the llm_request_events table and the
// global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite.Insert("llm_request_events").
		Columns(llmEventColumns...).
		Values(seqNum, time.Now().UnixMilli(),
			data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs,
			data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	order := entsql.Asc("sequence")
	if opts.Desc {
		order = entsql.Desc("sequence")
	}
	sel := sqlite.Select(llmEventColumns...).
		From(sqlite.Table("llm_request_events")).
		OrderBy(order)
	query, args := filter(sel, optsPredicates(opts, "sequence", "timestamp"), opts.Limit).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	defer rows.Close()

	events := []LLMRequestEvent{}
	for rows.Next() {
		ev, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMRequest(ctx context.Context, sequence int64) (*LLMRequestEvent, error) {
	query, args := sqlite.Select(llmEventColumns...).
		From(sqlite.Table("llm_request_events")).
		Where(entsql.EQ("sequence", sequence)).
		Query()
	ev, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return ev, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "model")
}

// usage aggregates events grouped by col.
func (r *eventRepo) usage(ctx context.Context, col string) ([]LLMUsage, error) {
	query, args := sqlite.Select(col, "COUNT(*)",
		"COALESCE(SUM(`input_tokens`), 0)", "COALESCE(SUM(`output_tokens`), 0)",
		"CAST(COALESCE(AVG(`latency_ms`), 0) AS INTEGER)").
		From(sqlite.Table("llm_request_events")).
		GroupBy(col).
		OrderBy(col).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", col, err)
	}
	defer rows.Close()

	out := []LLMUsage{}
	for rows.Next() {
		var u LLMUsage
		if err := rows.Scan(&u.Key, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (*LLMRequestEvent, error) {
	var ev LLMRequestEvent
	var ts int64
	if err := row.Scan(&ev.Sequence, &ts, &ev.Provider, &ev.Model, &ev.Purpose,
		&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success, &ev.ErrorMessage,
		&ev.RequestBody, &ev.ResponseBody); err != nil {
		return nil, fmt.Errorf("scan LLM request event: %w", err)
	}
	ev.Timestamp = time.UnixMilli(ts).UTC()
	return &ev, nil
}
