package store

import (
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sqlite builds statements quoted and parameterised for SQLite.
var sqlite = entsql.Dialect(dialect.SQLite)

// optsPredicates returns the QueryOpts bounds for the given sequence and
// timestamp columns. Timestamps are stored as Unix milliseconds.
func optsPredicates(opts QueryOpts, seqCol, tsCol string) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(seqCol, opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(seqCol, opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(tsCol, opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(tsCol, opts.To.UnixMilli()))
	}
	return preds
}

// filter ANDs preds onto s and applies a positive limit.
func filter(s *entsql.Selector, preds []*entsql.Predicate, limit int) *entsql.Selector {
	if len(preds) > 0 {
		s.Where(entsql.And(preds...))
	}
	if limit > 0 {
		s.Limit(limit)
	}
	return s
}
