package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reportRepo implements ReportRepo with the report body stored as JSON.
type reportRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	log *zap.Logger
}

func (r *reportRepo) Save(ctx context.Context, rep *SavedReport) error {
	data, err := json.Marshal(rep.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	id := uuid.NewString()
	created := rep.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	query, args := sqlite.Insert("reports").
		Columns("id", "sequence", "created_at", "learner_id", "program_id", "program_name",
			"source", "overall_completion", "average_score", "data").
		Values(id, seqNum, created.UnixMilli(), rep.LearnerID, rep.ProgramID, rep.ProgramName,
			rep.Source, rep.Report.OverallCompletion, rep.Report.AverageScore, string(data)).
		Query()
	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	rep.ID = id
	rep.Sequence = seqNum
	rep.CreatedAt = created
	r.log.Debug("report saved",
		zap.String("id", id),
		zap.Int64("sequence", seqNum),
		zap.String("learner", rep.LearnerID),
		zap.String("program", rep.ProgramID),
	)
	return nil
}

var reportColumns = []string{"id", "sequence", "created_at", "learner_id", "program_id", "program_name", "source", "data"}

func (r *reportRepo) Get(ctx context.Context, id string) (*SavedReport, error) {
	query, args := sqlite.Select(reportColumns...).
		From(sqlite.Table("reports")).
		Where(entsql.EQ("id", id)).
		Query()
	rep, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	return rep, nil
}

func (r *reportRepo) List(ctx context.Context, f ReportFilter) ([]ReportSummary, error) {
	preds := optsPredicates(f.QueryOpts, "sequence", "created_at")
	if f.LearnerID != "" {
		preds = append(preds, entsql.EQ("learner_id", f.LearnerID))
	}
	if f.ProgramID != "" {
		preds = append(preds, entsql.EQ("program_id", f.ProgramID))
	}
	sel := sqlite.Select("id", "sequence", "created_at", "learner_id", "program_id",
		"program_name", "source", "overall_completion", "average_score").
		From(sqlite.Table("reports")).
		OrderBy(entsql.Desc("sequence"))
	query, args := filter(sel, preds, f.Limit).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := []ReportSummary{}
	for rows.Next() {
		var s ReportSummary
		var created int64
		if err := rows.Scan(&s.ID, &s.Sequence, &created, &s.LearnerID, &s.ProgramID,
			&s.ProgramName, &s.Source, &s.OverallCompletion, &s.AverageScore); err != nil {
			return nil, fmt.Errorf("scan report summary: %w", err)
		}
		s.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *reportRepo) Latest(ctx context.Context, learnerID, programID string) (*SavedReport, error) {
	if learnerID == "" || programID == "" {
		return nil, nil
	}
	query, args := sqlite.Select(reportColumns...).
		From(sqlite.Table("reports")).
		Where(entsql.And(
			entsql.EQ("learner_id", learnerID),
			entsql.EQ("program_id", programID),
		)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()
	rep, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest report: %w", err)
	}
	return rep, nil
}

func (r *reportRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("prune: keep must be >= 0, got %d", keep)
	}

	// The threshold is the sequence of the newest report past the keep window.
	query, args := sqlite.Select("sequence").
		From(sqlite.Table("reports")).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Offset(keep).
		Query()
	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query reports for prune: %w", err)
	}

	query, args = sqlite.Delete("reports").Where(entsql.LTE("sequence", threshold)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	r.log.Info("pruned reports", zap.Int64("removed", n), zap.Int("kept", keep))
	return n, nil
}

func scanReport(row *sql.Row) (*SavedReport, error) {
	var rep SavedReport
	var created int64
	var data string
	if err := row.Scan(&rep.ID, &rep.Sequence, &created, &rep.LearnerID, &rep.ProgramID,
		&rep.ProgramName, &rep.Source, &data); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &rep.Report); err != nil {
		return nil, fmt.Errorf("unmarshal report data: %w", err)
	}
	rep.CreatedAt = time.UnixMilli(created).UTC()
	return &rep, nil
}
