package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/progress"
	"github.com/abhisek/skillpulse/internal/taxonomy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(score float64) analytics.Report {
	e := analytics.NewEngine(taxonomy.MustDefault(), analytics.DefaultConfig())
	return e.Run(progress.FromFlat([]progress.FlatConcept{{
		ConceptID: "c1", ConceptName: "Nouns",
		TotalMaxScore: 10, UserTotalScore: score,
		CompletedSubconcepts: 1, TotalSubconcepts: 2,
		Skill1: "Grammar",
	}}))
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReportSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	rep := &SavedReport{
		LearnerID:   "u-7",
		ProgramID:   "42",
		ProgramName: "English Foundations",
		Source:      "progress.json",
		Report:      sampleReport(8),
	}
	if err := repo.Save(ctx, rep); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rep.ID == "" {
		t.Fatal("expected ID to be assigned")
	}
	if rep.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", rep.Sequence)
	}

	got, err := repo.Get(ctx, rep.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProgramName != "English Foundations" {
		t.Errorf("program name = %q", got.ProgramName)
	}
	if len(got.Report.SkillScores) != 1 || got.Report.SkillScores[0].Score != 80 {
		t.Errorf("skill scores = %+v, want one Grammar score of 80", got.Report.SkillScores)
	}
	if got.Report.OverallCompletion != 50 {
		t.Errorf("overall completion = %v, want 50", got.Report.OverallCompletion)
	}
	if !got.CreatedAt.Equal(rep.CreatedAt.Truncate(time.Millisecond)) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, rep.CreatedAt)
	}
}

func TestReportGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReportRepo().Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReportLatestAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	latest, err := repo.Latest(ctx, "", "")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if latest != nil {
		t.Fatal("expected nil report when none exist")
	}

	for i, learner := range []string{"a", "b", "a"} {
		err := repo.Save(ctx, &SavedReport{
			LearnerID: learner,
			ProgramID: "p1",
			Report:    sampleReport(float64(i + 1)),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	latest, err = repo.Latest(ctx, "a", "p1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Sequence != 3 {
		t.Errorf("latest sequence = %d, want 3", latest.Sequence)
	}

	latest, err = repo.Latest(ctx, "b", "p1")
	if err != nil {
		t.Fatalf("latest b: %v", err)
	}
	if latest.Sequence != 2 {
		t.Errorf("latest b sequence = %d, want 2", latest.Sequence)
	}

	latest, err = repo.Latest(ctx, "a", "p2")
	if err != nil {
		t.Fatalf("latest other program: %v", err)
	}
	if latest != nil {
		t.Errorf("latest for unknown program = %+v, want nil", latest)
	}

	all, err := repo.List(ctx, ReportFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list len = %d, want 3", len(all))
	}
	if all[0].Sequence != 3 || all[2].Sequence != 1 {
		t.Errorf("list not newest first: %d..%d", all[0].Sequence, all[2].Sequence)
	}

	forA, err := repo.List(ctx, ReportFilter{LearnerID: "a", QueryOpts: QueryOpts{Limit: 1}})
	if err != nil {
		t.Fatalf("list a: %v", err)
	}
	if len(forA) != 1 || forA[0].Sequence != 3 {
		t.Errorf("list a = %+v, want only sequence 3", forA)
	}

	older, err := repo.List(ctx, ReportFilter{QueryOpts: QueryOpts{Before: 3, After: 1}})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(older) != 1 || older[0].Sequence != 2 {
		t.Errorf("list range = %+v, want only sequence 2", older)
	}
}

func TestReportPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if err := repo.Save(ctx, &SavedReport{LearnerID: "u", ProgramID: "p", Report: sampleReport(5)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	removed, err := repo.Prune(ctx, 5)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM reports").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining reports = %d, want 5", count)
	}

	latest, err := repo.Latest(ctx, "u", "p")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Sequence != 7 {
		t.Errorf("latest sequence = %d, want 7", latest.Sequence)
	}
}

func TestReportLatestIgnoresAnonymousInput(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, &SavedReport{LearnerID: "alice", ProgramID: "eng-1", Report: sampleReport(4)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, ids := range [][2]string{{"", ""}, {"alice", ""}, {"", "eng-1"}} {
		latest, err := repo.Latest(ctx, ids[0], ids[1])
		if err != nil {
			t.Fatalf("latest(%q, %q): %v", ids[0], ids[1], err)
		}
		if latest != nil {
			t.Errorf("latest(%q, %q) = learner %q program %q, want nil",
				ids[0], ids[1], latest.LearnerID, latest.ProgramID)
		}
	}
}

func TestReportListBounds(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := repo.Save(ctx, &SavedReport{LearnerID: "a", ProgramID: "p1", Report: sampleReport(3)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	got, err := repo.List(ctx, ReportFilter{LearnerID: "a", QueryOpts: QueryOpts{After: 1, Before: 4, Limit: 1}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Sequence != 3 {
		t.Fatalf("list = %+v, want only sequence 3", got)
	}
}

func TestReportPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Save(ctx, &SavedReport{Report: sampleReport(5)}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	removed, err := repo.Prune(ctx, 5)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}

	if _, err := repo.Prune(ctx, -1); err == nil {
		t.Error("expected error for negative keep")
	}
}

func TestLLMRequestEvents(t *testing.T) {
	s := openTestStore(t)
	events := s.EventRepo()
	ctx := context.Background()

	for i, ok := range []bool{true, false, true} {
		err := events.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      "coach",
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    int64(100 + i),
			Success:      ok,
			ErrorMessage: map[bool]string{false: "boom"}[ok],
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := events.QueryLLMRequests(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[1].Success || got[1].ErrorMessage != "boom" {
		t.Errorf("event 1 = %+v, want failure with message", got[1])
	}
	if got[2].InputTokens != 30 {
		t.Errorf("event 2 input tokens = %d, want 30", got[2].InputTokens)
	}

	limited, err := events.QueryLLMRequests(ctx, QueryOpts{After: got[0].Sequence, Limit: 1})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Sequence != got[1].Sequence {
		t.Errorf("limited = %+v, want only second event", limited)
	}
}

func TestLLMRequestLookupAndUsage(t *testing.T) {
	s := openTestStore(t)
	events := s.EventRepo()
	ctx := context.Background()

	for _, d := range []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "coach", InputTokens: 100, OutputTokens: 40, LatencyMs: 200, Success: true, RequestBody: "[user]\nhi"},
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "coach", InputTokens: 50, OutputTokens: 10, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "summary", InputTokens: 10, OutputTokens: 5, LatencyMs: 90},
	} {
		if err := events.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	newest, err := events.QueryLLMRequests(ctx, QueryOpts{Desc: true, Limit: 1})
	if err != nil {
		t.Fatalf("query desc: %v", err)
	}
	if len(newest) != 1 || newest[0].Model != "gpt-4o-mini" {
		t.Fatalf("newest = %+v, want the gpt-4o-mini event", newest)
	}

	first, err := events.GetLLMRequest(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.RequestBody != "[user]\nhi" || first.InputTokens != 100 {
		t.Errorf("get = %+v", first)
	}
	if _, err := events.GetLLMRequest(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing err = %v, want ErrNotFound", err)
	}

	byPurpose, err := events.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("usage by purpose = %+v", byPurpose)
	}
	coach := byPurpose[0]
	if coach.Key != "coach" || coach.Calls != 2 || coach.InputTokens != 150 || coach.OutputTokens != 50 || coach.AvgLatencyMs != 300 {
		t.Errorf("coach usage = %+v", coach)
	}

	byModel, err := events.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Key != "gpt-4o-mini" || byModel[1].Calls != 1 {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	rep := &SavedReport{Report: sampleReport(1)}
	if err := s.ReportRepo().Save(ctx, rep); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rep.Sequence != 2 {
		t.Errorf("report sequence = %d, want 2", rep.Sequence)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"reports", "llm_request_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "nested", "x.db")
		t.Setenv("SKILLPULSE_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("SKILLPULSE_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		want := filepath.Join(dir, "skillpulse", "skillpulse.db")
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})
}
