package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/store"
)

const sampleTree = `{
  "programId": "p1",
  "programName": "English Foundations",
  "learnerId": "u-7",
  "stages": [{
    "stageName": "Stage 1",
    "units": [{
      "unitName": "Unit 1",
      "subconcepts": [
        {"subconceptId": 1, "subconceptMaxscore": 10, "highestScore": 9, "completed": true,
         "concept": {"conceptId": "c1", "conceptName": "Nouns", "conceptSkill1": "Vocab"}},
        {"subconceptId": 2, "subconceptMaxscore": 10, "highestScore": 2, "completed": false,
         "concept": {"conceptId": "c2", "conceptName": "Sounds", "conceptSkill1": "Listening"}}
      ]
    }]
  }]
}`

// resetFlags restores every flag to its default so runs don't leak into
// each other through the package-level commands.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(p, []byte(sampleTree), 0o644))
	return p
}

func tempDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "skillpulse.db")
}

func TestReportText(t *testing.T) {
	out, err := run(t, "", "report", "--db", tempDB(t), writeSample(t))
	require.NoError(t, err)
	assert.Contains(t, out, "English Foundations")
	assert.Contains(t, out, "Learner u-7")
	assert.Contains(t, out, "Vocabulary")
}

func TestReportJSONFromStdin(t *testing.T) {
	out, err := run(t, sampleTree, "report", "--db", tempDB(t), "--json", "-")
	require.NoError(t, err)

	var r analytics.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Len(t, r.ConceptProgress, 2)
	assert.InDelta(t, 50.0, r.OverallCompletion, 0.001)
	require.Len(t, r.Strengths, 1)
	assert.Equal(t, "Nouns", r.Strengths[0].Name)
}

func TestReportMultipleFilesJSON(t *testing.T) {
	a, b := writeSample(t), writeSample(t)
	out, err := run(t, "", "report", "--db", tempDB(t), "--json", "--learner", "override", a, b)
	require.NoError(t, err)

	var docs []jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, a, docs[0].Source)
	assert.Equal(t, b, docs[1].Source)
	assert.Equal(t, "override", docs[0].LearnerID)
}

func TestReportMissingFile(t *testing.T) {
	_, err := run(t, "", "report", "--db", tempDB(t), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReportBadJSON(t *testing.T) {
	_, err := run(t, "{not json", "report", "--db", tempDB(t), "-")
	assert.Error(t, err)
}

func TestReportSaveAndHistory(t *testing.T) {
	db := tempDB(t)
	sample := writeSample(t)

	_, err := run(t, "", "report", "--db", db, "--save", sample)
	require.NoError(t, err)
	_, err = run(t, "", "report", "--db", db, "--save", sample)
	require.NoError(t, err)

	out, err := run(t, "", "history", "list", "--db", db, "--json")
	require.NoError(t, err)
	var list []store.ReportSummary
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "u-7", list[0].LearnerID)
	assert.Equal(t, "p1", list[0].ProgramID)

	out, err = run(t, "", "history", "show", "--db", db, list[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "English Foundations")

	out, err = run(t, "", "history", "prune", "--db", db, "--keep", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 report(s)")

	out, err = run(t, "", "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, list[0].ID)
	assert.NotContains(t, out, list[1].ID)
}

func TestPreviousReportSkipsAnonymousInput(t *testing.T) {
	s, err := store.Open(tempDB(t), nil)
	require.NoError(t, err)
	defer s.Close()
	repo := s.ReportRepo()
	ctx := context.Background()

	alice := &loaded{Source: "alice.json", LearnerID: "alice", ProgramID: "eng-1",
		Report: analytics.Report{OverallCompletion: 40}}
	require.NoError(t, repo.Save(ctx, alice.saved()))

	assert.Nil(t, previousReport(ctx, repo, &loaded{Source: "flat.json"}, zap.NewNop()))
	assert.Nil(t, previousReport(ctx, repo, &loaded{Source: "half.json", LearnerID: "alice"}, zap.NewNop()))

	prev := previousReport(ctx, repo, &loaded{Source: "next.json", LearnerID: "alice", ProgramID: "eng-1"}, zap.NewNop())
	require.NotNil(t, prev)
	assert.Equal(t, 40.0, prev.OverallCompletion)
}

func TestReportRejectsRepeatedStdin(t *testing.T) {
	_, err := run(t, sampleTree, "report", "--db", tempDB(t), "-", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin")
}

func TestHistoryShowUnknown(t *testing.T) {
	_, err := run(t, "", "history", "show", "--db", tempDB(t), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHistoryListEmpty(t *testing.T) {
	out, err := run(t, "", "history", "list", "--db", tempDB(t))
	require.NoError(t, err)
	assert.Contains(t, out, "No saved reports.")
}

func TestSkillsList(t *testing.T) {
	out, err := run(t, "", "skills", "--db", tempDB(t), "--aliases")
	require.NoError(t, err)
	assert.Contains(t, out, "Speaking")
	assert.Contains(t, out, "Skill Development *")
	assert.Contains(t, out, "Vocab")
}

func TestSkillsResolve(t *testing.T) {
	out, err := run(t, "", "skills", "resolve", "--db", tempDB(t), "--json", "Vocab", "mystery")
	require.NoError(t, err)

	var res resolution
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Vocabulary", string(res.Skill))
	assert.Equal(t, []string{"mystery"}, res.Unknown)
	assert.Len(t, res.Contribute, 2)
}

func TestTaxonomyOverlay(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("aliases:\n  Phonics: Listening\n"), 0o644))

	out, err := run(t, "", "skills", "resolve", "--db", tempDB(t), "--taxonomy", overlay, "Phonics")
	require.NoError(t, err)
	assert.Contains(t, out, "Skill:        Listening")
	assert.NotContains(t, out, "Unrecognized")
}

func TestCoachWithoutProvider(t *testing.T) {
	t.Setenv("SKILLPULSE_LLM_PROVIDER", "none")
	_, err := run(t, "", "coach", "--db", tempDB(t), writeSample(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM provider configured")
}

func TestViewNeedsOneSource(t *testing.T) {
	_, err := run(t, "", "view", "--db", tempDB(t))
	assert.Error(t, err)
	_, err = run(t, "", "view", "--db", tempDB(t), "-")
	assert.Error(t, err)
}

func TestLLMCommandsEmpty(t *testing.T) {
	db := tempDB(t)
	out, err := run(t, "", "llm", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM requests recorded.")

	out, err = run(t, "", "llm", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM usage recorded yet.")

	_, err = run(t, "", "llm", "view", "--db", db, "7")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "", "version", "--log-level", "chatty")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "skillpulse "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "éè", truncate("éèê", 2))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
