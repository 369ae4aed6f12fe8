package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/progress"
	"github.com/abhisek/skillpulse/internal/store"
)

// loaded is one decoded progress document and the report computed from it.
type loaded struct {
	Source      string
	LearnerID   string
	ProgramID   string
	ProgramName string
	Report      analytics.Report
}

// readSource reads a progress document from path, or stdin for "-".
func readSource(path string, stdin io.Reader) (*progress.Decoded, error) {
	var (
		dec *progress.Decoded
		err error
	)
	if path == "-" {
		dec, err = progress.Read(stdin)
	} else {
		var f *os.File
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
		defer f.Close()
		dec, err = progress.Read(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dec, nil
}

// loadReport decodes path and runs the engine over it. Repaired values are
// logged, never fatal.
func loadReport(eng *analytics.Engine, path string, stdin io.Reader, log *zap.Logger) (*loaded, error) {
	dec, err := readSource(path, stdin)
	if err != nil {
		return nil, err
	}
	for _, is := range dec.Issues {
		log.Info("input repaired",
			zap.String("source", path),
			zap.String("kind", string(is.Kind)),
			zap.String("path", is.Path),
			zap.String("detail", is.Detail))
	}
	if len(dec.Issues) > 0 {
		log.Warn("input had repaired values", zap.String("source", path), zap.Int("count", len(dec.Issues)))
	}

	l := &loaded{Source: path, Report: eng.Run(dec.Input)}
	if t := dec.Input.Tree; t != nil {
		l.LearnerID = t.LearnerID
		l.ProgramID = t.ProgramID
		l.ProgramName = t.ProgramName
	}
	log.Debug("report computed",
		zap.String("source", path),
		zap.String("schema_version", dec.SchemaVersion),
		zap.Int("concepts", len(l.Report.ConceptProgress)))
	return l, nil
}

// applyIdentity overrides the learner and program taken from the document
// with the --learner and --program flags when set.
func applyIdentity(cmd *cobra.Command, l *loaded) {
	if v, _ := cmd.Flags().GetString("learner"); v != "" {
		l.LearnerID = v
	}
	if v, _ := cmd.Flags().GetString("program"); v != "" {
		l.ProgramID = v
		if l.ProgramName == "" {
			l.ProgramName = v
		}
	}
}

func (l *loaded) programLabel() string {
	if l.ProgramName != "" {
		return l.ProgramName
	}
	return l.ProgramID
}

// identified reports whether l names both a learner and a program. Only
// identified reports are compared against history.
func (l *loaded) identified() bool {
	return l.LearnerID != "" && l.ProgramID != ""
}

// previousReport returns the newest saved report for l's learner and
// program, or nil when l is anonymous or has no history.
func previousReport(ctx context.Context, repo store.ReportRepo, l *loaded, log *zap.Logger) *analytics.Report {
	if !l.identified() {
		log.Debug("no learner/program identity, skipping previous report", zap.String("source", l.Source))
		return nil
	}
	prev, err := repo.Latest(ctx, l.LearnerID, l.ProgramID)
	if err != nil {
		log.Warn("could not load previous report", zap.Error(err))
		return nil
	}
	if prev == nil {
		return nil
	}
	return &prev.Report
}

// saved converts l into a report ready to persist.
func (l *loaded) saved() *store.SavedReport {
	return &store.SavedReport{
		LearnerID:   l.LearnerID,
		ProgramID:   l.ProgramID,
		ProgramName: l.ProgramName,
		Source:      l.Source,
		Report:      l.Report,
	}
}

func addIdentityFlags(cmd *cobra.Command) {
	cmd.Flags().String("learner", "", "Learner ID, overriding the one in the document")
	cmd.Flags().String("program", "", "Program ID, overriding the one in the document")
}
