package cmd

import (
	"encoding/json"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/ui/render"
)

// checkStdinOnce rejects more than one "-" argument; stdin can only be
// read once.
func checkStdinOnce(args []string) error {
	n := 0
	for _, a := range args {
		if a == "-" {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("stdin (-) given %d times; it can only be read once", n)
	}
	return nil
}

var reportCmd = &cobra.Command{
	Use:   "report [file...]",
	Short: "Compute and print a skill report for one or more progress documents",
	Long: "Reads progress documents (a tree, a flat concept list, or a tagged envelope)\n" +
		"and prints the skill report for each. Use - or no argument to read stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"-"}
		}
		if err := checkStdinOnce(args); err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		save, _ := cmd.Flags().GetBool("save")
		width, _ := cmd.Flags().GetInt("width")
		maxConcepts, _ := cmd.Flags().GetInt("concepts")
		table, _ := cmd.Flags().GetBool("table")
		log := loggerFrom(cmd)

		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}

		results := make([]*loaded, len(args))
		var g errgroup.Group
		g.SetLimit(4)
		for i, path := range args {
			g.Go(func() error {
				l, err := loadReport(eng, path, cmd.InOrStdin(), log)
				if err != nil {
					return err
				}
				applyIdentity(cmd, l)
				results[i] = l
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if save {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			repo := s.ReportRepo()
			for _, l := range results {
				rep := l.saved()
				if err := repo.Save(cmd.Context(), rep); err != nil {
					return fmt.Errorf("save report for %s: %w", l.Source, err)
				}
				log.Info("report saved", zap.String("id", rep.ID), zap.String("source", l.Source))
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s as %s\n", l.Source, rep.ID)
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if len(results) == 1 {
				return enc.Encode(results[0].Report)
			}
			docs := make([]jsonReport, len(results))
			for i, l := range results {
				docs[i] = jsonReport{Source: l.Source, LearnerID: l.LearnerID, ProgramID: l.ProgramID, Report: l.Report}
			}
			return enc.Encode(docs)
		}

		for i, l := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			opts := render.DefaultOptions()
			opts.Canon = eng.Canonicalizer()
			opts.Width = width
			opts.MaxConcepts = maxConcepts
			opts.Learner = l.LearnerID
			opts.Program = l.programLabel()
			lipgloss.Fprint(out, render.Report(l.Report, opts))
			if table && !l.Report.IsEmpty() {
				lipgloss.Fprint(out, "\n"+render.ConceptTable(l.Report.ConceptProgress, opts)+"\n")
			}
		}
		return nil
	},
}

type jsonReport struct {
	Source    string           `json:"source"`
	LearnerID string           `json:"learnerId,omitempty"`
	ProgramID string           `json:"programId,omitempty"`
	Report    analytics.Report `json:"report"`
}

func init() {
	f := reportCmd.Flags()
	f.Bool("json", false, "Print the report as JSON")
	f.Bool("save", false, "Save each report to the history database")
	f.Bool("table", false, "Append a table of every concept")
	f.Int("width", 80, "Output width in columns")
	f.Int("concepts", 5, "Max strengths and areas to improve to list (0 = all)")
	addIdentityFlags(reportCmd)
}
