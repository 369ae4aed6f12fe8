package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/coach"
	"github.com/abhisek/skillpulse/internal/llm"
	"github.com/abhisek/skillpulse/internal/store"
	"github.com/abhisek/skillpulse/internal/ui/render"
)

var coachCmd = &cobra.Command{
	Use:   "coach [file]",
	Short: "Generate coaching notes for a progress document with an LLM",
	Long: "Computes the skill report for a progress document and asks the configured\n" +
		"LLM provider for coaching notes. Configure a provider with SKILLPULSE_LLM_PROVIDER\n" +
		"and the matching API key, or set ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY\n" +
		"or OPENROUTER_API_KEY.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		saveEvents, _ := cmd.Flags().GetBool("save-events")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		width, _ := cmd.Flags().GetInt("width")
		log := loggerFrom(cmd)

		cfg, err := llm.ResolveConfig()
		if err != nil {
			return fmt.Errorf("no LLM provider configured: %w", err)
		}

		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}
		l, err := loadReport(eng, path, cmd.InOrStdin(), log)
		if err != nil {
			return err
		}
		applyIdentity(cmd, l)
		if l.Report.IsEmpty() {
			return errors.New("nothing to coach on: the document has no concepts")
		}

		// History is optional here; the events table and the previous
		// report both need the store.
		var (
			events   store.EventRepo
			previous *analytics.Report
		)
		if s, err := openStore(cmd); err != nil {
			log.Warn("history unavailable", zap.Error(err))
		} else {
			defer s.Close()
			if saveEvents {
				events = s.EventRepo()
			}
			previous = previousReport(cmd.Context(), s.ReportRepo(), l, log)
		}

		provider, err := llm.NewProvider(cmd.Context(), cfg, events, log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		notes, err := coach.New(provider, coach.DefaultConfig()).Generate(ctx, coach.Input{
			LearnerID:   l.LearnerID,
			ProgramName: l.programLabel(),
			Report:      l.Report,
			Previous:    previous,
		})
		if err != nil {
			return err
		}
		deltas := coach.Deltas(previous, l.Report)

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(coachOutput{Notes: notes, Deltas: deltas})
		}

		opts := render.DefaultOptions()
		opts.Canon = eng.Canonicalizer()
		opts.Width = width
		opts.Learner = l.LearnerID
		opts.Program = l.programLabel()
		if previous != nil {
			lipgloss.Fprintln(out, render.Deltas(deltas, opts))
		}
		lipgloss.Fprint(out, render.Notes(notes, opts))
		return nil
	},
}

type coachOutput struct {
	Notes  *coach.Notes       `json:"notes"`
	Deltas []coach.SkillDelta `json:"deltas"`
}

func init() {
	f := coachCmd.Flags()
	f.Bool("json", false, "Print notes and score changes as JSON")
	f.Bool("save-events", true, "Record the LLM request in the events table")
	f.Duration("timeout", 2*time.Minute, "Give up on the provider after this long")
	f.Int("width", 80, "Output width in columns")
	addIdentityFlags(coachCmd)
}
