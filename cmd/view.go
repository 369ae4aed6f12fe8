package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/app"
	"github.com/abhisek/skillpulse/internal/coach"
	"github.com/abhisek/skillpulse/internal/llm"
	"github.com/abhisek/skillpulse/internal/logging"
	"github.com/abhisek/skillpulse/internal/store"
	"github.com/abhisek/skillpulse/internal/ui/render"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Open the interactive dashboard for a progress document or saved report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		save, _ := cmd.Flags().GetBool("save")
		if (len(args) == 0) == (id == "") {
			return errors.New("pass either a progress file or --id of a saved report")
		}
		if len(args) == 1 && args[0] == "-" {
			return errors.New("the dashboard needs the terminal for input; pass a file path instead of -")
		}

		// Console logging would draw over the dashboard.
		cfg := logging.Config{
			Level: flagOrEnv(cmd, "log-level", "SKILLPULSE_LOG_LEVEL"),
			File:  flagOrEnv(cmd, "log-file", "SKILLPULSE_LOG_FILE"),
		}
		log, err := logging.New(cfg)
		if err != nil {
			return fmt.Errorf("configure logging: %w", err)
		}
		defer log.Sync()

		eng, err := newEngine(cmd)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		repo := s.ReportRepo()
		ctx := cmd.Context()

		var (
			current  *loaded
			previous *analytics.Report
		)
		if id != "" {
			rep, err := repo.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("load report %s: %w", id, err)
			}
			current = &loaded{
				Source:      rep.Source,
				LearnerID:   rep.LearnerID,
				ProgramID:   rep.ProgramID,
				ProgramName: rep.ProgramName,
				Report:      rep.Report,
			}
		} else {
			if current, err = loadReport(eng, args[0], cmd.InOrStdin(), log); err != nil {
				return err
			}
			applyIdentity(cmd, current)
			previous = previousReport(ctx, repo, current, log)
			if save {
				rep := current.saved()
				if err := repo.Save(ctx, rep); err != nil {
					return fmt.Errorf("save report: %w", err)
				}
				log.Info("report saved", zap.String("id", rep.ID))
			}
		}

		opts := render.DefaultOptions()
		opts.Canon = eng.Canonicalizer()
		opts.Learner = current.LearnerID
		opts.Program = current.programLabel()

		return app.Run(ctx, app.Options{
			Report:   current.Report,
			Render:   opts,
			Reports:  repo,
			Previous: previous,
			Coach:    newCoach(cmd, s.EventRepo(), log),
			HistoryFilter: store.ReportFilter{
				LearnerID: current.LearnerID,
				ProgramID: current.ProgramID,
			},
		})
	},
}

// newCoach returns a coach when an LLM provider is configured, otherwise nil.
func newCoach(cmd *cobra.Command, events store.EventRepo, log *zap.Logger) *coach.Coach {
	cfg, err := llm.ResolveConfig()
	if err != nil {
		log.Debug("coaching disabled", zap.Error(err))
		return nil
	}
	provider, err := llm.NewProvider(cmd.Context(), cfg, events, log)
	if err != nil {
		log.Warn("failed to initialize LLM provider, coaching disabled", zap.Error(err))
		return nil
	}
	return coach.New(provider, coach.DefaultConfig())
}

func init() {
	viewCmd.Flags().String("id", "", "Open a saved report instead of a file")
	viewCmd.Flags().Bool("save", false, "Save the report to history before opening it")
	addIdentityFlags(viewCmd)
}
