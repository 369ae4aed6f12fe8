package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillpulse/internal/store"
	"github.com/abhisek/skillpulse/internal/ui/render"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage saved reports",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		learner, _ := cmd.Flags().GetString("learner")
		program, _ := cmd.Flags().GetString("program")
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.ReportRepo().List(cmd.Context(), store.ReportFilter{
			LearnerID: learner,
			ProgramID: program,
			QueryOpts: store.QueryOpts{Limit: limit},
		})
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if list == nil {
				list = []store.ReportSummary{}
			}
			return enc.Encode(list)
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No saved reports.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %-14s  %-20s  %5s  %5s\n",
			"ID", "Saved", "Learner", "Program", "Done", "Avg")
		fmt.Fprintln(out, strings.Repeat("─", 106))
		for _, r := range list {
			program := r.ProgramName
			if program == "" {
				program = r.ProgramID
			}
			fmt.Fprintf(out, "%-36s  %-16s  %-14s  %-20s  %4.0f%%  %5.1f\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(r.LearnerID, 14),
				truncate(program, 20),
				r.OverallCompletion,
				r.AverageScore,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		width, _ := cmd.Flags().GetInt("width")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rep, err := s.ReportRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get report %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rep.Report)
		}

		canon, err := loadCanonicalizer(cmd)
		if err != nil {
			return err
		}
		opts := render.DefaultOptions()
		opts.Canon = canon
		opts.Width = width
		opts.Learner = rep.LearnerID
		opts.Program = rep.ProgramName
		if opts.Program == "" {
			opts.Program = rep.ProgramID
		}
		fmt.Fprintf(out, "Saved %s from %s\n\n", rep.CreatedAt.Local().Format("2006-01-02 15:04"), rep.Source)
		lipgloss.Fprint(out, render.Report(rep.Report, opts))
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent saved reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.ReportRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d report(s), kept at most %d.\n", n, keep)
		return nil
	},
}

func init() {
	lf := historyListCmd.Flags()
	lf.IntP("limit", "n", 20, "Number of reports to show (0 = all)")
	lf.String("learner", "", "Only reports for this learner")
	lf.String("program", "", "Only reports for this program")
	lf.Bool("json", false, "Print summaries as JSON")

	historyShowCmd.Flags().Bool("json", false, "Print the report as JSON")
	historyShowCmd.Flags().Int("width", 80, "Output width in columns")

	historyPruneCmd.Flags().Int("keep", 50, "Number of most recent reports to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
