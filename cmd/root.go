package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/logging"
	"github.com/abhisek/skillpulse/internal/store"
	"github.com/abhisek/skillpulse/internal/taxonomy"
)

type loggerKey struct{}

var rootCmd = &cobra.Command{
	Use:   "skillpulse",
	Short: "Learner progress and skill analytics",
	Long: "skillpulse rolls a learner's progress through a program up to per-skill scores,\n" +
		"strengths and areas to improve, and shows them as a report or an interactive dashboard.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, log))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = loggerFrom(cmd).Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides SKILLPULSE_DB env var)")
	pf.String("taxonomy", "", "YAML file with extra skill aliases and colors (overrides SKILLPULSE_TAXONOMY)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides SKILLPULSE_LOG_LEVEL)")
	pf.String("log-file", "", "Also write JSON logs to this file, rotated by size (overrides SKILLPULSE_LOG_FILE)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagOrEnv returns the named string flag, falling back to env.
func flagOrEnv(cmd *cobra.Command, flag, env string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return os.Getenv(env)
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = flagOrEnv(cmd, "log-level", "SKILLPULSE_LOG_LEVEL")
	cfg.File = flagOrEnv(cmd, "log-file", "SKILLPULSE_LOG_FILE")
	log, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return log, nil
}

// loggerFrom returns the logger set up for this invocation.
func loggerFrom(cmd *cobra.Command) *zap.Logger {
	if ctx := cmd.Context(); ctx != nil {
		if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SKILLPULSE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath, loggerFrom(cmd))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadCanonicalizer builds the taxonomy from the built-in tables plus the
// optional overlay file.
func loadCanonicalizer(cmd *cobra.Command) (*taxonomy.Canonicalizer, error) {
	cfg := taxonomy.DefaultConfig()
	if path := flagOrEnv(cmd, "taxonomy", "SKILLPULSE_TAXONOMY"); path != "" {
		var err error
		if cfg, err = taxonomy.LoadConfig(path); err != nil {
			return nil, err
		}
		loggerFrom(cmd).Debug("taxonomy overlay loaded", zap.String("path", path))
	}
	canon, err := taxonomy.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	return canon, nil
}

func newEngine(cmd *cobra.Command) (*analytics.Engine, error) {
	canon, err := loadCanonicalizer(cmd)
	if err != nil {
		return nil, err
	}
	return analytics.NewEngine(canon, analytics.DefaultConfig()), nil
}
