package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbook/internal/bank"
	"github.com/abhisek/quizbook/internal/config"
	"github.com/abhisek/quizbook/internal/digest"
	"github.com/abhisek/quizbook/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizbook",
	Short: "Classroom multiple-choice quizzes in the terminal",
	Long: "Quizbook runs multiple-choice quizzes for a classroom: enter a name, answer the\n" +
		"questions with prev/next navigation and get a score that is saved to a local history.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides "+config.EnvDB+" env var)")
	flags.String("banks", "", "Directory of extra .json/.yaml question banks (overrides "+config.EnvBanks+")")
	flags.String("digest", "", "Answer digest algorithm: sha256, sha3-256 or blake2b-256 (overrides "+config.EnvDigest+")")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides "+config.EnvLogLevel+")")
	flags.String("log-file", "", "Log file path (overrides "+config.EnvLogFile+")")
	rootCmd.Flags().String("grade", "", "Grade label recorded with each result (default: detected from the bank)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(banksCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveSettings merges the persistent flags over environment variables
// and XDG defaults.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	var s config.Settings
	s.DBPath, _ = cmd.Flags().GetString("db")
	s.BanksDir, _ = cmd.Flags().GetString("banks")
	s.Digest, _ = cmd.Flags().GetString("digest")
	s.LogLevel, _ = cmd.Flags().GetString("log-level")
	s.LogFile, _ = cmd.Flags().GetString("log-file")
	return config.Resolve(s)
}

var logFile *os.File

// setupLogging points the shared logger at the log file. The TUI owns the
// terminal, so logs never go to stdout or stderr.
func setupLogging(cmd *cobra.Command) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	f, err := config.OpenLogFile(s.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f
	config.SetLogger(config.NewLogger(s.LogLevel, f))
	return nil
}

func closeLogging() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// openStore opens the database named by the settings, creating its directory.
func openStore(s config.Settings) (*store.Store, error) {
	if err := config.EnsureDir(s.DBPath); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	st, err := store.Open(s.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// loadCatalog returns the built-in banks plus any from the banks directory.
func loadCatalog(s config.Settings) (*bank.Catalog, digest.Digester, error) {
	cat, err := bank.Builtin()
	if err != nil {
		return nil, nil, fmt.Errorf("load built-in banks: %w", err)
	}
	if s.BanksDir != "" {
		if err := cat.AddDir(s.BanksDir); err != nil {
			return nil, nil, fmt.Errorf("load banks from %s: %w", s.BanksDir, err)
		}
	}
	d, err := digest.New(s.Digest)
	if err != nil {
		return nil, nil, err
	}
	return cat, d, nil
}
