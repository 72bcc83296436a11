package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alex/parley/internal/config"
	"github.com/alex/parley/internal/logging"
	"github.com/alex/parley/internal/session"
)

var (
	// Global flags
	configPath string
	seed       int64
	verbose    bool
	profile    string
	storeFlag  string
	noColor    bool

	// Set up by PersistentPreRunE
	cfg       *config.Config
	logger    *zap.Logger
	sessionID string
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "parley - a small rule-based chat companion",
	Long: `parley answers what you type by matching it against an ordered list of
pattern rules. Its replies are nudged by a handful of personality traits
(humor, curiosity, empathy, energy) and a mood you can change.

Run without arguments to start an interactive conversation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if cmd.Flags().Changed("profile") {
			cfg.Store.Profile = profile
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Backend = storeFlag
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		sessionID = session.NewSessionID()
		logger = logger.With(zap.String("session", sessionID))
		logger.Debug("config loaded", zap.String("path", configPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for reproducible replies (0 = clock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "conversation profile to load and save")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "store backend: file, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(sayCmd, historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
