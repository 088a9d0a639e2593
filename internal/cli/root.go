package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradehabit/internal/config"
	"tradehabit/internal/logging"
	"tradehabit/internal/review"
	"tradehabit/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
	Review *review.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, reports will not persist")
	} else {
		app.Store = dataStore
		app.Review = review.NewService(dataStore, logger, cfg)
		logger.Debug().Str("db", cfg.Storage.DBPath).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tradehabit",
		Short: "tradehabit - behavioral trading performance reports",
		Long: `tradehabit turns a raw brokerage orderbook export into a behavioral
performance report: net P&L, win rate, profit factor, and a tagged
breakdown of good and bad trading habits.

Supported exports: Kite tradebook, Angel trade register, Sharekhan
trade report. The classification is a coaching heuristic, not a ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Review != nil {
				app.Review.Flush()
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradehabit)")
	rootCmd.PersistentFlags().String("session", "default", "session id scoping stored reports")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addAnalyzeCommand(rootCmd, app)
	addReportCommands(rootCmd, app)
	addPlanCommands(rootCmd, app)

	return rootCmd
}
