package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// addReportCommands adds the report readback commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the last computed report",
		Long: `Display the last report computed for this session. Before any upload
this returns a well-formed empty report, not an error.`,
		Example: `  tradehabit report
  tradehabit report --session alice --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Review == nil {
				output.Error("Store not initialized; no reports available.")
				return fmt.Errorf("store unavailable")
			}

			sessionID, _ := cmd.Flags().GetString("session")
			stats, err := app.Review.Report(ctx, sessionID)
			if err != nil {
				output.Error("Failed to fetch report: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(stats)
			}

			renderStats(output, stats)
			return nil
		},
	}

	cmd.AddCommand(newPositionsCmd(app))
	rootCmd.AddCommand(cmd)
}

func newPositionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Show open positions from the last report",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Review == nil {
				output.Error("Store not initialized; no reports available.")
				return fmt.Errorf("store unavailable")
			}

			sessionID, _ := cmd.Flags().GetString("session")
			stats, err := app.Review.Report(ctx, sessionID)
			if err != nil {
				output.Error("Failed to fetch report: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(stats.OpenPositions)
			}

			if len(stats.OpenPositions) == 0 {
				output.Info("No open positions.")
				return nil
			}
			renderOpenPositions(output, stats.OpenPositions)
			return nil
		},
	}
}
