package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradehabit/internal/models"
)

// addAnalyzeCommand adds the analyze command.
func addAnalyzeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "analyze <orderbook-file>",
		Short: "Analyze a brokerage orderbook export",
		Long: `Parse a raw orderbook export, reconstruct matched round-trips, and
produce the behavioral performance report.`,
		Example: `  tradehabit analyze tradebook.csv
  tradehabit analyze tradebook.csv --json
  tradehabit analyze tradebook.csv --session alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if app.Review == nil {
				output.Error("Store not initialized; cannot analyze.")
				return fmt.Errorf("store unavailable")
			}

			sessionID, _ := cmd.Flags().GetString("session")
			stats, err := app.Review.Analyze(ctx, args[0], sessionID)
			if err != nil {
				output.Error("Analysis failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(stats)
			}

			renderStats(output, stats)
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
}

// renderStats prints the full report for a terminal.
func renderStats(output *Output, stats *models.Stats) {
	if stats.Empty {
		output.Info("No round-trips found. Upload an orderbook with matched buy and sell trades.")
		if len(stats.OpenPositions) > 0 {
			output.Println()
			renderOpenPositions(output, stats.OpenPositions)
		}
		return
	}

	output.Bold("Performance")
	output.Printf("  Net P&L:          %s\n", output.FormatPnL(stats.NetPnL))
	output.Printf("  Round-trip P&L:   %s", output.FormatPnL(stats.RoundTripPnL))
	if stats.BasisGap != 0 {
		output.Printf("  (basis gap %s)", FormatIndianCurrency(stats.BasisGap))
	}
	output.Println()
	output.Printf("  Round Trips:      %d (%d wins / %d losses)\n", stats.TotalTrips, stats.Wins, stats.Losses)
	output.Printf("  Win Rate:         %.1f%%   Day Win Rate: %.1f%%\n", stats.WinRate, stats.DayWinRate)
	output.Printf("  Profit Factor:    %s\n", FormatRatio(float64(stats.ProfitFactor)))
	output.Printf("  Avg Win / Loss:   %s / %s\n", FormatIndianCurrency(stats.AvgWin), FormatIndianCurrency(stats.AvgLoss))
	output.Printf("  Discipline Score: %.0f\n", stats.Score)
	output.Println()

	if len(stats.TopDemons) > 0 {
		output.Bold("Demon Finder")
		for _, demon := range stats.TopDemons {
			if demon.Tag != "" {
				output.Printf("  %s (x%d)\n", output.Red(demon.Tag), demon.Count)
			}
			output.Dim("    %s", demon.Suggestion)
		}
		output.Println()
	}

	if len(stats.DemonCosts) > 0 {
		output.Bold("What Bad Habits Cost")
		table := NewTable(output, "Habit", "Trades", "P&L")
		for _, cost := range stats.DemonCosts {
			table.AddRow(cost.Tag, fmt.Sprintf("%d", cost.Trades), output.FormatPnL(cost.Amount))
		}
		table.Render()
		output.Println()
	}

	if len(stats.GoodGains) > 0 {
		output.Bold("What Good Habits Earned")
		table := NewTable(output, "Habit", "Trades", "P&L")
		for _, gain := range stats.GoodGains {
			table.AddRow(gain.Tag, fmt.Sprintf("%d", gain.Trades), output.FormatPnL(gain.Amount))
		}
		table.Render()
		output.Println()
	}

	if len(stats.ScripSummary) > 0 {
		output.Bold("By Instrument")
		table := NewTable(output, "Symbol", "Buy Qty", "Sell Qty", "Charges", "Net P&L")
		for _, row := range stats.ScripSummary {
			table.AddRow(
				TruncateString(row.Symbol, 24),
				fmt.Sprintf("%d", row.BuyQty),
				fmt.Sprintf("%d", row.SellQty),
				FormatIndianCurrency(row.Charges),
				output.FormatPnL(row.NetPnL),
			)
		}
		table.Render()
		output.Println()
	}

	if len(stats.OpenPositions) > 0 {
		renderOpenPositions(output, stats.OpenPositions)
		output.Println()
	}

	if len(stats.Warnings) > 0 {
		output.Bold("Data Quality")
		for _, w := range stats.Warnings {
			output.Warning("  line %d: %s (%s=%q)", w.Line, w.Message, w.Field, w.Value)
		}
	}
}

func renderOpenPositions(output *Output, positions []models.OpenPosition) {
	output.Bold("Open Positions")
	table := NewTable(output, "Symbol", "Side", "Qty", "Avg Price")
	for _, p := range positions {
		table.AddRow(
			TruncateString(p.Symbol, 24),
			string(p.Side),
			fmt.Sprintf("%d", p.Quantity),
			FormatPrice(p.AvgPrice),
		)
	}
	table.Render()
}
