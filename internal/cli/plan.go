package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradehabit/internal/models"
	"tradehabit/internal/planmatch"
	"tradehabit/internal/store"
)

// addPlanCommands adds trade plan commands.
func addPlanCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage pre-declared trade plans",
		Long: `Record trade intentions before the session and compare them with what
was actually executed. Matched plans contribute stop distances to the
risk/reward tagging rules.`,
	}

	cmd.AddCommand(newPlanAddCmd(app))
	cmd.AddCommand(newPlanListCmd(app))
	cmd.AddCommand(newPlanCompareCmd(app))

	rootCmd.AddCommand(cmd)
}

func newPlanAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Record a trade plan",
		Example: `  tradehabit plan add RELIANCE --side Buy --entry 2450 --stop 2430 --target 2500
  tradehabit plan add NIFTY25JUN24500CE --side Buy --entry 120 --stop 100 --qty 75`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized; cannot save plans.")
				return fmt.Errorf("store unavailable")
			}

			side, _ := cmd.Flags().GetString("side")
			entry, _ := cmd.Flags().GetFloat64("entry")
			stop, _ := cmd.Flags().GetFloat64("stop")
			target, _ := cmd.Flags().GetFloat64("target")
			qty, _ := cmd.Flags().GetInt("qty")
			notes, _ := cmd.Flags().GetString("notes")

			if side != string(models.SideBuy) && side != string(models.SideSell) {
				return fmt.Errorf("side must be Buy or Sell")
			}
			if entry <= 0 {
				return fmt.Errorf("entry price must be positive")
			}

			plan := &models.TradePlan{
				ID:         fmt.Sprintf("PLAN-%d", time.Now().UnixNano()),
				Symbol:     args[0],
				Side:       models.Side(side),
				EntryPrice: entry,
				StopLoss:   stop,
				Target:     target,
				Quantity:   qty,
				Notes:      notes,
				Status:     models.PlanPending,
				CreatedAt:  time.Now(),
			}

			if err := app.Store.SavePlan(ctx, plan); err != nil {
				output.Error("Failed to save plan: %v", err)
				return err
			}

			output.Success("Plan %s saved", plan.ID)
			return nil
		},
	}

	cmd.Flags().String("side", "", "Buy or Sell")
	cmd.Flags().Float64("entry", 0, "planned entry price")
	cmd.Flags().Float64("stop", 0, "planned stop-loss price")
	cmd.Flags().Float64("target", 0, "planned target price")
	cmd.Flags().Int("qty", 0, "planned quantity")
	cmd.Flags().String("notes", "", "free-form notes")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trade plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized; no plans available.")
				return fmt.Errorf("store unavailable")
			}

			status, _ := cmd.Flags().GetString("status")
			plans, err := app.Store.GetPlans(ctx, store.PlanFilter{
				Status: models.PlanStatus(status),
				Limit:  100,
			})
			if err != nil {
				output.Error("Failed to fetch plans: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(plans)
			}

			if len(plans) == 0 {
				output.Info("No plans recorded.")
				return nil
			}

			table := NewTable(output, "ID", "Symbol", "Side", "Entry", "Stop", "Target", "Status")
			for _, p := range plans {
				table.AddRow(
					TruncateString(p.ID, 18),
					TruncateString(p.Symbol, 24),
					string(p.Side),
					FormatPrice(p.EntryPrice),
					FormatPrice(p.StopLoss),
					FormatPrice(p.Target),
					string(p.Status),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("status", "", "filter by status (PENDING, EXECUTED, MISSED)")
	return cmd
}

func newPlanCompareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare plans against the last report's executions",
		Long: `Match every recorded plan against the round-trips of the session's last
report: same contract, same side, entry price within tolerance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil || app.Review == nil {
				output.Error("Store not initialized; nothing to compare.")
				return fmt.Errorf("store unavailable")
			}

			sessionID, _ := cmd.Flags().GetString("session")
			stats, err := app.Review.Report(ctx, sessionID)
			if err != nil {
				output.Error("Failed to fetch report: %v", err)
				return err
			}

			plans, err := app.Store.GetPlans(ctx, store.PlanFilter{Limit: 100})
			if err != nil {
				output.Error("Failed to fetch plans: %v", err)
				return err
			}

			matches := planmatch.Match(plans, stats.RoundTrips, app.Config.PlanMatch)
			if output.IsJSON() {
				return output.JSON(matches)
			}

			if len(plans) == 0 {
				output.Info("No plans recorded.")
				return nil
			}

			matched := make(map[string]int)
			for _, m := range matches {
				matched[m.Plan.ID] = m.TripIndex
			}

			table := NewTable(output, "Plan", "Symbol", "Side", "Planned Entry", "Executed")
			for _, p := range plans {
				executed := output.Red("no")
				if idx, ok := matched[p.ID]; ok {
					executed = output.Green(fmt.Sprintf("yes @ %s", FormatPrice(stats.RoundTrips[idx].Entry.Price)))
				}
				table.AddRow(
					TruncateString(p.ID, 18),
					TruncateString(p.Symbol, 24),
					string(p.Side),
					FormatPrice(p.EntryPrice),
					executed,
				)
			}
			table.Render()
			return nil
		},
	}
}
