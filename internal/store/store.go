// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"tradehabit/internal/models"
)

// DataStore defines the interface for data persistence.
//
// Executions are keyed by (date, symbol, price, side, quantity) so repeated
// uploads of overlapping date ranges stay idempotent. Reports are scoped by
// session id, never held as process-wide state.
type DataStore interface {
	// Executions
	HasExecution(ctx context.Context, trade models.Trade) (bool, error)
	SaveExecution(ctx context.Context, trade models.Trade) (bool, error)
	CountExecutions(ctx context.Context) (int, error)

	// Reports
	SaveReport(ctx context.Context, sessionID string, stats *models.Stats) error
	GetReport(ctx context.Context, sessionID string) (*models.Stats, error)

	// Trade plans
	SavePlan(ctx context.Context, plan *models.TradePlan) error
	GetPlans(ctx context.Context, filter PlanFilter) ([]models.TradePlan, error)
	UpdatePlanStatus(ctx context.Context, planID string, status models.PlanStatus) error

	// Lifecycle
	Close() error
}

// PlanFilter represents filters for querying trade plans.
type PlanFilter struct {
	Symbol string
	Status models.PlanStatus
	Limit  int
}
