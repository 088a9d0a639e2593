package models

import "time"

// TradePlan is a pre-declared intention: instrument, direction, entry,
// stop, and target, written down before the session.
type TradePlan struct {
	ID         string     `json:"id"`
	Symbol     string     `json:"symbol"`
	Side       Side       `json:"side"`
	EntryPrice float64    `json:"entryPrice"`
	StopLoss   float64    `json:"stopLoss"`
	Target     float64    `json:"target"`
	Quantity   int        `json:"quantity"`
	Notes      string     `json:"notes,omitempty"`
	Status     PlanStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// PlanStatus represents the status of a trade plan.
type PlanStatus string

const (
	PlanPending  PlanStatus = "PENDING"
	PlanExecuted PlanStatus = "EXECUTED"
	PlanMissed   PlanStatus = "MISSED"
)

// PlanMatch links a plan to the executed round-trip that satisfied it.
type PlanMatch struct {
	Plan      TradePlan `json:"plan"`
	TripIndex int       `json:"tripIndex"`
	PriceDiff float64   `json:"priceDiff"`
}
