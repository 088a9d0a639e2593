// Package review orchestrates one upload end to end: read the orderbook
// file, normalize, pair, tag, aggregate, persist newly-seen executions,
// and store the report under the caller's session.
package review

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"tradehabit/internal/config"
	"tradehabit/internal/errors"
	"tradehabit/internal/ingest"
	"tradehabit/internal/logging"
	"tradehabit/internal/models"
	"tradehabit/internal/pairing"
	"tradehabit/internal/performance"
	"tradehabit/internal/planmatch"
	"tradehabit/internal/report"
	"tradehabit/internal/store"
	"tradehabit/internal/tagging"
)

// Service runs the reporting pipeline. The pipeline itself is a pure
// function of the input rows; the service owns its two side effects, the
// execution store and the per-session report store.
type Service struct {
	store   store.DataStore
	pool    *performance.WorkerPool
	logger  zerolog.Logger
	cfg     *config.Config
	pending sync.WaitGroup
}

// NewService creates a review service. The worker pool backs the
// asynchronous persistence of newly-seen executions.
func NewService(st store.DataStore, logger zerolog.Logger, cfg *config.Config) *Service {
	pool := performance.NewWorkerPool(4)
	pool.Start()

	return &Service{
		store:  st,
		pool:   pool,
		logger: logger,
		cfg:    cfg,
	}
}

// Analyze processes one uploaded orderbook file and returns the report.
// The file is read fully into memory and processed synchronously; only the
// persistence of newly-seen executions runs in the background. The caller
// owns the file and may delete it after Analyze returns.
func (s *Service) Analyze(ctx context.Context, path, sessionID string) (*models.Stats, error) {
	logger := logging.WithSession(s.logger, sessionID)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading orderbook file")
	}

	parsed, err := ingest.Parse(string(data))
	if err != nil {
		return nil, errors.NewFormatError(path, "orderbook not recognized", err)
	}
	logging.LogUpload(logger, path, parsed.Schema.String(), len(parsed.Trades), parsed.Dropped)

	trips, open := pairing.Pair(parsed.Trades)

	s.applyPlans(ctx, logger, trips)

	tagger := tagging.New(s.cfg.Tagging)
	tagger.Tag(trips)

	stats := report.Build(parsed.Trades, trips, open, parsed.Warnings)

	s.persistExecutions(logger, parsed.Trades)

	if err := s.store.SaveReport(ctx, sessionID, stats); err != nil {
		return nil, err
	}
	logging.LogReport(logger, sessionID, len(trips), stats.NetPnL)

	return stats, nil
}

// Report returns the session's last report. Before any upload it returns
// the well-formed zero shape, never an error, so consumers need no
// null-check.
func (s *Service) Report(ctx context.Context, sessionID string) (*models.Stats, error) {
	stats, err := s.store.GetReport(ctx, sessionID)
	if errors.Is(err, errors.ErrReportNotFound) {
		return models.EmptyStats(), nil
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// applyPlans matches pending plans against the paired trips, copies stop
// and target onto matched trips for the tagger, and marks those plans
// executed. Plan matching is best-effort; a store failure only disables
// the risk/reward rules for this upload.
func (s *Service) applyPlans(ctx context.Context, logger zerolog.Logger, trips []models.RoundTrip) {
	plans, err := s.store.GetPlans(ctx, store.PlanFilter{Status: models.PlanPending})
	if err != nil {
		logger.Warn().Err(err).Msg("Plan lookup failed; tagging without stop distances")
		return
	}
	if len(plans) == 0 {
		return
	}

	matches := planmatch.Match(plans, trips, s.cfg.PlanMatch)
	planmatch.Apply(matches, trips)

	for _, m := range matches {
		if err := s.store.UpdatePlanStatus(ctx, m.Plan.ID, models.PlanExecuted); err != nil {
			logger.Warn().Err(err).Str("plan_id", m.Plan.ID).Msg("Failed to mark plan executed")
		}
	}
}

// persistExecutions records every valid leg in the background. Each row is
// checked for prior existence before insertion, which keeps repeated
// uploads of overlapping date ranges idempotent; rows are independent, so
// no coordination is needed beyond the pool.
func (s *Service) persistExecutions(logger zerolog.Logger, trades []models.Trade) {
	var inserted, skipped atomic.Int64
	var wg sync.WaitGroup

	for i := range trades {
		trade := trades[i]
		wg.Add(1)
		s.pending.Add(1)
		ok := s.pool.Submit(func() {
			defer wg.Done()
			defer s.pending.Done()
			fresh, err := s.store.SaveExecution(context.Background(), trade)
			if err != nil {
				logger.Warn().Err(err).Str("symbol", trade.Symbol).Msg("Failed to persist execution")
				return
			}
			if fresh {
				inserted.Add(1)
			} else {
				skipped.Add(1)
			}
		})
		if !ok {
			wg.Done()
			s.pending.Done()
			// Queue full or pool stopped: persist inline rather than drop.
			if fresh, err := s.store.SaveExecution(context.Background(), trade); err == nil && fresh {
				inserted.Add(1)
			}
		}
	}

	go func() {
		wg.Wait()
		logging.LogPersist(logger, int(inserted.Load()), int(skipped.Load()), nil)
	}()
}

// Flush blocks until all background persistence has completed.
func (s *Service) Flush() {
	s.pending.Wait()
}

// Close drains the worker pool and closes the store.
func (s *Service) Close() error {
	s.pending.Wait()
	s.pool.Stop()
	return s.store.Close()
}
