package market

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxStepBps bounds a single refresh step to +/-0.5% of the current quote.
const maxStepBps = 50

// Simulator holds the current quote per asset and advances them with a
// bounded random walk. A failed refresh leaves the prior quote untouched.
type Simulator struct {
	mu     sync.Mutex
	quotes map[string]decimal.Decimal
	rng    *rand.Rand
	assets []Asset
}

// NewSimulator seeds each asset's quote with its catalog base price.
// The rng seed is explicit so tests can be deterministic.
func NewSimulator(assets []Asset, rngSeed int64) *Simulator {
	quotes := make(map[string]decimal.Decimal, len(assets))
	for _, asset := range assets {
		quotes[asset.Id] = asset.Price()
	}
	return &Simulator{
		quotes: quotes,
		rng:    rand.New(rand.NewSource(rngSeed)),
		assets: assets,
	}
}

// Quote returns the current quote for an asset.
func (s *Simulator) Quote(assetId string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote, ok := s.quotes[assetId]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown asset: %s", assetId)
	}
	return quote, nil
}

// Quotes returns a snapshot of all quotes keyed by asset id.
func (s *Simulator) Quotes() map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]decimal.Decimal, len(s.quotes))
	for id, quote := range s.quotes {
		out[id] = quote
	}
	return out
}

// step advances one asset's quote by a bounded random walk.
func (s *Simulator) step(assetId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote, ok := s.quotes[assetId]
	if !ok {
		return fmt.Errorf("unknown asset: %s", assetId)
	}

	// Random move in [-maxStepBps, +maxStepBps] basis points.
	bps := int64(s.rng.Intn(2*maxStepBps+1) - maxStepBps)
	move := quote.Mul(decimal.NewFromInt(bps)).Div(decimal.NewFromInt(10_000))
	next := quote.Add(move)
	if next.LessThanOrEqual(decimal.Zero) {
		next = quote
	}

	s.quotes[assetId] = next
	return nil
}

// RefreshAll advances every asset's quote, fanning out per asset. Assets
// that fail keep their previous quote; the first error is reported after
// the rest have refreshed.
func (s *Simulator) RefreshAll(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for _, asset := range s.assets {
		assetId := asset.Id
		g.Go(func() error {
			if err := s.step(assetId); err != nil {
				zap.L().Warn("Quote refresh failed, keeping prior quote",
					zap.String("asset_id", assetId), zap.Error(err))
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Refresher periodically advances all quotes until the context is done.
// Refresh failures are best-effort: log and try again next tick.
type Refresher struct {
	sim      *Simulator
	interval time.Duration
	onTick   func()
}

// NewRefresher wires a simulator to a polling interval. onTick, if non-nil,
// runs after every refresh attempt (used for display).
func NewRefresher(sim *Simulator, interval time.Duration, onTick func()) *Refresher {
	return &Refresher{sim: sim, interval: interval, onTick: onTick}
}

// Run blocks until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	zap.L().Info("Quote refresher started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ticker.C:
			if err := r.sim.RefreshAll(ctx); err != nil {
				zap.L().Warn("Quote refresh tick failed", zap.Error(err))
			}
			if r.onTick != nil {
				r.onTick()
			}
		case <-ctx.Done():
			zap.L().Info("Quote refresher stopped")
			return
		}
	}
}
