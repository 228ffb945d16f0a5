package services

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Price feed constants: the walk starts at the base, moves by a uniform delta
// in [-maxStep, +maxStep] per tick and never drops below the floor.
var (
	basePrice  = decimal.NewFromInt(8000)
	floorPrice = decimal.NewFromInt(7800)
)

const priceMaxStep = 10.0 // (rand-0.5)*10 => delta in [-5, +5]

// priceService is a free-running random walk over the gold price. It carries
// no persisted state; every process start reinitializes from the base price.
type priceService struct {
	mu       sync.RWMutex
	tick     domain.PriceTick
	interval time.Duration
	rnd      *rand.Rand
	logger   *slog.Logger
}

// NewPriceService creates the feed. interval and rnd are injectable so tests
// can drive a deterministic sequence; pass rnd=nil for a time-seeded source.
func NewPriceService(interval time.Duration, rnd *rand.Rand, logger *slog.Logger) portssvc.PriceSvcFacade {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &priceService{
		tick:     domain.PriceTick{Price: basePrice, At: time.Now().UTC()},
		interval: interval,
		rnd:      rnd,
		logger:   logger,
	}
}

var _ portssvc.PriceSvcFacade = (*priceService)(nil)

// Current returns the most recent price tick.
func (s *priceService) Current() domain.PriceTick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Start runs the walk until ctx is cancelled.
func (s *priceService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Price feed stopped")
			return
		case <-ticker.C:
			s.step()
		}
	}
}

// step applies one perturbation. Exported to tests via Advance.
func (s *priceService) step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delta := decimal.NewFromFloat((s.rnd.Float64() - 0.5) * priceMaxStep)
	next := s.tick.Price.Add(delta)
	if next.LessThan(floorPrice) {
		next = floorPrice
	}
	s.tick = domain.PriceTick{Price: next, At: time.Now().UTC()}
}

// Advance applies n ticks synchronously. Intended for tests and previews;
// the running feed uses its own timer.
func (s *priceService) Advance(n int) {
	for i := 0; i < n; i++ {
		s.step()
	}
}
