package services

import (
	"context"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
)

// PriceSvcFacade exposes the live gold price feed. The ledger depends only on
// the latest tick, never on the timer driving it, so tests can substitute a
// fixed or scripted sequence.
type PriceSvcFacade interface {
	// Current returns the most recent price tick.
	Current() domain.PriceTick

	// Start runs the random walk until ctx is cancelled.
	Start(ctx context.Context)
}
