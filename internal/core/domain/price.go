package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTick is a single observation of the live gold price in ETB per gram.
// Ticks are not persisted; each process restart reinitializes the feed.
type PriceTick struct {
	Price decimal.Decimal `json:"price"`
	At    time.Time       `json:"at"`
}
