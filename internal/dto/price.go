package dto

import (
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceResponse is the latest live gold price observation.
type PriceResponse struct {
	Price decimal.Decimal `json:"price"` // ETB per gram
	At    time.Time       `json:"at"`
}

// ToPriceResponse converts a domain.PriceTick to PriceResponse DTO
func ToPriceResponse(tick domain.PriceTick) PriceResponse {
	return PriceResponse{Price: tick.Price, At: tick.At}
}
