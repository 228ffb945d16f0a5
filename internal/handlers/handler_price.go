package handlers

import (
	"net/http"

	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// PriceHandler serves the live gold price.
type PriceHandler struct {
	priceService portssvc.PriceSvcFacade
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(ps portssvc.PriceSvcFacade) *PriceHandler {
	return &PriceHandler{priceService: ps}
}

// registerPriceRoutes sets up the public price route. The login screen shows
// the live price before any session exists, so this stays outside the
// authenticated group.
func registerPriceRoutes(r *gin.Engine, ps portssvc.PriceSvcFacade) {
	h := NewPriceHandler(ps)
	r.GET("/api/v1/price", h.GetCurrentPrice)
}

// GetCurrentPrice godoc
// @Summary Current gold price
// @Description Returns the latest tick of the simulated gold price in ETB per gram
// @Tags price
// @Produce json
// @Success 200 {object} dto.PriceResponse
// @Router /price [get]
func (h *PriceHandler) GetCurrentPrice(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToPriceResponse(h.priceService.Current()))
}
