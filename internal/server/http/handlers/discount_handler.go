package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemart/storefront/internal/server/http/dto"
)

// DiscountHandler prices promotion codes for the mini-app checkout.
type DiscountHandler struct {
	facade DiscountFacade
}

// NewDiscountHandler constructs DiscountHandler.
func NewDiscountHandler(facade DiscountFacade) *DiscountHandler {
	return &DiscountHandler{facade: facade}
}

// Validate handles POST /api/discounts/validate.
func (h *DiscountHandler) Validate(c *gin.Context) {
	var req dto.ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount payload"})
		return
	}

	result, err := h.facade.ValidateDiscount(c.Request.Context(), req.Code, req.OrderTotal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ValidateDiscountResponse{
		Valid:          result.Valid,
		DiscountAmount: result.DiscountAmount,
		NewTotal:       result.NewTotal,
		Message:        result.Message,
	})
}
