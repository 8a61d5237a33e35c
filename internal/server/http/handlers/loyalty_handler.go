package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemart/storefront/internal/server/http/dto"
)

// LoyaltyHandler reports the caller's loyalty standing.
type LoyaltyHandler struct {
	facade LoyaltyFacade
}

// NewLoyaltyHandler constructs LoyaltyHandler.
func NewLoyaltyHandler(facade LoyaltyFacade) *LoyaltyHandler {
	return &LoyaltyHandler{facade: facade}
}

// Status handles GET /api/loyalty/status. Anonymous callers get the guest
// standing rather than an error.
func (h *LoyaltyHandler) Status(c *gin.Context) {
	status, err := h.facade.LoyaltyStatus(c.Request.Context(), CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoyaltyResponse{
		Points:             status.Points,
		Level:              status.Level,
		NextLevelThreshold: status.NextLevelThreshold,
		Progress:           status.Progress,
	})
}
