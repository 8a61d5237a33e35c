package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemart/storefront/internal/domain/model"
	"github.com/telemart/storefront/internal/server/http/dto"
)

// AdminHandler manages the hand-to-hand operations workflow.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Verifications handles GET /api/admin/h2h/verifications.
func (h *AdminHandler) Verifications(c *gin.Context) {
	orders, err := h.facade.VerificationQueue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Orders handles GET /api/admin/h2h/orders?day=today|tomorrow|all.
func (h *AdminHandler) Orders(c *gin.Context) {
	orders, err := h.facade.HandToHandOrders(c.Request.Context(), c.DefaultQuery("day", "today"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// UpdateStatus handles PATCH /api/admin/h2h/orders/:id/status.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status payload"})
		return
	}

	order, err := h.facade.SetOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// UpdateVerification handles PATCH /api/admin/h2h/orders/:id/verification.
func (h *AdminHandler) UpdateVerification(c *gin.Context) {
	var req dto.UpdateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification payload"})
		return
	}

	order, err := h.facade.SetVerificationStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// UpsertDiscount handles PUT /api/admin/discounts/:code.
func (h *AdminHandler) UpsertDiscount(c *gin.Context) {
	var req dto.UpsertDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount payload"})
		return
	}

	discount := &model.DiscountCode{
		Code:          c.Param("code"),
		Type:          model.DiscountType(req.Type),
		Value:         req.Value,
		IsActive:      req.IsActive,
		UsageLimit:    req.UsageLimit,
		MinOrderValue: req.MinOrderValue,
	}

	if err := h.facade.UpsertDiscount(c.Request.Context(), discount); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
