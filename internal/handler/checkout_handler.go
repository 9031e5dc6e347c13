package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/spazahub/spaza_api/internal/middleware"
	"github.com/spazahub/spaza_api/internal/service"
	"github.com/spazahub/spaza_api/internal/utils"
)

// CheckoutHandler serves cart checkout.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	authService     *service.AuthService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService, authService *service.AuthService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, authService: authService}
}

// Checkout handles POST /v1/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	accountID, _ := middleware.Actor(c)
	customer, err := h.authService.GetAccount(accountID)
	if err != nil {
		handleError(c, err)
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), customer, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Order created, awaiting payment", result)
}
