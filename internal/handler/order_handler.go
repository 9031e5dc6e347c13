package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spazahub/spaza_api/internal/service"
	"github.com/spazahub/spaza_api/internal/utils"
)

// OrderHandler serves the order lifecycle endpoints shared by customers and
// merchants; ownership checks live in the service layer.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func orderID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("orderId"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_ORDER_ID", "Invalid order id")
		return 0, false
	}
	return id, true
}

// List handles GET /v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	orders, total, err := h.orderService.ListForCustomer(actorFrom(c), page, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Orders retrieved", orders, page, limit, total)
}

// Get handles GET /v1/orders/:orderId
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, items, cancellation, err := h.orderService.Get(actorFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	payload := gin.H{
		"order": order,
		"items": items,
	}
	if cancellation != nil {
		payload["cancellation"] = cancellation
	}
	utils.Success(c, 200, "Order retrieved", payload)
}

// Changes handles GET /v1/orders/:orderId/changes
func (h *OrderHandler) Changes(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	changes, err := h.orderService.CheckChanges(actorFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Order changes computed", changes)
}

// Repeat handles GET /v1/orders/:orderId/repeat
func (h *OrderHandler) Repeat(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	proposal, err := h.orderService.RepeatOrder(actorFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Repeat order priced", proposal)
}

// Cancel handles POST /v1/orders/:orderId/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req service.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
			return
		}
	}

	if err := h.orderService.Cancel(actorFrom(c), id, &req); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Order cancelled", nil)
}

// Acknowledge handles POST /v1/merchant/orders/:orderId/acknowledge
func (h *OrderHandler) Acknowledge(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	if err := h.orderService.Acknowledge(actorFrom(c), id); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Order acknowledged", nil)
}

// Fulfil handles POST /v1/merchant/orders/:orderId/fulfil
func (h *OrderHandler) Fulfil(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	if err := h.orderService.Fulfil(actorFrom(c), id); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Order fulfilled", nil)
}
