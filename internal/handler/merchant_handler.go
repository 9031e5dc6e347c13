package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/middleware"
	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/service"
	"github.com/spazahub/spaza_api/internal/utils"
)

// MerchantHandler serves the merchant-facing branch and catalog management
// endpoints.
type MerchantHandler struct {
	merchantService *service.MerchantService
	catalogService  *service.CatalogService
	orderService    *service.OrderService
}

// NewMerchantHandler constructs a MerchantHandler.
func NewMerchantHandler(merchantService *service.MerchantService, catalogService *service.CatalogService, orderService *service.OrderService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		catalogService:  catalogService,
		orderService:    orderService,
	}
}

func actorFrom(c *gin.Context) service.Actor {
	accountID, role := middleware.Actor(c)
	return service.Actor{AccountID: accountID, Role: role}
}

// CreateBranch handles POST /v1/merchant/branches
func (h *MerchantHandler) CreateBranch(c *gin.Context) {
	var req service.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	branch, err := h.merchantService.CreateBranch(actorFrom(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Branch created", branch)
}

// ListBranches handles GET /v1/merchant/branches
func (h *MerchantHandler) ListBranches(c *gin.Context) {
	branches, err := h.merchantService.ListBranches(actorFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Branches retrieved", branches)
}

// CreateProduct handles POST /v1/merchant/products
func (h *MerchantHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name        string          `json:"name" binding:"required"`
		Description string          `json:"description"`
		RetailPrice decimal.Decimal `json:"recommendedRetailPrice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		RetailPrice: req.RetailPrice,
	}
	if err := h.catalogService.CreateProduct(product); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// UpsertBranchProduct handles PUT /v1/merchant/branches/:branchId/products
func (h *MerchantHandler) UpsertBranchProduct(c *gin.Context) {
	branchID, err := strconv.Atoi(c.Param("branchId"))
	if err != nil || branchID <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid branch id")
		return
	}

	var req struct {
		ProductID int             `json:"productId" binding:"required"`
		Price     decimal.Decimal `json:"price"`
		InStock   *bool           `json:"inStock"`
		IsActive  *bool           `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	bp := &models.BranchProduct{
		BranchID:  branchID,
		ProductID: req.ProductID,
		Price:     req.Price,
		InStock:   true,
		IsActive:  true,
	}
	if req.InStock != nil {
		bp.InStock = *req.InStock
	}
	if req.IsActive != nil {
		bp.IsActive = *req.IsActive
	}

	if err := h.catalogService.UpsertBranchProduct(c.Request.Context(), actorFrom(c), bp); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Branch product saved", bp)
}

// UpdatePrice handles PATCH /v1/merchant/branch-products/:id/price
func (h *MerchantHandler) UpdatePrice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid branch product id")
		return
	}

	var req struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.catalogService.UpdatePrice(c.Request.Context(), actorFrom(c), id, req.Price); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Price updated", nil)
}

// SetStock handles PATCH /v1/merchant/branch-products/:id/stock
func (h *MerchantHandler) SetStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid branch product id")
		return
	}

	var req struct {
		InStock *bool `json:"inStock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.catalogService.SetStock(c.Request.Context(), actorFrom(c), id, *req.InStock); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Stock updated", nil)
}

// SetActive handles PATCH /v1/merchant/branch-products/:id/active
func (h *MerchantHandler) SetActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid branch product id")
		return
	}

	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.catalogService.SetActive(c.Request.Context(), actorFrom(c), id, *req.IsActive); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Listing updated", nil)
}

// ListBranchOrders handles GET /v1/merchant/orders?branchId=N
func (h *MerchantHandler) ListBranchOrders(c *gin.Context) {
	branchID, err := strconv.Atoi(c.Query("branchId"))
	if err != nil || branchID <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid branch id")
		return
	}
	page, limit := pagination(c)

	orders, total, err := h.orderService.ListForBranch(actorFrom(c), branchID, page, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Orders retrieved", orders, page, limit, total)
}
