package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spazahub/spaza_api/internal/service"
	"github.com/spazahub/spaza_api/internal/utils"
)

// CatalogHandler serves the public product catalog.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Search handles GET /v1/products
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("search")
	branchID, _ := strconv.Atoi(c.DefaultQuery("branchId", "0"))
	page, limit := pagination(c)

	products, total, err := h.catalogService.Search(c.Request.Context(), query, branchID, page, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved", products, page, limit, total)
}

// BranchCatalog handles GET /v1/branches/:branchId/products
func (h *CatalogHandler) BranchCatalog(c *gin.Context) {
	branchID, err := strconv.Atoi(c.Param("branchId"))
	if err != nil || branchID <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid branch id")
		return
	}

	products, err := h.catalogService.BranchCatalog(branchID)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.Success(c, 200, "Branch catalog retrieved", products)
}

// pagination reads page/limit query params with defaults and caps.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
