package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/service"
	"github.com/spazahub/spaza_api/internal/utils"
)

// CampaignHandler serves sale campaign management.
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler constructs a CampaignHandler.
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create handles POST /v1/merchant/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var req service.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	campaign, err := h.campaignService.Create(actorFrom(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 201, "Campaign created", campaign)
}

// UpdateDiscount handles PATCH /v1/merchant/campaigns/:id/discount
//
// The new percentage is staged, not applied: it takes effect once the
// campaign worker promotes it after the cooldown window.
func (h *CampaignHandler) UpdateDiscount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid campaign id")
		return
	}

	var req struct {
		PercentageOff decimal.Decimal `json:"percentageOff"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	campaign, err := h.campaignService.UpdateDiscount(actorFrom(c), id, req.PercentageOff)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Discount change staged", campaign)
}

// End handles DELETE /v1/merchant/campaigns/:id
func (h *CampaignHandler) End(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid campaign id")
		return
	}

	if err := h.campaignService.End(actorFrom(c), id); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Campaign ended", nil)
}

// ListActive handles GET /v1/branches/:branchId/campaigns
func (h *CampaignHandler) ListActive(c *gin.Context) {
	branchID, err := strconv.Atoi(c.Param("branchId"))
	if err != nil || branchID <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid branch id")
		return
	}

	campaigns, err := h.campaignService.ListActive(branchID)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Campaigns retrieved", campaigns)
}
