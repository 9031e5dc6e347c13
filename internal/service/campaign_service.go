package service

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
	"github.com/spazahub/spaza_api/internal/utils"
)

// CampaignService handles sale campaign lifecycle and the delayed discount
// promotion.
type CampaignService struct {
	campaignRepo *repository.CampaignRepository
	branchRepo   *repository.BranchRepository
	productRepo  *repository.ProductRepository
}

// NewCampaignService constructs a CampaignService.
func NewCampaignService(campaignRepo *repository.CampaignRepository, branchRepo *repository.BranchRepository, productRepo *repository.ProductRepository) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		branchRepo:   branchRepo,
		productRepo:  productRepo,
	}
}

// CreateCampaignRequest carries the fields of a campaign create call.
type CreateCampaignRequest struct {
	BranchID        int             `json:"branchId" binding:"required"`
	BranchProductID *int            `json:"branchProductId"`
	Name            string          `json:"name" binding:"required"`
	PercentageOff   decimal.Decimal `json:"percentageOff"`
	CampaignEnds    time.Time       `json:"campaignEnds" binding:"required"`
}

// Create starts a campaign on a branch or a specific branch product.
func (s *CampaignService) Create(actor Actor, req *CreateCampaignRequest) (*models.SaleCampaign, error) {
	branch, err := s.branchRepo.GetBranchByID(req.BranchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrBranchNotFound
		}
		return nil, err
	}
	if err := Authorize(actor, Resource{MerchantAccountID: branch.MerchantAccountID}, ActionManageCampaign); err != nil {
		return nil, err
	}
	if err := ValidatePercentage(req.PercentageOff); err != nil {
		return nil, err
	}
	if req.BranchProductID != nil {
		bp, err := s.productRepo.GetBranchProductByID(*req.BranchProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, utils.ErrBranchProductNotFound
			}
			return nil, err
		}
		if bp.BranchID != req.BranchID {
			return nil, utils.ErrBranchProductNotFound
		}
	}

	campaign := &models.SaleCampaign{
		BranchID:        req.BranchID,
		BranchProductID: req.BranchProductID,
		Name:            req.Name,
		PercentageOff:   req.PercentageOff,
		Active:          true,
		CampaignEnds:    req.CampaignEnds,
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}
	log.Info().Int("campaign_id", campaign.ID).Int("branch_id", campaign.BranchID).Msg("Campaign created")
	return campaign, nil
}

// UpdateDiscount stages a percentage change on a campaign. The active
// percentage keeps applying until the cooldown since last_updated elapses and
// the campaign worker promotes the staged value.
func (s *CampaignService) UpdateDiscount(actor Actor, campaignID int, pct decimal.Decimal) (*models.SaleCampaign, error) {
	campaign, err := s.getAuthorized(actor, campaignID)
	if err != nil {
		return nil, err
	}

	changed, err := StageDiscount(campaign, pct, time.Now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return campaign, nil
	}

	if err := s.campaignRepo.StageDiscount(campaign.ID, pct); err != nil {
		return nil, err
	}
	log.Info().
		Int("campaign_id", campaign.ID).
		Str("staged_percentage", pct.String()).
		Msg("Discount change staged")
	return campaign, nil
}

// End deactivates a campaign.
func (s *CampaignService) End(actor Actor, campaignID int) error {
	if _, err := s.getAuthorized(actor, campaignID); err != nil {
		return err
	}
	return s.campaignRepo.End(campaignID)
}

// ListActive returns a branch's running campaigns.
func (s *CampaignService) ListActive(branchID int) ([]models.SaleCampaign, error) {
	return s.campaignRepo.ListActiveByBranch(branchID, time.Now())
}

// ApplyDelayedChanges promotes every staged discount whose cooldown has
// elapsed. Invoked by the campaign worker; returns the number promoted.
func (s *CampaignService) ApplyDelayedChanges() (int, error) {
	now := time.Now()
	cutoff := now.Add(-models.DiscountCooldown)
	due, err := s.campaignRepo.ListDueForPromotion(cutoff)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for i := range due {
		c := &due[i]
		// PromoteDelayed owns the cooldown decision; the repository's WHERE
		// clause only re-checks it against racing workers.
		if !PromoteDelayed(c, now) {
			continue
		}
		ok, err := s.campaignRepo.PromoteDelayed(c.ID, cutoff)
		if err != nil {
			log.Error().Err(err).Int("campaign_id", c.ID).Msg("Failed to promote delayed discount")
			continue
		}
		if ok {
			promoted++
			log.Info().
				Int("campaign_id", c.ID).
				Str("percentage_off", c.PercentageOff.String()).
				Msg("Delayed discount promoted")
		}
	}
	return promoted, nil
}

func (s *CampaignService) getAuthorized(actor Actor, campaignID int) (*models.SaleCampaign, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCampaignNotFound
		}
		return nil, err
	}
	branch, err := s.branchRepo.GetBranchByID(campaign.BranchID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, Resource{MerchantAccountID: branch.MerchantAccountID}, ActionManageCampaign); err != nil {
		return nil, err
	}
	return campaign, nil
}
