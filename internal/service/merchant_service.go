package service

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
	"github.com/spazahub/spaza_api/internal/utils"
)

// MerchantService manages a merchant's branches.
type MerchantService struct {
	branchRepo *repository.BranchRepository
}

// NewMerchantService constructs a MerchantService.
func NewMerchantService(branchRepo *repository.BranchRepository) *MerchantService {
	return &MerchantService{branchRepo: branchRepo}
}

// CreateBranchRequest carries the fields of a branch creation call.
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	Phone   string `json:"phone"`
}

// CreateBranch opens a new branch under the actor's merchant record.
func (s *MerchantService) CreateBranch(actor Actor, req *CreateBranchRequest) (*models.Branch, error) {
	merchant, err := s.merchantFor(actor)
	if err != nil {
		return nil, err
	}

	branch := &models.Branch{
		MerchantID: merchant.ID,
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		Phone:      req.Phone,
		IsActive:   true,
	}
	if err := s.branchRepo.CreateBranch(branch); err != nil {
		return nil, err
	}
	branch.MerchantAccountID = actor.AccountID

	log.Info().Int("branch_id", branch.ID).Str("name", branch.Name).Msg("Branch created")
	return branch, nil
}

// ListBranches returns the actor's own branches.
func (s *MerchantService) ListBranches(actor Actor) ([]models.Branch, error) {
	merchant, err := s.merchantFor(actor)
	if err != nil {
		return nil, err
	}
	return s.branchRepo.ListBranchesByMerchant(merchant.ID)
}

func (s *MerchantService) merchantFor(actor Actor) (*models.Merchant, error) {
	if actor.Role != models.RoleMerchant {
		return nil, utils.ErrForbidden
	}
	merchant, err := s.branchRepo.GetMerchantByAccountID(actor.AccountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return merchant, nil
}
