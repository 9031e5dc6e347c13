package service

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/cache"
	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
	"github.com/spazahub/spaza_api/internal/utils"
)

// CatalogService handles product search and merchant-side catalog
// maintenance.
type CatalogService struct {
	productRepo  *repository.ProductRepository
	branchRepo   *repository.BranchRepository
	catalogCache *cache.CatalogCache
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(productRepo *repository.ProductRepository, branchRepo *repository.BranchRepository, catalogCache *cache.CatalogCache) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		catalogCache: catalogCache,
	}
}

// Search returns in-stock, active branch products matching the term.
// Results are served from the Redis cache when possible.
func (s *CatalogService) Search(ctx context.Context, query string, branchID, page, limit int) ([]models.BranchProduct, int, error) {
	if items, total, ok := s.catalogCache.GetSearch(ctx, query, branchID, page, limit); ok {
		return items, total, nil
	}

	items, total, err := s.productRepo.SearchPaged(query, branchID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.catalogCache.SetSearch(ctx, query, branchID, page, limit, items, total); err != nil {
		log.Warn().Err(err).Msg("Failed to cache catalog search")
	}
	return items, total, nil
}

// BranchCatalog lists every branch product of a branch, merchant view.
func (s *CatalogService) BranchCatalog(branchID int) ([]models.BranchProduct, error) {
	if _, err := s.branchRepo.GetBranchByID(branchID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrBranchNotFound
		}
		return nil, err
	}
	return s.productRepo.ListByBranch(branchID)
}

// CreateProduct adds a product to the global catalog.
func (s *CatalogService) CreateProduct(p *models.Product) error {
	if p.RetailPrice.IsNegative() {
		return utils.ErrInvalidPrice
	}
	return s.productRepo.CreateProduct(p)
}

// UpsertBranchProduct creates or updates the merchant's listing of a product
// at a branch, after checking the actor owns the branch.
func (s *CatalogService) UpsertBranchProduct(ctx context.Context, actor Actor, bp *models.BranchProduct) error {
	branch, err := s.branchRepo.GetBranchByID(bp.BranchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrBranchNotFound
		}
		return err
	}
	if err := Authorize(actor, Resource{MerchantAccountID: branch.MerchantAccountID}, ActionManageBranch); err != nil {
		return err
	}
	if bp.Price.IsNegative() {
		return utils.ErrInvalidPrice
	}
	if _, err := s.productRepo.GetProductByID(bp.ProductID); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.UpsertBranchProduct(bp); err != nil {
		return err
	}
	s.invalidate(ctx, bp.BranchID)
	return nil
}

// UpdatePrice sets a new branch price for a listing.
func (s *CatalogService) UpdatePrice(ctx context.Context, actor Actor, branchProductID int, price decimal.Decimal) error {
	if price.IsNegative() {
		return utils.ErrInvalidPrice
	}
	bp, err := s.authorizeListing(actor, branchProductID)
	if err != nil {
		return err
	}
	if err := s.productRepo.UpdatePrice(bp.ID, price); err != nil {
		return err
	}
	s.invalidate(ctx, bp.BranchID)
	return nil
}

// SetStock flips a listing's in_stock flag.
func (s *CatalogService) SetStock(ctx context.Context, actor Actor, branchProductID int, inStock bool) error {
	bp, err := s.authorizeListing(actor, branchProductID)
	if err != nil {
		return err
	}
	if err := s.productRepo.SetStock(bp.ID, inStock); err != nil {
		return err
	}
	s.invalidate(ctx, bp.BranchID)
	return nil
}

// SetActive flips a listing's is_active flag.
func (s *CatalogService) SetActive(ctx context.Context, actor Actor, branchProductID int, isActive bool) error {
	bp, err := s.authorizeListing(actor, branchProductID)
	if err != nil {
		return err
	}
	if err := s.productRepo.SetActive(bp.ID, isActive); err != nil {
		return err
	}
	s.invalidate(ctx, bp.BranchID)
	return nil
}

// authorizeListing loads a branch product and checks the actor owns its
// branch.
func (s *CatalogService) authorizeListing(actor Actor, branchProductID int) (*models.BranchProduct, error) {
	bp, err := s.productRepo.GetBranchProductByID(branchProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrBranchProductNotFound
		}
		return nil, err
	}
	branch, err := s.branchRepo.GetBranchByID(bp.BranchID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, Resource{MerchantAccountID: branch.MerchantAccountID}, ActionManageBranch); err != nil {
		return nil, err
	}
	return bp, nil
}

func (s *CatalogService) invalidate(ctx context.Context, branchID int) {
	if err := s.catalogCache.InvalidateBranch(ctx, branchID); err != nil {
		log.Warn().Err(err).Int("branch_id", branchID).Msg("Failed to invalidate catalog cache")
	}
}
