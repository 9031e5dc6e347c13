package service

import (
	"database/sql"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
	"github.com/spazahub/spaza_api/internal/utils"
)

// AuthService handles account registration and login.
type AuthService struct {
	accountRepo *repository.AccountRepository
	branchRepo  *repository.BranchRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(accountRepo *repository.AccountRepository, branchRepo *repository.BranchRepository) *AuthService {
	return &AuthService{accountRepo: accountRepo, branchRepo: branchRepo}
}

// RegisterRequest carries the fields of a registration call.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	Role        string `json:"role" binding:"required,oneof=customer merchant"`
	TradingName string `json:"tradingName"`
}

// Register creates an account. Merchant registrations also create the
// merchant business record.
func (s *AuthService) Register(req *RegisterRequest) (*models.UserAccount, error) {
	if existing, err := s.accountRepo.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, utils.ErrEmailTaken
	} else if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.UserAccount{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         models.Role(req.Role),
		IsActive:     true,
	}
	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}

	if account.Role == models.RoleMerchant {
		merchant := &models.Merchant{
			AccountID:   account.ID,
			TradingName: req.TradingName,
			Email:       req.Email,
			Phone:       req.Phone,
			IsActive:    true,
		}
		if merchant.TradingName == "" {
			merchant.TradingName = req.Name
		}
		if err := s.branchRepo.CreateMerchant(merchant); err != nil {
			return nil, err
		}
	}

	log.Info().Str("email", account.Email).Str("role", string(account.Role)).Msg("Account registered")
	return account, nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(email, password string) (string, *models.UserAccount, error) {
	account, err := s.accountRepo.GetByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, utils.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !account.IsActive {
		return "", nil, utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(account.ID, account.Email, string(account.Role))
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("email", email).Msg("Login successful")
	return token, account, nil
}

// GetAccount returns an account by id.
func (s *AuthService) GetAccount(id int) (*models.UserAccount, error) {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}
