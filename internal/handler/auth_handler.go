package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/spazahub/spaza_api/internal/middleware"
	"github.com/spazahub/spaza_api/internal/service"
	"github.com/spazahub/spaza_api/internal/utils"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService *service.AuthService
	limiter     *middleware.LoginRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, limiter *middleware.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	account, err := h.authService.Register(&req)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.Success(c, 201, "Account registered", account)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.limiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many login attempts, try again later")
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, account, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token":   token,
		"account": account,
	})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, _ := middleware.Actor(c)
	account, err := h.authService.GetAccount(accountID)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Account retrieved", account)
}
