package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/cache"
	"github.com/spazahub/spaza_api/internal/config"
	"github.com/spazahub/spaza_api/internal/database"
	"github.com/spazahub/spaza_api/internal/handler"
	"github.com/spazahub/spaza_api/internal/middleware"
	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
	"github.com/spazahub/spaza_api/internal/service"
	"github.com/spazahub/spaza_api/internal/worker"
	"github.com/spazahub/spaza_api/pkg/mailer"
	"github.com/spazahub/spaza_api/pkg/paygate"
	"github.com/spazahub/spaza_api/pkg/paystack"
)

// main is the application entrypoint for the Spaza marketplace API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting spaza api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize catalog cache
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Worker.CatalogCacheTTL)

	// 4. Initialize gateway and mailer clients
	paystackClient := paystack.NewClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey)
	paygateClient := paygate.NewClient(cfg.PayGate.BaseURL, cfg.PayGate.PayGateID, cfg.PayGate.Secret)
	mailerClient := mailer.NewClient(cfg.Mailer.BaseURL, cfg.Mailer.APIKey, cfg.Mailer.From)

	gateways := map[models.PaymentGateway]service.GatewayClient{
		models.GatewayPaystack: service.NewPaystackGateway(paystackClient),
		models.GatewayPayGate:  service.NewPayGateGateway(paygateClient, cfg.PayGate.ReturnURL, cfg.PayGate.NotifyURL),
	}

	// 5. Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	productRepo := repository.NewProductRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	trxRepo := repository.NewTransactionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(accountRepo, branchRepo)
	merchantSvc := service.NewMerchantService(branchRepo)
	catalogSvc := service.NewCatalogService(productRepo, branchRepo, catalogCache)
	campaignSvc := service.NewCampaignService(campaignRepo, branchRepo, productRepo)
	checkoutSvc := service.NewCheckoutService(db, productRepo, campaignRepo, orderRepo, trxRepo, gateways)
	paymentSvc := service.NewPaymentService(db, trxRepo, orderRepo, notifRepo, accountRepo, gateways)
	orderSvc := service.NewOrderService(db, orderRepo, campaignRepo, branchRepo, accountRepo, notifRepo)
	notificationSvc := service.NewNotificationService(notifRepo, mailerClient)

	// 7. Initialize handlers
	loginLimiter := middleware.NewLoginRateLimiter(5, time.Minute)
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Auth:     handler.NewAuthHandler(authSvc, loginLimiter),
		Catalog:  handler.NewCatalogHandler(catalogSvc),
		Campaign: handler.NewCampaignHandler(campaignSvc),
		Checkout: handler.NewCheckoutHandler(checkoutSvc, authSvc),
		Order:    handler.NewOrderHandler(orderSvc),
		Merchant: handler.NewMerchantHandler(merchantSvc, catalogSvc, orderSvc),
		Webhook:  handler.NewWebhookHandler(paymentSvc, paystackClient, paygateClient),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewCampaignWorker(campaignSvc, cfg.Worker.CampaignInterval).Start(ctx)
	go worker.NewNotificationWorker(notificationSvc, cfg.Worker.NotificationInterval).Start(ctx)
	go worker.NewStatusCheckWorker(paymentSvc, cfg.Worker.StatusCheckInterval, cfg.Worker.StatusCheckStaleAfter).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Campaign *handler.CampaignHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Merchant *handler.MerchantHandler
	Webhook  *handler.WebhookHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMw *middleware.JWTMiddleware) {
	// Gateway webhook endpoints (signature-authenticated)
	router.POST("/webhook/paystack", handlers.Webhook.Paystack)
	router.POST("/webhook/paygate", handlers.Webhook.PayGate)

	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public routes
	router.POST("/v1/auth/register", handlers.Auth.Register)
	router.POST("/v1/auth/login", handlers.Auth.Login)
	router.GET("/v1/products", handlers.Catalog.Search)
	router.GET("/v1/branches/:branchId/products", handlers.Catalog.BranchCatalog)
	router.GET("/v1/branches/:branchId/campaigns", handlers.Campaign.ListActive)

	// Authenticated routes (any role)
	auth := router.Group("/v1")
	auth.Use(jwtMw.Handle())
	{
		auth.GET("/auth/me", handlers.Auth.Me)
		auth.GET("/orders/:orderId", handlers.Order.Get)
		auth.GET("/orders/:orderId/changes", handlers.Order.Changes)
		auth.GET("/orders/:orderId/repeat", handlers.Order.Repeat)
		auth.POST("/orders/:orderId/cancel", handlers.Order.Cancel)
	}

	// Merchant order actions live on the shared order path; the policy layer
	// verifies branch ownership.
	merchantOrders := router.Group("/v1")
	merchantOrders.Use(jwtMw.Handle(), jwtMw.RequireRole(models.RoleMerchant))
	{
		merchantOrders.POST("/orders/:orderId/acknowledge", handlers.Order.Acknowledge)
		merchantOrders.POST("/orders/:orderId/fulfil", handlers.Order.Fulfil)
	}

	// Customer routes
	customer := router.Group("/v1")
	customer.Use(jwtMw.Handle(), jwtMw.RequireRole(models.RoleCustomer))
	{
		customer.POST("/checkout", handlers.Checkout.Checkout)
		customer.GET("/orders", handlers.Order.List)
	}

	// Merchant routes
	merchant := router.Group("/v1/merchant")
	merchant.Use(jwtMw.Handle(), jwtMw.RequireRole(models.RoleMerchant))
	{
		merchant.POST("/branches", handlers.Merchant.CreateBranch)
		merchant.GET("/branches", handlers.Merchant.ListBranches)
		merchant.GET("/orders", handlers.Merchant.ListBranchOrders)
		merchant.PUT("/branches/:branchId/products", handlers.Merchant.UpsertBranchProduct)

		merchant.POST("/products", handlers.Merchant.CreateProduct)
		merchant.PATCH("/branch-products/:id/price", handlers.Merchant.UpdatePrice)
		merchant.PATCH("/branch-products/:id/stock", handlers.Merchant.SetStock)
		merchant.PATCH("/branch-products/:id/active", handlers.Merchant.SetActive)

		merchant.POST("/campaigns", handlers.Campaign.Create)
		merchant.PATCH("/campaigns/:id/discount", handlers.Campaign.UpdateDiscount)
		merchant.DELETE("/campaigns/:id", handlers.Campaign.End)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
