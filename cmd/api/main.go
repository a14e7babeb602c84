package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/clontarfparadise/proshop-backend/internal/config"
	"github.com/clontarfparadise/proshop-backend/internal/handler"
	"github.com/clontarfparadise/proshop-backend/internal/middleware"
	"github.com/clontarfparadise/proshop-backend/internal/repository"
	"github.com/clontarfparadise/proshop-backend/internal/service"
	"github.com/clontarfparadise/proshop-backend/pkg/database"
	"github.com/clontarfparadise/proshop-backend/pkg/email"
	"github.com/clontarfparadise/proshop-backend/pkg/payment"
	"github.com/clontarfparadise/proshop-backend/pkg/storage"
	"github.com/clontarfparadise/proshop-backend/pkg/utils"
	"github.com/clontarfparadise/proshop-backend/pkg/voucher"
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, relying on environment")
	}

	cfg := config.LoadConfig()

	db, err := database.NewDatabase(cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.SeedCatalog(db); err != nil {
		logger.Fatal("failed to seed catalog", zap.Error(err))
	}

	// Repositories
	voucherRepo := repository.NewVoucherPurchaseRepository(db)
	productRepo := repository.NewProductRepository(db)
	serviceRepo := repository.NewServiceRepository(db)

	// Gateways
	sumupService := payment.NewSumUpService(payment.Config{
		APIKey:       cfg.SumUp.APIKey,
		MerchantCode: cfg.SumUp.MerchantCode,
		BaseURL:      cfg.SumUp.BaseURL,
	}, logger)
	emailService := email.NewEmailService(cfg.Email.APIKey, cfg.Email.FromAddress, cfg.Email.FromName, logger)
	renderer := voucher.NewRenderer()
	signer := storage.NewCloudinarySigner(cfg.Cloudinary.APISecret)

	// Voucher archive is optional; skip when R2 is not configured.
	var archive service.ArchiveStore
	var docArchive service.VoucherArchive
	if cfg.R2.Bucket != "" {
		r2Storage, err := storage.NewR2Storage(cfg.R2)
		if err != nil {
			logger.Fatal("failed to initialize R2 storage", zap.Error(err))
		}
		archive = r2Storage
		docArchive = r2Storage
	}

	validator := utils.NewValidator()

	// Services
	voucherService := service.NewVoucherService(
		voucherRepo,
		sumupService,
		emailService,
		renderer,
		archive,
		validator,
		cfg.App.URL,
		logger,
	)
	catalogService := service.NewCatalogService(productRepo, serviceRepo, validator)
	adminService := service.NewAdminService(
		voucherRepo,
		emailService,
		signer,
		docArchive,
		validator,
		cfg.Admin.Password,
		cfg.Admin.SessionSecret,
		logger,
	)

	// Handlers
	voucherHandler := handler.NewVoucherHandler(voucherService)
	productHandler := handler.NewProductHandler(catalogService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	adminHandler := handler.NewAdminHandler(adminService)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.URL,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")
	adminGuard := middleware.AdminMiddleware(cfg.Admin.SessionSecret)

	// Catalog
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/services", serviceHandler.ListServices)
	api.Get("/services/:id", serviceHandler.GetService)

	// Voucher purchase lifecycle
	api.Post("/voucher-purchases", voucherHandler.CreatePurchase)
	api.Post("/voucher-purchases/confirm", voucherHandler.ConfirmPayment)
	api.Post("/payments/checkout", voucherHandler.StartCheckout)
	api.Get("/payments/checkouts/:id", voucherHandler.GetCheckoutStatus)

	// Voucher order administration
	api.Get("/voucher-purchases", adminGuard, adminHandler.ListVoucherPurchases)
	api.Get("/voucher-purchases/:id", adminGuard, voucherHandler.GetPurchase)
	api.Get("/voucher-purchases/:id/document", adminGuard, adminHandler.GetVoucherDocument)
	api.Patch("/voucher-purchases/:id", adminGuard, adminHandler.UpdateVoucherStatus)
	api.Delete("/voucher-purchases/:id", adminGuard, adminHandler.DeleteVoucherPurchase)

	// Admin
	admin := api.Group("/admin")
	admin.Post("/login", adminHandler.Login)
	admin.Post("/logout", adminHandler.Logout)
	admin.Get("/me", adminGuard, adminHandler.Me)
	admin.Post("/test-email", adminGuard, adminHandler.SendTestEmail)
	admin.Post("/sign-image", adminGuard, adminHandler.SignImageUpload)

	// Catalog administration
	api.Post("/products", adminGuard, productHandler.CreateProduct)
	api.Patch("/products/:id", adminGuard, productHandler.UpdateProduct)
	api.Delete("/products/:id", adminGuard, productHandler.DeleteProduct)
	api.Post("/services", adminGuard, serviceHandler.CreateService)
	api.Patch("/services/:id", adminGuard, serviceHandler.UpdateService)
	api.Delete("/services/:id", adminGuard, serviceHandler.DeleteService)

	logger.Info("starting server", zap.String("port", cfg.App.Port))
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
