package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/app/controller"
	"github.com/prostore/prostore-backend/internal/app/repository"
	"github.com/prostore/prostore-backend/internal/app/service"
	"github.com/prostore/prostore-backend/internal/cache"
	"github.com/prostore/prostore-backend/internal/db"
	"github.com/prostore/prostore-backend/internal/events"
	"github.com/prostore/prostore-backend/internal/middleware"
	"github.com/prostore/prostore-backend/internal/router"
	"github.com/prostore/prostore-backend/internal/scheduler"
	"github.com/prostore/prostore-backend/internal/storage"
	"github.com/prostore/prostore-backend/pkg/logger"
	"github.com/prostore/prostore-backend/pkg/mail"
	"github.com/prostore/prostore-backend/pkg/payment/stripe"
	"github.com/prostore/prostore-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	format := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: format == "console",
	})

	logger.Info("Starting Prostore Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the page cache and the sign-out blacklist. Without it pages
	// are rendered on every request and signed-out tokens stay valid.
	var pages cache.PageCache = cache.NewNoopPageCache()
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Continuing without Redis", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			pages = cache.NewRedisPageCache(redis.GetClient(), cfg.Redis.PageTTL)
			defer redis.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	productRepo := repository.NewProductRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	cartRepo := repository.NewCartRepository(database)
	orderRepo := repository.NewOrderRepository(database)

	// Receipts go out from the notifier process when Kafka is configured and
	// inline otherwise.
	notificationService := service.NewNotificationService(
		orderRepo,
		mail.NewSender(&cfg.Email),
		mail.FromAddress(&cfg.Email),
		cfg.Server.PublicURL,
	)
	var publisher events.Publisher = events.NewInlinePublisher(notificationService.HandleOrderPaid)
	if cfg.Kafka.Enabled() {
		publisher = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		logger.Info("Publishing order events to Kafka", map[string]interface{}{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.OrderTopic,
		})
	}
	defer publisher.Close()

	var (
		verifier service.EventVerifier
		payments service.PaymentIntentCreator
	)
	stripeClient, err := stripe.NewClient(stripe.Config{
		SecretKey:     cfg.Payment.Stripe.SecretKey,
		WebhookSecret: cfg.Payment.Stripe.WebhookSecret,
		Currency:      cfg.Payment.Stripe.Currency,
	})
	if err != nil {
		logger.Warn("Stripe is not configured, card payments are disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		verifier = stripeClient
		if cfg.Payment.Stripe.SecretKey != "" {
			payments = stripeClient
		}
	}

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cartRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, pages, cfg.Store)
	reviewService := service.NewReviewService(reviewRepo, productRepo, pages)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, userRepo, publisher, payments)
	paymentService := service.NewPaymentService(verifier, orderService)

	// Initialize controllers
	controllers := router.Controllers{
		Auth:    controller.NewAuthController(authService, userService),
		User:    controller.NewUserController(userService),
		Product: controller.NewProductController(productService),
		Review:  controller.NewReviewController(reviewService),
		Cart:    controller.NewCartController(cartService),
		Order:   controller.NewOrderController(orderService),
		Webhook: controller.NewWebhookController(paymentService),
	}
	if cfg.S3.Bucket != "" {
		controllers.Upload = controller.NewUploadController(storage.NewS3Storage(context.Background(), cfg.S3))
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	engine := router.NewRouter(controllers, authMiddleware, pages, cfg).Setup()

	maintenance := scheduler.NewMaintenanceScheduler(reviewRepo, cartRepo, cfg.Scheduler)
	if err := maintenance.Start(); err != nil {
		logger.Fatal("Failed to start maintenance scheduler", err)
	}
	defer maintenance.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
