package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayoogunade/AyoZon/config"
	"github.com/ayoogunade/AyoZon/controllers"
	"github.com/ayoogunade/AyoZon/database"
	"github.com/ayoogunade/AyoZon/logger"
	"github.com/ayoogunade/AyoZon/middleware"
	"github.com/ayoogunade/AyoZon/models"
	aws_pkg "github.com/ayoogunade/AyoZon/pkg/aws"
	"github.com/ayoogunade/AyoZon/repository"
	"github.com/ayoogunade/AyoZon/routes"
	"github.com/ayoogunade/AyoZon/sender"
	"github.com/ayoogunade/AyoZon/services"
	"github.com/ayoogunade/AyoZon/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.Initialize(cfg.Env)
	if err != nil {
		panic(err.Error())
	}
	defer log.Sync()

	ctx := context.Background()

	// --- Datastores ---
	mongoClient, mongoDB, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, product cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	var pg *gorm.DB
	if cfg.PostgresEnabled() {
		pg, err = database.ConnectPostgres(log, cfg.PostgresDSN(), &models.NotificationLog{})
		if err != nil {
			log.Warn("PostgreSQL unavailable, notification log disabled", zap.Error(err))
			pg = nil
		}
	}

	// --- AWS ---
	var (
		events       aws_pkg.EventPublisher
		metrics      *aws_pkg.MetricsClient
		imageBackend storage.Backend = storage.NewLocalBackend(cfg.UploadDir, cfg.PublicBaseURL)
	)
	if cfg.AWSEnabled() {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatal("Failed to load AWS config", zap.Error(err))
		}
		if cfg.UploadBackend == "s3" {
			imageBackend = storage.NewS3Backend(aws_pkg.NewS3Client(awsCfg), cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicURL, aws_pkg.Endpoint("AWS_S3_ENDPOINT"))
		}
		if cfg.OrderSNSTopicARN != "" {
			publisher, err := aws_pkg.NewTopicPublisher(awsCfg, cfg.OrderSNSTopicARN)
			if err != nil {
				log.Fatal("Failed to create order event publisher", zap.Error(err))
			}
			events = publisher
		}
		metrics = aws_pkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)

		if cfg.CloudWatchEnabled {
			shipper, err := aws_pkg.NewLogShipper(ctx, awsCfg, "storefront", cfg.CloudWatchLogGroup)
			if err != nil {
				log.Warn("CloudWatch Logs init failed (non-fatal)", zap.Error(err))
			} else {
				log = logger.Tee(log, shipper)
				zap.ReplaceGlobals(log)
				log.Info("CloudWatch Logs enabled", zap.String("group", cfg.CloudWatchLogGroup))
			}
		}
	}

	// --- Dependency injection ---
	images := storage.NewManager(imageBackend, log)
	productRepo := repository.NewMongoProductRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)

	var cache services.ProductCache
	if redisClient != nil {
		cache = services.NewCacheManager(redisClient, log)
	}

	var logRepo repository.NotificationLogRepository
	if pg != nil {
		logRepo = repository.NewGormNotificationLogRepository(pg)
	}

	var emailSender sender.EmailSender
	if resend, err := sender.NewResendSender(cfg.ResendAPIKey, cfg.FromEmail, cfg.ResendBaseURL); err == nil {
		emailSender = resend
	} else {
		log.Warn("Email sender not configured, confirmations will fail", zap.Error(err))
		emailSender = sender.Unconfigured{Reason: err}
	}

	notificationService, err := services.NewNotificationService(logRepo, emailSender, images, log)
	if err != nil {
		log.Fatal("Failed to build notification service", zap.Error(err))
	}

	stripeBackend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		LeveledLogger:     log.Sugar(),
		MaxNetworkRetries: stripe.Int64(0),
	})
	gateway := services.NewStripeGateway(cfg.StripeSecretKey, stripeBackend)

	productService := services.NewProductService(productRepo, images, cache, log)
	orderService := services.NewOrderService(productRepo, orderRepo, gateway, notificationService, events, log)

	sessions := middleware.NewSessionManager(cfg.SecretKey, cfg.IsProduction())
	ctl := routes.Controllers{
		Products: controllers.NewProductController(productService, log),
		Payments: controllers.NewPaymentController(orderService),
		Admin:    controllers.NewAdminController(cfg.AdminUsername, cfg.AdminPassword, sessions, log),
		System:   controllers.NewSystemController(cfg.StripePublishableKey, images, log),
	}

	// --- HTTP router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.Metrics(metrics, "storefront", log))
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RequestTimeout(30 * time.Second))

	routes.RegisterRoutes(r, ctl, sessions, middleware.LoginRateLimit())

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Storefront service started", zap.String("port", cfg.Port), zap.String("upload_backend", cfg.UploadBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.ClosePostgres(pg); err != nil {
		log.Error("PostgreSQL close error", zap.Error(err))
	}
	if err := database.CloseMongo(mongoClient); err != nil {
		log.Error("MongoDB close error", zap.Error(err))
	}

	log.Info("Storefront service stopped gracefully")
}
