package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yashrajoria/catalog-service/internal/auth"
	awspkg "github.com/yashrajoria/catalog-service/internal/aws"
	"github.com/yashrajoria/catalog-service/internal/cache"
	"github.com/yashrajoria/catalog-service/internal/config"
	"github.com/yashrajoria/catalog-service/internal/controllers"
	"github.com/yashrajoria/catalog-service/internal/database"
	"github.com/yashrajoria/catalog-service/internal/logger"
	"github.com/yashrajoria/catalog-service/internal/middleware"
	"github.com/yashrajoria/catalog-service/internal/repository"
	"github.com/yashrajoria/catalog-service/internal/routes"
	"github.com/yashrajoria/catalog-service/internal/services"
	"github.com/yashrajoria/catalog-service/internal/storage"
)

const (
	shutdownTimeout  = 5 * time.Second
	logFlushInterval = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var awsCfg sdkaws.Config
	if cfg.ImageStore == "s3" || cfg.OrderTopicARN != "" || cfg.CloudWatch || cfg.CloudWatchLogs {
		if awsCfg, err = awspkg.LoadAWSConfig(ctx); err != nil {
			return err
		}
	}

	var (
		logSink *awspkg.LogsWriter
		sink    zapcore.WriteSyncer
		sinkErr error
	)
	if cfg.CloudWatchLogs {
		if logSink, sinkErr = awspkg.NewLogsWriter(ctx, awsCfg, cfg.LogGroup, routes.ServiceName); sinkErr == nil {
			sink = logSink
		}
	}
	log, err := logger.InitializeWithWriter(cfg.Env, sink)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Sync()
	logConfigWarnings(cfg)
	if sinkErr != nil {
		zap.L().Warn("CloudWatch Logs disabled", zap.Error(sinkErr))
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	if logSink != nil {
		go logSink.Run(runCtx, logFlushInterval)
	}

	client, db, err := database.ConnectWithConfig(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(client); err != nil {
			zap.L().Error("Failed to close MongoDB", zap.Error(err))
		}
	}()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		zap.L().Warn("Failed to ensure indexes", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Product cache disabled", zap.Error(err))
		redisClient = nil
	}
	defer closeRedis(redisClient)
	productCache := cache.NewProductCache(redisClient, cfg.CacheTTL)

	var (
		images    storage.ImageStore
		uploadDir string
	)
	switch cfg.ImageStore {
	case "s3":
		images = storage.NewS3Store(awsCfg, cfg.S3Bucket, cfg.S3Prefix)
	default:
		local, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return err
		}
		images, uploadDir = local, local.Dir()
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	var metrics *awspkg.MetricsClient
	var orderOpts []services.OrderOption
	if cfg.CloudWatch {
		metrics = awspkg.NewMetricsClient(awsCfg, true)
		orderOpts = append(orderOpts, services.WithOrderMetrics(metrics))
	}

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	products := repository.NewProductRepository(db)

	if cfg.OrderTransactions {
		orderOpts = append(orderOpts, services.WithTransactor(repository.NewMongoTransactor(client)))
	}
	if cfg.OrderTopicARN != "" {
		orderOpts = append(orderOpts, services.WithEventPublisher(awspkg.NewSNSClient(awsCfg), cfg.OrderTopicARN))
	}

	ctrl := routes.Controllers{
		Users:      controllers.NewUserController(services.NewUserService(users, auth.NewHasher(cfg.BcryptCost), tokens)),
		Categories: controllers.NewCategoryController(services.NewCategoryService(categories, productCache)),
		Products:   controllers.NewProductController(services.NewProductService(products, categories, images, productCache)),
		Orders: controllers.NewOrderController(services.NewOrderService(
			repository.NewOrderRepository(db),
			repository.NewOrderItemRepository(db),
			products,
			users,
			orderOpts...,
		)),
	}

	limiter := middleware.LoginRateLimiter()
	go limiter.Run(runCtx)

	gate := auth.NewGate(tokens, auth.DefaultExemptions(cfg.APIURL))
	router := routes.NewRouter(gate, ctrl, routes.Options{
		APIURL:         cfg.APIURL,
		UploadDir:      uploadDir,
		GlobalGuard:    cfg.AuthGlobalGuard,
		AllowedOrigins: cfg.AllowedOrigins,
		LoginLimiter:   limiter,
		Metrics:        metrics,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		zap.L().Info("Catalog service starting",
			zap.String("port", cfg.Port),
			zap.String("api", cfg.APIURL),
			zap.String("image_store", cfg.ImageStore),
			zap.Bool("order_transactions", cfg.OrderTransactions),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-quit:
	}
	zap.L().Info("Shutting down catalog service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zap.L().Info("Catalog service stopped gracefully")
	return nil
}

func logConfigWarnings(cfg *config.Config) {
	for _, w := range cfg.Warnings {
		zap.L().Warn(w)
	}
}

func closeRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}
}
