package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-adslot-booking/internal/api"
	"github.com/sanosuguru/go-adslot-booking/internal/api/handler"
	custommiddleware "github.com/sanosuguru/go-adslot-booking/internal/api/middleware"
	"github.com/sanosuguru/go-adslot-booking/internal/application"
	"github.com/sanosuguru/go-adslot-booking/internal/config"
	"github.com/sanosuguru/go-adslot-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-adslot-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-adslot-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-adslot-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-adslot-booking/internal/queue"
	"github.com/sanosuguru/go-adslot-booking/internal/worker"
)

func main() {
	// .env があれば読み込む（なくてもエラーにしない）
	_ = godotenv.Load()

	cfg := config.Load()

	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer logger.Sync()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("DB接続に失敗", zap.Error(err))
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis。スクリーン単位ロックは二重予約防止の本体なので、
	// ロックなしで予約を受け付けるくらいなら起動を止める
	redisClient, err := redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Redis接続に失敗", zap.Error(err))
	}
	defer redisClient.Close()
	lockManager := redisinfra.NewLockManager(redisClient)
	cache := redisinfra.NewAvailabilityCache(redisClient)

	// RabbitMQ（接続できない場合はイベント発行なしで起動する）
	var publisher queue.Publisher
	if pub, err := queue.NewAMQPPublisher(cfg.Queue.URL); err != nil {
		logger.Warn("RabbitMQ接続に失敗。イベント発行を無効化", zap.Error(err))
	} else {
		publisher = pub
		defer pub.Close()
	}

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	bookingRepo := postgres.NewBookingRepository(db)
	screenRepo := postgres.NewScreenRepository(db)
	contentRepo := postgres.NewContentRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	earningsRepo := postgres.NewEarningsRepository(db)

	// サービス
	earningsService := application.NewEarningsService(screenRepo, settingsRepo, earningsRepo)
	bookingService := application.NewBookingService(
		txManager, bookingRepo, screenRepo, contentRepo, settingsRepo,
		earningsService, lockManager, publisher, cache, cfg.Booking,
	)
	availabilityService := application.NewAvailabilityService(
		bookingRepo, screenRepo, cache, cfg.Booking.AvailabilityCacheTTL)
	screenService := application.NewScreenService(screenRepo)

	// 期限切れ仮押さえスイーパー
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	defer sweeperCancel()
	sweeper := worker.NewExpiredBookingSweeper(bookingService, cfg.Booking.SweepInterval)
	sweeper.Start(sweeperCtx)
	defer sweeper.Stop()

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	// ハンドラー
	healthHandler := handler.NewHealthHandler()
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(bookingService)
	screenHandler := handler.NewScreenHandler(screenService, bookingService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	earningsHandler := handler.NewEarningsHandler(earningsRepo)

	// ルーティング
	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.GetAdvertiserBookings)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.GET("/bookings/reference/:reference", bookingHandler.GetByReference)
	v1.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	v1.POST("/payments/confirm", paymentHandler.Confirm)
	v1.POST("/screens", screenHandler.Create)
	v1.GET("/screens", screenHandler.List)
	v1.GET("/screens/:id", screenHandler.GetByID)
	v1.GET("/screens/:id/bookings", screenHandler.GetBookings)
	v1.GET("/screens/:id/availability", availabilityHandler.GetFreeRanges)
	v1.GET("/earnings", earningsHandler.ListByOwner)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバーを起動", zap.String("port", cfg.Server.Port))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
