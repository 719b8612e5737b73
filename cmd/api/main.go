package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/baskoro/barpos-inventory-service/config"
	"github.com/baskoro/barpos-inventory-service/internal/auth"
	"github.com/baskoro/barpos-inventory-service/internal/cache"
	"github.com/baskoro/barpos-inventory-service/internal/database"
	"github.com/baskoro/barpos-inventory-service/internal/events"
	"github.com/baskoro/barpos-inventory-service/internal/logger"

	itemH "github.com/baskoro/barpos-inventory-service/internal/item/handler"
	itemRepoPkg "github.com/baskoro/barpos-inventory-service/internal/item/repository"
	itemUCPkg "github.com/baskoro/barpos-inventory-service/internal/item/usecase"

	locH "github.com/baskoro/barpos-inventory-service/internal/location/handler"
	locRepoPkg "github.com/baskoro/barpos-inventory-service/internal/location/repository"
	locUCPkg "github.com/baskoro/barpos-inventory-service/internal/location/usecase"

	stockH "github.com/baskoro/barpos-inventory-service/internal/stock/handler"
	stockRepoPkg "github.com/baskoro/barpos-inventory-service/internal/stock/repository"
	stockUCPkg "github.com/baskoro/barpos-inventory-service/internal/stock/usecase"

	transferH "github.com/baskoro/barpos-inventory-service/internal/transfer/handler"
	transferRepoPkg "github.com/baskoro/barpos-inventory-service/internal/transfer/repository"
	transferUCPkg "github.com/baskoro/barpos-inventory-service/internal/transfer/usecase"

	orderH "github.com/baskoro/barpos-inventory-service/internal/order/handler"
	orderListenerPkg "github.com/baskoro/barpos-inventory-service/internal/order/listener"
	orderUCPkg "github.com/baskoro/barpos-inventory-service/internal/order/usecase"

	"github.com/baskoro/barpos-inventory-service/internal/api"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.New(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.Connect(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		SQLitePath:      cfg.Database.SQLitePath,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if err := database.Migrate(db); err != nil {
		appLogger.Fatal("Could not apply migrations", zap.Error(err))
	}

	// 4. Initialize Cache
	var stockCache cache.StockCache = cache.NopStockCache{}
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisStockCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Could not connect to Redis, stock reads go uncached", zap.Error(err))
		} else {
			defer redisCache.Close()
			stockCache = redisCache
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5. Initialize Event Publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic, appLogger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		appLogger.Info("Kafka publisher ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.EventsTopic))
	}

	// 6. Initialize Repositories
	itemRepo := itemRepoPkg.NewPGRepository(db)
	locRepo := locRepoPkg.NewPGRepository(db)
	stockRepo := stockRepoPkg.NewPGRepository(db)
	transferRepo := transferRepoPkg.NewPGRepository(db)

	// 7. Initialize UseCases
	itemUC := itemUCPkg.NewItemUseCase(itemRepo, appLogger)
	locUC := locUCPkg.NewLocationUseCase(locRepo, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, itemRepo, locRepo, stockCache, publisher, appLogger)
	transferUC := transferUCPkg.NewTransferUseCase(db, transferRepo, stockRepo, itemRepo, locRepo, stockCache, publisher, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(db, stockRepo, itemRepo, locRepo, stockCache, publisher, appLogger)

	// 8. Start Order Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled {
		orderListener := orderListenerPkg.NewOrderListener(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, cfg.Kafka.OrdersGroup, orderUC, appLogger)
		defer orderListener.Close()
		go orderListener.Start(ctx)
	}

	// 9. Build Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	itemH.NewItemHandler(itemUC, appLogger).RegisterRoutes(r)
	locH.NewLocationHandler(locUC, appLogger).RegisterRoutes(r)
	stockH.NewStockHandler(stockUC, appLogger).RegisterRoutes(r)
	transferH.NewTransferHandler(transferUC, appLogger).RegisterRoutes(r)
	orderH.NewOrderHandler(orderUC, appLogger).RegisterRoutes(r)

	// 10. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	server := &http.Server{
		Addr:         port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
