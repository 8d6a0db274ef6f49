package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/database"
	"github.com/fekuna/omnipos-inventory-service/internal/httpserver"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/lock"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/memstore"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/seed"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier"
	"github.com/fekuna/omnipos-inventory-service/internal/transport"

	invH "github.com/fekuna/omnipos-inventory-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/usecase"

	orderH "github.com/fekuna/omnipos-inventory-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-inventory-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-inventory-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-inventory-service/internal/product/usecase"

	supH "github.com/fekuna/omnipos-inventory-service/internal/supplier/handler"
	supRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/supplier/repository"
	supUCPkg "github.com/fekuna/omnipos-inventory-service/internal/supplier/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type repositories struct {
	products  product.Repository
	suppliers supplier.Repository
	inventory inventory.Repository
	orders    order.Repository
	tx        database.Transactor
	close     func()
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Initialize Storage
	repos := openStorage(cfg, appLogger)
	defer repos.close()

	// 4. Initialize Locker
	locker := newLocker(cfg, appLogger)

	// 5. Initialize UseCases
	invUC := invUCPkg.NewInventoryUseCase(repos.inventory, repos.products, repos.tx, locker, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(repos.products, repos.inventory, invUC, repos.tx, locker, appLogger)
	supUC := supUCPkg.NewSupplierUseCase(repos.suppliers, repos.orders, repos.tx, locker, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(repos.orders, repos.suppliers, repos.products, invUC, repos.tx, locker, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Storage.SeedSampleData {
		seedCtx, seedCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := seed.SampleData(seedCtx, supUC, prodUC, appLogger); err != nil {
			appLogger.Error("Failed to insert sample data", zap.Error(err))
		}
		seedCancel()
	}

	// 6. Initialize Listener
	if cfg.Kafka.Enabled {
		reader := invListenerPkg.NewKafkaReader(&cfg.Kafka)
		defer reader.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		receiving := invListenerPkg.NewReceivingListener(reader, orderUC, invUC, appLogger)
		go receiving.Start(ctx)
	}

	// 7. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(transport.UnaryInterceptor(appLogger, cfg.Storage.OpTimeout)),
	)

	// Register Services
	prodH.NewProductHandler(prodUC, invUC, appLogger).Register(grpcServer)
	supH.NewSupplierHandler(supUC, appLogger).Register(grpcServer)
	invH.NewInventoryHandler(invUC, appLogger).Register(grpcServer)
	orderH.NewOrderHandler(orderUC, appLogger).Register(grpcServer)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 8. Start HTTP Server
	app := httpserver.New(appLogger)
	invH.NewReportHTTPHandler(invUC).Register(app)

	appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort))
	go func() {
		if err := app.Listen(cfg.Server.HTTPPort); err != nil {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	healthServer.Shutdown()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		appLogger.Warn("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func openStorage(cfg *config.Config, log logger.ZapLogger) *repositories {
	if cfg.Storage.Backend == "memory" {
		store := memstore.New()
		log.Warn("Using in-memory storage, data is lost on restart")
		return &repositories{
			products:  store.Products(),
			suppliers: store.Suppliers(),
			inventory: store.Inventory(),
			orders:    store.Orders(),
			tx:        store,
			close:     func() {},
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Could not connect to database", zap.Error(err))
	}
	log.Info("Connected to database", zap.String("driver", db.DriverName()), zap.String("db_name", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatal("Could not create schema", zap.Error(err))
		}
	}

	return &repositories{
		products:  prodRepoPkg.NewSQLRepository(db),
		suppliers: supRepoPkg.NewSQLRepository(db),
		inventory: invRepoPkg.NewSQLRepository(db),
		orders:    orderRepoPkg.NewSQLRepository(db),
		tx:        database.NewTransactor(db),
		close:     func() { db.Close() },
	}
}

func newLocker(cfg *config.Config, log logger.ZapLogger) lock.Locker {
	if cfg.Lock.Backend != "redis" {
		return lock.NewLocalLocker(cfg.Lock.Wait)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Could not connect to Redis", zap.Error(err))
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	return lock.NewRedisLocker(client, cfg.Lock.TTL, cfg.Lock.Wait, cfg.Lock.RetryDelay, log)
}
