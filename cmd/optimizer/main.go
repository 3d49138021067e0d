package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/saan-system/services/optimization/internal/assignment"
	"github.com/saan-system/services/optimization/internal/constraints"
	"github.com/saan-system/services/optimization/internal/domain/repository"
	"github.com/saan-system/services/optimization/internal/infrastructure/cache"
	"github.com/saan-system/services/optimization/internal/infrastructure/database"
	"github.com/saan-system/services/optimization/internal/infrastructure/events"
	"github.com/saan-system/services/optimization/internal/oracle"
	"github.com/saan-system/services/optimization/internal/orchestrator"
	"github.com/saan-system/services/optimization/internal/platform/config"
	"github.com/saan-system/services/optimization/internal/platform/diagnostics"
	"github.com/saan-system/services/optimization/internal/platform/logger"
	"github.com/saan-system/services/optimization/internal/platform/metrics"
	transporthttp "github.com/saan-system/services/optimization/internal/transport/http"
	"github.com/saan-system/services/optimization/internal/transport/http/handler"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize infrastructure
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	redisCache, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	eventPublisher := events.NewEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName)
	defer func() {
		if err := eventPublisher.Close(); err != nil {
			log.Errorf("failed to close kafka writer: %v", err)
		}
	}()

	oracleClient := oracle.NewClient(cfg.Oracle.BaseURL, time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second, log)
	cachingOracle := oracle.NewCachingClient(oracleClient, redisCache, cfg.Oracle.CacheTTL, log)

	// Initialize repositories
	courierRepo := database.NewCourierRepository(db)
	orderRepo := database.NewOrderRepository(db)
	stationRepo, err := loadStationRepository(cfg, db)
	if err != nil {
		log.Fatalf("failed to load recharge station catalog: %v", err)
	}

	metricsInstance := metrics.InitMetrics("optimizer", "")
	metricsInstance.SetServiceInfo("1.0.0", cfg.ServiceName)

	validator := constraints.NewValidator(constraints.NewWeatherValidator(constraints.NewRandomSource(cfg.Solver.Seed)))
	slot := diagnostics.Default()

	solverCfg := assignment.DefaultConfig()
	solverCfg.Seed = cfg.Solver.Seed
	solverCfg.KMeansMaxIterations = cfg.Solver.KMeansMaxIterations
	solverCfg.BranchAndBoundDeadline = cfg.Solver.BranchAndBoundDeadline

	orchCfg := orchestrator.DefaultConfig()
	orchCfg.SolverName = cfg.Solver.Name
	orchCfg.AssignmentConfig = solverCfg
	orchCfg.GAConfig.PopulationSize = cfg.Solver.GAPopulationSize
	orchCfg.GAConfig.Generations = cfg.Solver.GAGenerations
	orchCfg.GAConfig.MutationRate = cfg.Solver.GAMutationRate
	if cfg.Solver.GAPopulationSize > 0 {
		orchCfg.GAConfig.EliteRatio = float64(cfg.Solver.GAElitismCount) / float64(cfg.Solver.GAPopulationSize)
	}

	optimizer := orchestrator.NewOptimizer(
		courierRepo,
		orderRepo,
		stationRepo,
		cachingOracle,
		eventPublisher,
		slot,
		validator,
		metricsInstance,
		log,
		orchCfg,
	)

	checks := map[string]handler.Checker{
		"database": func(ctx context.Context) error { return db.PingContext(ctx) },
		"redis":    func(ctx context.Context) error { return redisCache.Health(ctx) },
		"kafka":    func(ctx context.Context) error { return eventPublisher.Health(ctx) },
	}

	server := transporthttp.NewServer(cfg.ServerPort, optimizer, slot, checks, log)

	go func() {
		log.Infof("optimization service starting on port %s", cfg.ServerPort)
		if err := server.Start(); err != nil {
			log.Errorf("http server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down optimization service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Errorf("failed to gracefully shutdown server: %v", err)
	}

	log.Info("optimization service stopped")
}

// loadStationRepository prefers a JSON-file catalog when
// STATION_CATALOG_PATH points at an existing file, falling back to the
// database table otherwise.
func loadStationRepository(cfg *config.Config, db *sqlx.DB) (repository.RechargeStationRepository, error) {
	if cfg.Solver.StationCatalogPath != "" {
		if _, err := os.Stat(cfg.Solver.StationCatalogPath); err == nil {
			return database.NewJSONRechargeStationRepository(cfg.Solver.StationCatalogPath)
		}
	}
	return database.NewRechargeStationRepository(db), nil
}
