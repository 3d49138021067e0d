// Package config loads the optimizer's runtime configuration from
// environment variables, with a plain getEnv-with-default style and
// optional .env loading via godotenv.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates every environment-derived setting the optimizer
// needs to run.
type Config struct {
	ServiceName string
	ServerPort  string

	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	KafkaTopic   string

	Oracle OracleConfig
	Solver SolverConfig

	LogLevel  string
	LogFormat string
}

// OracleConfig configures the road-network oracle client.
type OracleConfig struct {
	BaseURL        string
	TimeoutSeconds int
	CacheTTL       time.Duration
}

// SolverConfig configures the assignment/routing pipeline.
type SolverConfig struct {
	// Name selects which assignment.Solver the factory builds:
	// "branch_and_bound", "clustered_greedy", "multi_criteria_greedy",
	// or "zone_seeded_greedy".
	Name string

	Seed int64

	KMeansMaxIterations int

	BranchAndBoundDeadline time.Duration

	GAPopulationSize   int
	GAGenerations      int
	GAMutationRate     float64
	GAElitismCount      int

	StationCatalogPath string

	WorkdayStartMinutes int
	WorkdayEndMinutes   int
}

// Load reads configuration from the process environment, first
// attempting to populate it from a ".env" file if one is present
// (a no-op, not a fatal error, when absent).
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "optimization-service"),
		ServerPort:  getEnv("SERVER_PORT", "8090"),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost/optimization?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "optimization.events"),

		Oracle: OracleConfig{
			BaseURL:        getEnv("ORACLE_BASE_URL", "http://localhost:5000"),
			TimeoutSeconds: getEnvInt("ORACLE_TIMEOUT_SECONDS", 15),
			CacheTTL:       getEnvDuration("ORACLE_CACHE_TTL", 5*time.Minute),
		},

		Solver: SolverConfig{
			Name:                   getEnv("SOLVER_NAME", "clustered_greedy"),
			Seed:                   int64(getEnvInt("SOLVER_SEED", 42)),
			KMeansMaxIterations:    getEnvInt("KMEANS_MAX_ITERATIONS", 100),
			BranchAndBoundDeadline: getEnvDuration("BNB_DEADLINE", 10*time.Second),
			GAPopulationSize:       getEnvInt("GA_POPULATION_SIZE", 60),
			GAGenerations:          getEnvInt("GA_GENERATIONS", 150),
			GAMutationRate:         getEnvFloat("GA_MUTATION_RATE", 0.08),
			GAElitismCount:         getEnvInt("GA_ELITISM_COUNT", 4),
			StationCatalogPath:     getEnv("STATION_CATALOG_PATH", "config/recharge_stations.json"),
			WorkdayStartMinutes:    getEnvInt("WORKDAY_START_MINUTES", 8*60),
			WorkdayEndMinutes:      getEnvInt("WORKDAY_END_MINUTES", 18*60),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
