package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Queue    QueueConfig
	API      APIConfig
	Mock     MockConfig
	Worker   WorkerConfig
}

// StoreConfig selects where providers and orders live
type StoreConfig struct {
	Backend      string
	FixturesPath string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// QueueConfig holds queue configuration (Redis). An empty URL disables the queue.
type QueueConfig struct {
	RedisURL  string
	QueueName string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// MockConfig holds the artificial latency of the mock API
type MockConfig struct {
	FetchDelay  time.Duration
	SubmitDelay time.Duration
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	Concurrency int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	workerConcurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	fetchDelay, err := time.ParseDuration(getEnv("FETCH_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_DELAY: %w", err)
	}

	submitDelay, err := time.ParseDuration(getEnv("SUBMIT_DELAY", "1500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUBMIT_DELAY: %w", err)
	}

	backend := getEnv("STORE_BACKEND", StoreMemory)
	if backend != StoreMemory && backend != StorePostgres {
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q (must be %q or %q)", backend, StoreMemory, StorePostgres)
	}

	return &Config{
		Store: StoreConfig{
			Backend:      backend,
			FixturesPath: os.Getenv("FIXTURES_PATH"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "print_connect"),
			Password: getEnv("DB_PASSWORD", "print_connect"),
			DBName:   getEnv("DB_NAME", "print_connect"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Queue: QueueConfig{
			RedisURL:  os.Getenv("REDIS_URL"),
			QueueName: getEnv("QUEUE_NAME", "order_notifications"),
		},
		API: APIConfig{
			Port: apiPort,
		},
		Mock: MockConfig{
			FetchDelay:  fetchDelay,
			SubmitDelay: submitDelay,
		},
		Worker: WorkerConfig{
			Concurrency: workerConcurrency,
		},
	}, nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// QueueEnabled reports whether a Redis queue is configured
func (c *Config) QueueEnabled() bool {
	return c.Queue.RedisURL != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
