package config

import (
	"fmt"
	"os"
)

// Config holds all configuration for the application. It is built once at
// startup and passed by reference to every component that needs it.
type Config struct {
	Port        string
	Origin      string
	Environment string

	Database      DatabaseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Elasticsearch ElasticsearchConfig

	SentryDSN string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// RedisConfig holds cache connection details; empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
}

// KafkaConfig holds event stream details; empty Broker disables events.
type KafkaConfig struct {
	Broker  string
	GroupID string
}

// ElasticsearchConfig holds search indexing details; empty URL disables it.
type ElasticsearchConfig struct {
	URL string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Username: getEnv("DB_USERNAME", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
	}

	// Build DSN for the PostgreSQL connection
	dbConfig.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host, dbConfig.Username, dbConfig.Password, dbConfig.Name, dbConfig.Port,
		getEnv("DB_SSLMODE", "disable"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Origin:      getEnv("ORIGIN", "http://localhost:5173"),
		Environment: getEnv("APP_ENV", "development"),
		Database:    dbConfig,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Broker:  getEnv("KAFKA_BROKER", ""),
			GroupID: getEnv("KAFKA_GROUP_ID", "clinic-indexer"),
		},
		Elasticsearch: ElasticsearchConfig{
			URL: getEnv("ELASTICSEARCH_URL", ""),
		},
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
