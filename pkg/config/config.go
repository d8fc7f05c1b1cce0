// Package config loads the application configuration from the environment.
// Components never read the environment themselves; they receive the structs
// defined here at construction.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// MongoConfig configures the ledger store connection.
type MongoConfig struct {
	URI         string        `envconfig:"URI" default:"mongodb://localhost:27017"`
	Database    string        `envconfig:"DATABASE" default:"bank"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"10s"`
	MaxPoolSize uint64        `envconfig:"MAX_POOL_SIZE" default:"100"`
}

// KafkaConfig configures the event bus.
type KafkaConfig struct {
	Brokers []string `envconfig:"BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"TOPIC" default:"martian-bank.events"`
	GroupID string   `envconfig:"GROUP_ID" default:"balance-updater"`
}

// LoanConfig carries the loan business limits.
type LoanConfig struct {
	// MaxAmount is the bank's maximum exposure threshold as a decimal
	// string; loans at or above it are rejected.
	MaxAmount string `envconfig:"MAX_AMOUNT" default:"100000"`
}

// App is the root configuration.
type App struct {
	Env    string       `envconfig:"ENV" default:"development"`
	Server ServerConfig `envconfig:"SERVER"`
	Mongo  MongoConfig  `envconfig:"MONGO"`
	Kafka  KafkaConfig  `envconfig:"KAFKA"`
	Loan   LoanConfig   `envconfig:"LOAN"`
}

// Load reads .env if present, then processes the environment into App.
func Load(logger *slog.Logger) (*App, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("config loaded",
		"env", cfg.Env,
		"mongo_db", cfg.Mongo.Database,
		"kafka_topic", cfg.Kafka.Topic,
		"loan_max_amount", cfg.Loan.MaxAmount,
	)
	return &cfg, nil
}
