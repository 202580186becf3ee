package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Ingestion transport selection values
const (
	IngestSourceKafka = "kafka"
	IngestSourceRedis = "redis"
)

type Config struct {
	AppName                       string `env:"APP_NAME" envDefault:"fern-api"`
	Port                          int    `env:"PORT" envDefault:"3004"`
	Version                       string `env:"VERSION" envDefault:"dev"`
	LogLevel                      string `env:"LOG_LEVEL" envDefault:"info"`
	PrettyLogs                    bool   `env:"PRETTY_LOGS" envDefault:"false"`
	HttpServerWriteTimeoutSeconds int    `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" envDefault:"10"`
	HttpServerReadTimeoutSeconds  int    `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" envDefault:"10"`
	HttpServerIdleTimeoutSeconds  int    `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" envDefault:"10"`
	MaxHeaderBytes                int    `env:"HTTP_SERVER_MAX_HEADER_BYTES" envDefault:"64000"` // 64KB
	StartupMaxAttempts            int    `env:"STARTUP_MAX_ATTEMPTS" envDefault:"5"`

	// Graph Database (Neo4j)
	GraphDBHost     string `env:"GRAPH_DB_HOST" envDefault:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" envDefault:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" envDefault:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" envDefault:""`

	// Ingestion transport: kafka or redis
	IngestSource string `env:"INGEST_SOURCE" envDefault:"kafka"`

	// Kafka Consumer (ingestion)
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaInputTopic    string   `env:"KAFKA_INPUT_TOPIC" envDefault:"corporate-data"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"fern-consumer"`

	// Kafka Producer (audit events)
	KafkaAuditEnabled bool   `env:"KAFKA_AUDIT_ENABLED" envDefault:"true"`
	KafkaAuditTopic   string `env:"KAFKA_AUDIT_TOPIC" envDefault:"ingest-audit"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" envDefault:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" envDefault:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" envDefault:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" envDefault:"snappy"`

	// Redis (alternate ingestion transport)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisChannel  string `env:"REDIS_CHANNEL" envDefault:"corporate-data"`

	// Tracing
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:""`
	OTLPInsecure bool   `env:"OTLP_INSECURE" envDefault:"true"`
}

// New loads configuration from the environment
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.IngestSource != IngestSourceKafka && cfg.IngestSource != IngestSourceRedis {
		return nil, fmt.Errorf("unsupported ingest source %q", cfg.IngestSource)
	}

	return cfg, nil
}
