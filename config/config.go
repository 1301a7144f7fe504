package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Store    StoreConfig
	Report   ReportConfig
	Export   ExportConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	LogFormat   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StoreConfig selects the live backend and the policies applied on top of it.
type StoreConfig struct {
	Mode            string // SQL, NO_SQL, not_initialized
	SequenceBackend string // mongo, redis
	StockPolicy     string // reject, backorder
}

type ReportConfig struct {
	SpendThreshold decimal.Decimal
}

// ExportConfig drives the scheduled report export. An empty Cron disables it; exports go
// to S3 when a bucket is set and to Dir otherwise.
type ExportConfig struct {
	Cron string
	Dir  string
	S3   S3Config
}

type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	threshold, err := decimal.NewFromString(getEnv("REPORT_SPEND_THRESHOLD", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_SPEND_THRESHOLD: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "shop"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			Database: getEnv("MONGO_DB", "mongo_db"),
			Timeout:  parseDuration(getEnv("MONGO_TIMEOUT", "10s"), 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Store: StoreConfig{
			Mode:            getEnv("STORE_MODE", "SQL"),
			SequenceBackend: strings.ToLower(getEnv("SEQUENCE_BACKEND", "mongo")),
			StockPolicy:     strings.ToLower(getEnv("ORDER_STOCK_POLICY", "reject")),
		},
		Report: ReportConfig{
			SpendThreshold: threshold,
		},
		Export: ExportConfig{
			Cron: getEnv("REPORT_EXPORT_CRON", ""),
			Dir:  getEnv("REPORT_EXPORT_DIR", "exports"),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", "us-east-1"),
				Bucket:          getEnv("AWS_S3_BUCKET", ""),
				Prefix:          getEnv("AWS_S3_PREFIX", "reports"),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects values the composition root cannot act on.
func (c *Config) Validate() error {
	switch c.Store.Mode {
	case "SQL", "NO_SQL", "not_initialized":
	default:
		return fmt.Errorf("invalid STORE_MODE %q", c.Store.Mode)
	}
	switch c.Store.SequenceBackend {
	case "mongo", "redis":
	default:
		return fmt.Errorf("invalid SEQUENCE_BACKEND %q", c.Store.SequenceBackend)
	}
	switch c.Store.StockPolicy {
	case "reject", "backorder":
	default:
		return fmt.Errorf("invalid ORDER_STOCK_POLICY %q", c.Store.StockPolicy)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
