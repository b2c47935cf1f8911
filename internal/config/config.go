package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	MongoURI     string
	MongoDB      string
	RedisAddress string
	NATSURL      string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	IdentityBaseURL    string
	IdentityDeleteURL  string
	IdentityServiceKey string
	SessionSecret      string

	OpenCageAPIKey string

	OTLPEndpoint string
}

func Load() (*Config, error) {
	// .env is optional; environment variables are the source of truth.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	useSSL, err := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	if err != nil {
		useSSL = false
	}

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "automarket"),
		RedisAddress: getEnv("REDIS_ADDRESS", "localhost:6379"),
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "car-images"),
		MinIOUseSSL:    useSSL,

		IdentityBaseURL:    getEnv("IDENTITY_BASE_URL", "http://localhost:9999/auth/v1"),
		IdentityDeleteURL:  getEnv("IDENTITY_DELETE_URL", "http://localhost:9999/functions/v1/delete-user"),
		IdentityServiceKey: os.Getenv("IDENTITY_SERVICE_KEY"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),

		OpenCageAPIKey: os.Getenv("OPENCAGE_API_KEY"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}
	if cfg.IdentityServiceKey == "" {
		return nil, fmt.Errorf("IDENTITY_SERVICE_KEY is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
