package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort int
	HTTPPort int

	CatalogPath  string
	OrdersPath   string
	FAQPath      string
	LeadsPath    string
	WellnessPath string
	ConceptsPath string
	FraudDBPath  string

	RedisAddr string

	SessionTTL     time.Duration
	RequestTimeout time.Duration
	QuoteWorkers   int
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		GRPCPort: getEnvInt("GRPC_PORT", 8081),

		CatalogPath:  getEnv("CATALOG_PATH", "data/catalog.json"),
		OrdersPath:   getEnv("ORDERS_PATH", "data/orders.json"),
		FAQPath:      getEnv("FAQ_PATH", "data/faq.json"),
		LeadsPath:    getEnv("LEADS_PATH", "data/leads.json"),
		WellnessPath: getEnv("WELLNESS_PATH", "data/wellness_log.json"),
		ConceptsPath: getEnv("CONCEPTS_PATH", "data/concepts.json"),
		FraudDBPath:  getEnv("FRAUD_DB_PATH", "data/fraud_cases.db"),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		SessionTTL:     getEnvDuration("SESSION_TTL", 30*time.Minute),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		QuoteWorkers:   getEnvInt("QUOTE_WORKERS", 10),
	}
}

// LoadDotenv loads variables from the given env files into the process
// environment. Missing files are skipped; existing variables are not overridden.
func LoadDotenv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
