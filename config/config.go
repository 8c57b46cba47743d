package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopstock/internal/database"
)

type Config struct {
	Port  string
	Env   string
	DB    database.Config
	JWT   JWT
	Redis Redis
	Kafka Kafka
}

type JWT struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessExp  time.Duration
	RefreshExp time.Duration
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type Kafka struct {
	Enabled bool
	Brokers []string
	Topic   string
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnvDefault("APP_PORT", "8080"),
		Env:  getEnvDefault("ENV", "production"),
		DB: database.Config{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnvDefault("DB_PORT", "5432"),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnvDefault("DB_SSLMODE", "disable"),
		},
		JWT: JWT{
			Secret:     getEnv("JWT_SECRET", log),
			Issuer:     getEnvDefault("JWT_ISSUER", "shopstock"),
			Audience:   getEnvDefault("JWT_AUDIENCE", "shopstock-api"),
			AccessExp:  parseDuration(getEnvDefault("ACCESS_EXP", "15m"), 15*time.Minute),
			RefreshExp: parseDuration(getEnvDefault("REFRESH_EXP", "720h"), 720*time.Hour),
		},
		Redis: Redis{
			Enabled:  getEnvDefault("REDIS_ENABLED", "false") == "true",
			Addr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvDefault("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnvDefault("REDIS_DB", "0")),
		},
		Kafka: Kafka{
			Enabled: getEnvDefault("KAFKA_ENABLED", "false") == "true",
			Brokers: splitList(getEnvDefault("KAFKA_BROKERS", "")),
			Topic:   getEnvDefault("KAFKA_ORDERS_TOPIC", "orders.events"),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
