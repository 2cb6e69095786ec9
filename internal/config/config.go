package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"goldwatch/internal/quote"
)

type Config struct {
	Addr          string
	Interval      time.Duration
	HistoryCap    int
	LogDir        string
	VendorTimeout time.Duration
	LogLevel      string

	Sources []quote.Source

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresDSN string
}

// Load reads configuration from the environment (after loading .env if
// present). Empty Redis/Postgres settings leave those components off.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getEnv("ADDR", ":8080"),
		Interval:      getDuration("POLL_INTERVAL", 15*time.Second),
		HistoryCap:    getInt("HISTORY_CAPACITY", 240),
		LogDir:        getEnv("LOG_DIR", "log"),
		VendorTimeout: getDuration("VENDOR_TIMEOUT", 10*time.Second),
		LogLevel:      getEnv("LOG_LVL", "info"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
	}

	cfg.Sources = []quote.Source{
		{
			ID:   "zs",
			Name: "Zheshang",
			URL:  getEnv("ZS_URL", "https://api.jdjygold.com/gw2/generic/jrm/h5/m/stdLatestPrice?productSku=1961543816"),
		},
		{
			ID:   "ms",
			Name: "Minsheng",
			URL:  getEnv("MS_URL", "https://api.jdjygold.com/gw/generic/hj/h5/m/latestPrice"),
		},
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
