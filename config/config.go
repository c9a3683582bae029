package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Backend  BackendConfig
	Server   ServerConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Enabled  bool // when false the demo backend keeps orders in memory
}

type TelegramConfig struct {
	Token string
}

// BackendConfig is the client side: where the menu and order endpoints live.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ServerConfig is used only by the `backend` subcommand.
type ServerConfig struct {
	Addr string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	timeoutSec, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT", "10"))

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "qrmenu"),
			Enabled:  boolEnv("DB_ENABLE"),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		Server: ServerConfig{
			Addr: getEnv("ADDR", ":8080"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolEnv(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true" || v == "TRUE"
}
