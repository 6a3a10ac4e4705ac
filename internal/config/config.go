package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"snake_arena/internal/logger"
)

type Config struct {
	AppPort       string
	AllowedOrigin string
	LogLevel      string
	LogFormat     string

	RedisAddr     string
	RedisPassword string

	// параметры симуляции
	GridWidth   int // пиксели
	GridHeight  int
	BlockSize   int
	TickRate    int // Гц, скорость игры
	BroadcastMS int // период рассылки снапшотов, мс
}

// Load читает .env (если есть) и переменные окружения с дефолтами
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("config: .env не найден, используем окружение")
	}

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		GridWidth:     getEnvInt("GRID_WIDTH", 800),
		GridHeight:    getEnvInt("GRID_HEIGHT", 600),
		BlockSize:     getEnvInt("BLOCK_SIZE", 20),
		TickRate:      getEnvInt("TICK_RATE", 15),
		BroadcastMS:   getEnvInt("BROADCAST_MS", 33),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logger.Warn("config: неверное значение, используем дефолт", "key", key, "value", v)
		return fallback
	}
	return n
}
