package config

import (
	"os"
	"strconv"
)

const (
	defaultRedisAddr   = "localhost:6379"
	defaultRedisStream = "gsm_forecasts"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// GetRedisConfig reads REDIS_* variables over the built-in defaults
func GetRedisConfig() RedisConfig {
	return redisFromEnv(RedisConfig{Addr: defaultRedisAddr, Stream: defaultRedisStream})
}

// RedisSettings starts from the redis section of the file and applies REDIS_* overrides
func (c *Config) RedisSettings() RedisConfig {
	base := RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		Stream:   c.Redis.Stream,
	}
	if base.Addr == "" {
		base.Addr = defaultRedisAddr
	}
	if base.Stream == "" {
		base.Stream = defaultRedisStream
	}
	return redisFromEnv(base)
}

func redisFromEnv(base RedisConfig) RedisConfig {
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			base.DB = parsed
		}
	}

	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", base.Addr),
		Password: getEnv("REDIS_PASSWORD", base.Password),
		DB:       base.DB,
		Stream:   getEnv("REDIS_STREAM", base.Stream),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
