package config

import (
	"os"
	"testing"
)

func unsetRedisEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_STREAM"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestGetRedisConfig_FromEnvVars(t *testing.T) {
	unsetRedisEnv(t)
	t.Setenv("REDIS_ADDR", "testhost:6380")
	t.Setenv("REDIS_PASSWORD", "testpassword")
	t.Setenv("REDIS_DB", "5")
	t.Setenv("REDIS_STREAM", "test_stream")

	cfg := GetRedisConfig()

	want := RedisConfig{Addr: "testhost:6380", Password: "testpassword", DB: 5, Stream: "test_stream"}
	if cfg != want {
		t.Errorf("GetRedisConfig() = %+v, want %+v", cfg, want)
	}
}

func TestGetRedisConfig_Defaults(t *testing.T) {
	unsetRedisEnv(t)

	cfg := GetRedisConfig()

	want := RedisConfig{Addr: "localhost:6379", Stream: "gsm_forecasts"}
	if cfg != want {
		t.Errorf("GetRedisConfig() = %+v, want %+v", cfg, want)
	}
}

func TestGetRedisConfig_InvalidDB(t *testing.T) {
	unsetRedisEnv(t)
	t.Setenv("REDIS_DB", "invalid")

	cfg := GetRedisConfig()

	if cfg.DB != 0 {
		t.Errorf("GetRedisConfig().DB = %v, want %v (default on parse error)", cfg.DB, 0)
	}
}

func TestRedisSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want RedisConfig
	}{
		{
			name: "file values",
			want: RedisConfig{Addr: "redis:6379", Password: "secret", DB: 2, Stream: "forecasts"},
		},
		{
			name: "env overrides file",
			env:  map[string]string{"REDIS_ADDR": "other:6379", "REDIS_DB": "3"},
			want: RedisConfig{Addr: "other:6379", Password: "secret", DB: 3, Stream: "forecasts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetRedisEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &Config{}
			cfg.Redis.Addr = "redis:6379"
			cfg.Redis.Password = "secret"
			cfg.Redis.DB = 2
			cfg.Redis.Stream = "forecasts"

			if got := cfg.RedisSettings(); got != tt.want {
				t.Errorf("RedisSettings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRedisSettings_EmptySection(t *testing.T) {
	unsetRedisEnv(t)

	got := (&Config{}).RedisSettings()

	if got.Addr != "localhost:6379" || got.Stream != "gsm_forecasts" {
		t.Errorf("RedisSettings() = %+v, want defaults", got)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "env var set",
			key:          "GSM_TEST_KEY",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "env var not set",
			key:          "GSM_TEST_KEY_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}
