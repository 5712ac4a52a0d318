package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// SampleToken is the public demo credential of the GSM API
	SampleToken = "api_sample"

	defaultBaseURL = "https://weather.ittools.biz/api/forecast/GSM"
	defaultTimeout = 30 * time.Second
	defaultHours   = 24
	defaultAddr    = ":8080"
)

type Location struct {
	Name      string  `yaml:"name" json:"name"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
}

var (
	instance *Config
	once     sync.Once
)

// Config holds settings shared by the binaries
type Config struct {
	Forecast struct {
		BaseURL   string        `yaml:"base_url"`
		APIToken  string        `yaml:"api_token"`
		Timeout   time.Duration `yaml:"timeout"`
		Hours     int           `yaml:"hours"`
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"forecast"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Stream   string `yaml:"stream"`
	} `yaml:"redis"`
	Locations []Location `yaml:"locations"`
}

func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file %s: %w", configPath, readErr)
			return
		}

		if parseErr := yaml.Unmarshal(data, instance); parseErr != nil {
			err = fmt.Errorf("failed to parse config: %w", parseErr)
			return
		}

		instance.applyDefaults()

		if validateErr := instance.validate(); validateErr != nil {
			err = validateErr
			return
		}
	})

	return instance, err
}

func Get() *Config {
	if instance == nil {
		panic("config not loaded - call config.Load() first")
	}
	return instance
}

func (c *Config) applyDefaults() {
	if c.Forecast.BaseURL == "" {
		c.Forecast.BaseURL = defaultBaseURL
	}
	if c.Forecast.Timeout == 0 {
		c.Forecast.Timeout = defaultTimeout
	}
	if c.Forecast.Hours == 0 {
		c.Forecast.Hours = defaultHours
	}
	if c.Forecast.RateLimit.RPS == 0 {
		c.Forecast.RateLimit.RPS = 1
	}
	if c.Forecast.RateLimit.Burst == 0 {
		c.Forecast.RateLimit.Burst = 5
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
}

func (c *Config) validate() error {
	if c.Forecast.Hours < 0 {
		return fmt.Errorf("forecast.hours must be positive, got %d", c.Forecast.Hours)
	}
	if c.Forecast.Timeout < 0 {
		return fmt.Errorf("forecast.timeout must be positive, got %v", c.Forecast.Timeout)
	}
	if c.Forecast.RateLimit.RPS < 0 || c.Forecast.RateLimit.Burst < 0 {
		return fmt.Errorf("forecast.rate_limit values must be positive")
	}
	seen := make(map[string]bool, len(c.Locations))
	for _, loc := range c.Locations {
		if loc.Name == "" {
			return fmt.Errorf("locations: entry at %.4f,%.4f has no name", loc.Latitude, loc.Longitude)
		}
		if seen[loc.Name] {
			return fmt.Errorf("locations: duplicate name %q", loc.Name)
		}
		seen[loc.Name] = true
	}
	return nil
}

// APIToken returns WEATHER_API_TOKEN if set, then the configured token, then SampleToken
func (c *Config) APIToken() string {
	if token := os.Getenv("WEATHER_API_TOKEN"); token != "" {
		return token
	}
	if c.Forecast.APIToken != "" {
		return c.Forecast.APIToken
	}
	return SampleToken
}
