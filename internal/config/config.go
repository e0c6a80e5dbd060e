package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

// ScoringConfig carries the engine's tunables. The lookback is a deployment
// constant, not per-call state.
type ScoringConfig struct {
	LookbackDays int `yaml:"lookback_days"`
	DefaultLimit int `yaml:"default_limit"`

	Maxima      FactorMaxima       `yaml:"maxima"`
	Multipliers UrgencyMultipliers `yaml:"urgency_multipliers"`
}

// FactorMaxima caps each of the six sub-scores before priority adjustment.
type FactorMaxima struct {
	Rating         float64 `yaml:"rating"`
	Availability   float64 `yaml:"availability"`
	Specialization float64 `yaml:"specialization"`
	Workload       float64 `yaml:"workload"`
	Performance    float64 `yaml:"performance"`
	Responsiveness float64 `yaml:"responsiveness"`
}

// UrgencyMultipliers scale the availability and responsiveness sub-scores for
// time-sensitive requests. Medium and low always run at 1.0.
type UrgencyMultipliers struct {
	Urgent float64 `yaml:"urgent"`
	High   float64 `yaml:"high"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Sum returns the maximum achievable base total.
func (m FactorMaxima) Sum() float64 {
	return m.Rating + m.Availability + m.Specialization +
		m.Workload + m.Performance + m.Responsiveness
}

func (c ScoringConfig) Validate() error {
	if c.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive, got %d", c.LookbackDays)
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	for name, v := range map[string]float64{
		"rating":         c.Maxima.Rating,
		"availability":   c.Maxima.Availability,
		"specialization": c.Maxima.Specialization,
		"workload":       c.Maxima.Workload,
		"performance":    c.Maxima.Performance,
		"responsiveness": c.Maxima.Responsiveness,
	} {
		if v <= 0 {
			return fmt.Errorf("maxima.%s must be positive, got %f", name, v)
		}
	}
	if c.Multipliers.Urgent < 1.0 || c.Multipliers.High < 1.0 {
		return fmt.Errorf("urgency multipliers must be >= 1.0")
	}
	if c.Multipliers.High > c.Multipliers.Urgent {
		return fmt.Errorf("high multiplier %.2f exceeds urgent multiplier %.2f",
			c.Multipliers.High, c.Multipliers.Urgent)
	}
	return nil
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Scoring: ScoringConfig{
			LookbackDays: 90,
			DefaultLimit: 5,
			Maxima: FactorMaxima{
				Rating:         25,
				Availability:   20,
				Specialization: 15,
				Workload:       15,
				Performance:    15,
				Responsiveness: 10,
			},
			Multipliers: UrgencyMultipliers{
				Urgent: 1.5,
				High:   1.2,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VENDORMATCH_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("VENDORMATCH_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("VENDORMATCH_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("VENDORMATCH_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("VENDORMATCH_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("VENDORMATCH_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.LookbackDays = n
		}
	}
	if v := os.Getenv("VENDORMATCH_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.DefaultLimit = n
		}
	}
	if v := os.Getenv("VENDORMATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
