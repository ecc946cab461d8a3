package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		AdminTokenTTL   string `yaml:"admin_token_ttl"`
		SessionTokenTTL string `yaml:"session_token_ttl"`
		AdminUsername   string `yaml:"admin_username"`
		AdminPassword   string `yaml:"admin_password"`
	} `yaml:"auth"`
	Assessment struct {
		TotalQuestions int    `yaml:"total_questions"`
		LockTTL        string `yaml:"lock_ttl"`
		LockWait       string `yaml:"lock_wait"`
		StatsTTL       string `yaml:"stats_ttl"`
	} `yaml:"assessment"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Store string `yaml:"store"`
}

// Load reads YAML config from path when it exists, then applies defaults and
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Mongo.URI = getEnv("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.Database = getEnv("MONGO_DB", cfg.Mongo.Database)
	cfg.Redis.Addr = getEnv("REDIS_URI", cfg.Redis.Addr)
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.AdminUsername = getEnv("ADMIN_USERNAME", cfg.Auth.AdminUsername)
	cfg.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.Auth.AdminPassword)
	cfg.Store = getEnv("STORE", cfg.Store)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("TOTAL_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Assessment.TotalQuestions = n
		}
	}

	// Remove redis:// prefix if present
	cfg.Redis.Addr = strings.TrimPrefix(cfg.Redis.Addr, "redis://")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "dcas"
	}
	if cfg.Auth.AdminUsername == "" {
		cfg.Auth.AdminUsername = "admin"
	}
	if cfg.Assessment.TotalQuestions <= 0 {
		cfg.Assessment.TotalQuestions = 30
	}
	if cfg.Store == "" {
		cfg.Store = StoreMongo
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
