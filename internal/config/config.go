package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env          string        `yaml:"env"`
	Port         int           `yaml:"port"`
	BaseURL      string        `yaml:"base_url"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type AuthCfg struct {
	JWTSecret  string        `yaml:"jwtSecret"`
	TokenTTL   time.Duration `yaml:"tokenTTL"`
	BcryptCost int           `yaml:"bcryptCost"`
}

type MongoCfg struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisCfg struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type BrevoCfg struct {
	APIKey    string `yaml:"apiKey"`
	FromEmail string `yaml:"fromEmail"`
	FromName  string `yaml:"fromName"`
}

type AvatarCfg struct {
	// Backend is "local" or "s3".
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

type S3Cfg struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type RateLimitCfg struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type Config struct {
	App       AppCfg       `yaml:"app"`
	Auth      AuthCfg      `yaml:"auth"`
	Mongo     MongoCfg     `yaml:"mongo"`
	Redis     RedisCfg     `yaml:"redis"`
	Brevo     BrevoCfg     `yaml:"brevo"`
	Avatar    AvatarCfg    `yaml:"avatar"`
	S3        S3Cfg        `yaml:"s3"`
	RateLimit RateLimitCfg `yaml:"rateLimit"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("BASE_URL", func(v string) { cfg.App.BaseURL = v })
	override("JWT_SECRET", func(v string) { cfg.Auth.JWTSecret = v })
	override("TOKEN_TTL", func(v string) {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = d
		}
	})
	override("BCRYPT_COST", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Auth.BcryptCost = n
		}
	})
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	override("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	override("BREVO_API_KEY", func(v string) { cfg.Brevo.APIKey = v })
	override("BREVO_FROM_EMAIL", func(v string) { cfg.Brevo.FromEmail = v })
	override("BREVO_FROM_NAME", func(v string) { cfg.Brevo.FromName = v })
	override("AVATAR_BACKEND", func(v string) { cfg.Avatar.Backend = v })
	override("AVATAR_DIR", func(v string) { cfg.Avatar.Dir = v })
	override("S3_REGION", func(v string) { cfg.S3.Region = v })
	override("S3_BUCKET", func(v string) { cfg.S3.Bucket = v })

	applyDefaults(cfg)

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.App.BaseURL == "" {
		return nil, errors.New("BASE_URL is required (used to build verification links)")
	}
	if cfg.Avatar.Backend == "s3" && cfg.S3.Bucket == "" {
		return nil, errors.New("S3_BUCKET is required when avatar backend is s3")
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "production"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 3000
	}
	if cfg.App.ReadTimeout == 0 {
		cfg.App.ReadTimeout = 30 * time.Second
	}
	if cfg.App.WriteTimeout == 0 {
		cfg.App.WriteTimeout = 30 * time.Second
	}
	if cfg.App.IdleTimeout == 0 {
		cfg.App.IdleTimeout = time.Minute
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 23 * time.Hour
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "contacts"
	}
	if cfg.Avatar.Backend == "" {
		cfg.Avatar.Backend = "local"
	}
	if cfg.Avatar.Dir == "" {
		cfg.Avatar.Dir = "public/avatars"
	}
	if cfg.RateLimit.Limit == 0 {
		cfg.RateLimit.Limit = 20
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = time.Minute
	}
}
