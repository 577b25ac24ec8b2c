package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
// A size of zero dispatches notifications inline after the request is saved.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig selects and configures the push notification provider.
type PushConfig struct {
	Provider           string `yaml:"provider"` // fcm, webpush or none
	FCMCredentialsPath string `yaml:"fcm_credentials_path"`
	PublicKey          string `yaml:"vapid_public_key"`
	PrivateKey         string `yaml:"vapid_private_key"`
	Subject            string `yaml:"subject"`
	TTL                int    `yaml:"ttl"`
	MulticastBatchSize int    `yaml:"multicast_batch_size"`
}

// AuthConfig selects how bearer tokens are verified.
type AuthConfig struct {
	Provider                string `yaml:"provider"` // firebase or jwt
	FirebaseCredentialsPath string `yaml:"firebase_credentials_path"`
	JWTSecret               string `yaml:"jwt_secret"`
	JWTIssuer               string `yaml:"jwt_issuer"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogQueries             bool   `yaml:"log_queries"`
}

// TelemetryConfig configures OTLP trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	switch cfg.Database.Driver {
	case "":
		cfg.Database.Driver = "postgres"
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database.driver %q", cfg.Database.Driver)
	}

	switch cfg.Auth.Provider {
	case "":
		cfg.Auth.Provider = "firebase"
	case "firebase", "jwt":
	default:
		return fmt.Errorf("unknown auth.provider %q", cfg.Auth.Provider)
	}
	if cfg.Auth.Provider == "jwt" && cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth.provider is jwt")
	}

	switch cfg.Push.Provider {
	case "":
		cfg.Push.Provider = "none"
	case "fcm", "webpush", "none":
	default:
		return fmt.Errorf("unknown push.provider %q", cfg.Push.Provider)
	}
	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.Push.MulticastBatchSize <= 0 || cfg.Push.MulticastBatchSize > 500 {
		cfg.Push.MulticastBatchSize = 500
	}

	if cfg.WorkerPool.Size < 0 {
		log.Printf("worker_pool.size is invalid; defaulting to 0 (inline dispatch)")
		cfg.WorkerPool.Size = 0
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "concierge-backend"
	}
	return nil
}
