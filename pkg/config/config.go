package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jwhande57/zimutilityxpress/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logger    logger.Config   `yaml:"logger"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Sessions  SessionConfig   `yaml:"sessions"`
	Security  SecurityConfig  `yaml:"security"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	User            string `yaml:"user"`
	DBName          string `yaml:"name"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

// StorageConfig selects the session store backend. "memory" keeps
// sessions in-process (the browser localStorage analog); "postgres"
// persists them in the configured database.
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// UpstreamConfig points at the ordering backend that serves stock
// checks, order creation and post-payment recharges.
type UpstreamConfig struct {
	BaseURL          string `yaml:"base_url"`
	APIKey           string `yaml:"api_key"`
	Timeout          int    `yaml:"timeout"`
	MaxRetries       int    `yaml:"max_retries"`
	RetryBackoffBase int    `yaml:"retry_backoff_base"`
	OrderEnabled     bool   `yaml:"order_enabled"`
	RechargeEnabled  bool   `yaml:"recharge_enabled"`
}

// GatewayConfig controls how redirect targets are built. When the
// simulator is enabled and ordering is not, checkout redirects to the
// local gateway simulator instead of an external payment link.
type GatewayConfig struct {
	SimulatorEnabled bool   `yaml:"simulator_enabled"`
	ReturnBaseURL    string `yaml:"return_base_url"`
}

type SessionConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

type SecurityConfig struct {
	APIKey string `yaml:"api_key"`
}

type WebSocketConfig struct {
	ReadBufferSize  int  `yaml:"read_buffer_size"`
	WriteBufferSize int  `yaml:"write_buffer_size"`
	CheckOrigin     bool `yaml:"check_origin"`
}

// CatalogConfig declares the purchasable services. An empty list falls
// back to the built-in Zimbabwe catalog.
type CatalogConfig struct {
	Services []ServiceDescriptor `yaml:"services"`
}

// ServiceDescriptor is the declarative definition of one checkout flow:
// which field identifies the customer, how it is validated, and where
// the selectable amounts come from.
type ServiceDescriptor struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	ProductID    int       `yaml:"product_id"`
	TargetField  string    `yaml:"target_field"`
	TargetLabel  string    `yaml:"target_label"`
	Validator    string    `yaml:"validator"`
	AmountSource string    `yaml:"amount_source"`
	Amounts      []float64 `yaml:"amounts"`
	Airtime      bool      `yaml:"airtime"`
	Notification string    `yaml:"notification"`
}

func Load() (*Config, error) {
	// .env is optional outside local development.
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config.yaml"
	}

	var config Config
	configData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Sessions.RetentionDays <= 0 {
		c.Sessions.RetentionDays = 30
	}
	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = 15
	}
	if c.Upstream.MaxRetries < 0 {
		c.Upstream.MaxRetries = 0
	}
	if c.Upstream.RetryBackoffBase <= 0 {
		c.Upstream.RetryBackoffBase = 1
	}
	if c.Gateway.ReturnBaseURL == "" {
		c.Gateway.ReturnBaseURL = "http://" + c.Server.Host + ":" + c.Server.Port
	}
	if c.WebSocket.ReadBufferSize <= 0 {
		c.WebSocket.ReadBufferSize = 1024
	}
	if c.WebSocket.WriteBufferSize <= 0 {
		c.WebSocket.WriteBufferSize = 1024
	}
}
