package config

import "time"

// Config is the full configuration of the checkout services.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Payments  PaymentsConfig  `yaml:"payments" mapstructure:"payments"`
	Inventory InventoryConfig `yaml:"inventory" mapstructure:"inventory"`
	Sandbox   SandboxConfig   `yaml:"sandbox" mapstructure:"sandbox"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// HTTPConfig configures the public HTTP listener
type HTTPConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// DatabaseConfig points at the SQLite database holding orders and stock
type DatabaseConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// RedisConfig enables the shared Redis store. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

// PaymentsConfig configures the payment providers
type PaymentsConfig struct {
	Currency        string         `yaml:"currency" mapstructure:"currency"`
	DefaultProvider string         `yaml:"default_provider" mapstructure:"default_provider"`
	ProviderTimeout time.Duration  `yaml:"provider_timeout" mapstructure:"provider_timeout"`
	Card            ProviderConfig `yaml:"card" mapstructure:"card"`
	Wallet          ProviderConfig `yaml:"wallet" mapstructure:"wallet"`
}

// ProviderConfig configures one processor. An empty BaseURL leaves the
// provider unconfigured.
type ProviderConfig struct {
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	APIKey        string `yaml:"api_key" mapstructure:"api_key"`
	WebhookSecret string `yaml:"webhook_secret" mapstructure:"webhook_secret"`
	Simulated     bool   `yaml:"simulated" mapstructure:"simulated"`
}

// InventoryConfig selects the stock backend. With an empty GRPCAddr stock is
// reserved directly in the order database.
type InventoryConfig struct {
	GRPCAddr   string `yaml:"grpc_addr" mapstructure:"grpc_addr"`
	ListenAddr string `yaml:"listen_addr" mapstructure:"listen_addr"`
}

// SandboxConfig configures the local processor sandbox binary.
type SandboxConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

type CacheConfig struct {
	OrderTTL time.Duration `yaml:"order_ttl" mapstructure:"order_ttl"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" mapstructure:"rps"`
	Burst int     `yaml:"burst" mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TelemetryConfig switches on OpenTelemetry traces and metrics, written to
// stderr as JSON lines.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}
