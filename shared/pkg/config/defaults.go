package config

import "time"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:              "localhost:8086",
			ReadHeaderTimeout: 5 * time.Second,
			RequestTimeout:    10 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN: "file:checkout.db",
		},
		Auth: AuthConfig{
			JWTSecret: "test_jwt_secret",
		},
		Payments: PaymentsConfig{
			Currency:        "usd",
			DefaultProvider: "card-processor",
			ProviderTimeout: 5 * time.Second,
		},
		Inventory: InventoryConfig{
			ListenAddr: "localhost:50051",
		},
		Sandbox: SandboxConfig{
			Addr: "localhost:8082",
		},
		Cache: CacheConfig{
			OrderTTL: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "checkout",
			MetricInterval: time.Minute,
		},
	}
}
