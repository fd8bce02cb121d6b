package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHECKOUT_REDIS_ADDR.
const EnvPrefix = "CHECKOUT"

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.read_header_timeout", d.HTTP.ReadHeaderTimeout)
	v.SetDefault("http.request_timeout", d.HTTP.RequestTimeout)
	v.SetDefault("http.shutdown_timeout", d.HTTP.ShutdownTimeout)

	v.SetDefault("database.dsn", d.Database.DSN)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)

	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)

	v.SetDefault("payments.currency", d.Payments.Currency)
	v.SetDefault("payments.default_provider", d.Payments.DefaultProvider)
	v.SetDefault("payments.provider_timeout", d.Payments.ProviderTimeout)
	for _, p := range []string{"card", "wallet"} {
		v.SetDefault("payments."+p+".base_url", "")
		v.SetDefault("payments."+p+".api_key", "")
		v.SetDefault("payments."+p+".webhook_secret", "")
		v.SetDefault("payments."+p+".simulated", false)
	}

	v.SetDefault("inventory.grpc_addr", d.Inventory.GRPCAddr)
	v.SetDefault("inventory.listen_addr", d.Inventory.ListenAddr)

	v.SetDefault("sandbox.addr", d.Sandbox.Addr)

	v.SetDefault("cache.order_ttl", d.Cache.OrderTTL)

	v.SetDefault("rate_limit.rps", d.RateLimit.RPS)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("telemetry.metric_interval", d.Telemetry.MetricInterval)
}
