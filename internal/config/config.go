package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Cron   CronConfig   `mapstructure:"cron"`

	Engine  EngineConfig  `mapstructure:"engine"`
	Revenue RevenueConfig `mapstructure:"revenue"`
	Billing BillingConfig `mapstructure:"billing"`
	Stream  StreamConfig  `mapstructure:"stream"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type CronConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	RevenuePoll      string `mapstructure:"revenue_poll"`
	NightlyRecompute string `mapstructure:"nightly_recompute"`
	CacheSweep       string `mapstructure:"cache_sweep"`
}

type EngineConfig struct {
	// DefaultMonthlyHours is the payroll fallback when an entry carries an
	// hourly rate but no explicit monthly hour count.
	DefaultMonthlyHours float64 `mapstructure:"default_monthly_hours"`
	// RecomputeDebounce is how long the recompute listener waits after the
	// last cost mutation before re-aggregating a tenant's scenarios.
	RecomputeDebounce time.Duration `mapstructure:"recompute_debounce"`
}

type RevenueConfig struct {
	DefaultPeriodMonths int `mapstructure:"default_period_months"`
}

type BillingConfig struct {
	WebhookSecret  string `mapstructure:"webhook_secret"`
	CheckoutURL    string `mapstructure:"checkout_url"`
	CheckoutPlanID string `mapstructure:"checkout_plan_id"`
}

type StreamConfig struct {
	SubscriberBuffer int `mapstructure:"subscriber_buffer"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.revenue_poll", "@every 1m")
	v.SetDefault("cron.nightly_recompute", "0 0 3 * * *")
	v.SetDefault("cron.cache_sweep", "@every 5m")
	v.SetDefault("engine.default_monthly_hours", 173.2)
	v.SetDefault("engine.recompute_debounce", "500ms")
	v.SetDefault("revenue.default_period_months", 3)
	v.SetDefault("billing.checkout_url", "")
	v.SetDefault("stream.subscriber_buffer", 16)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
