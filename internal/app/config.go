package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const envPrefix = "CINEMA"

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	rabbitmq struct {
		url string
	}
	booking struct {
		claimTTL      time.Duration
		sweepInterval time.Duration
		commitTimeout time.Duration
		maxSeats      int
		vipSurcharge  decimal.Decimal
	}
	jwt struct {
		secret string
	}
	log struct {
		file  string
		level string
	}
	otelCollectorUrl string
	displayVersion   bool
}

// loadConfig resolves settings from, in increasing precedence, built-in
// defaults, an optional cinema.{yaml,toml,json} file, a .env file, CINEMA_*
// environment variables and command line flags.
func loadConfig(args []string, output io.Writer) (config, error) {
	var cfg config

	// a missing .env is the normal case outside of local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("cinema")
	v.AddConfigPath(".")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setConfigDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}

	fs := flag.NewFlagSet("cinema-api", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.IntVar(&cfg.port, "port", v.GetInt("port"), "server port")
	fs.StringVar(&cfg.env, "env", v.GetString("env"), "Environment (dev|staging|prod)")

	fs.StringVar(&cfg.db.dsn, "db-dsn", v.GetString("db-dsn"), "PostgreSQL DSN")
	fs.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", v.GetInt("db-max-open-conns"), "PostgreSQL max open connections")
	fs.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", v.GetDuration("db-max-idle-time"), "PostgreSQL max idle time for connections")

	fs.StringVar(&cfg.redis.url, "redis-url", v.GetString("redis-url"), "Redis address")
	fs.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", v.GetInt("redis-max-open-conns"), "Redis max open connections")
	fs.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", v.GetInt("redis-max-idle-conns"), "Redis max idle connections")
	fs.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", v.GetDuration("redis-max-idle-time"), "Redis max idle time for connections")

	fs.StringVar(&cfg.rabbitmq.url, "rabbitmq-url", v.GetString("rabbitmq-url"), "RabbitMQ URL, order events are only logged when empty")

	fs.DurationVar(&cfg.booking.claimTTL, "claim-ttl", v.GetDuration("claim-ttl"), "Grace window of a provisional seat claim")
	fs.DurationVar(&cfg.booking.sweepInterval, "sweep-interval", v.GetDuration("sweep-interval"), "Interval between expired claim sweeps, 0 disables sweeping")
	fs.DurationVar(&cfg.booking.commitTimeout, "commit-timeout", v.GetDuration("commit-timeout"), "Upper bound for persisting an order")
	fs.IntVar(&cfg.booking.maxSeats, "max-seats", v.GetInt("max-seats"), "Maximum number of seats per order")
	vipSurcharge := fs.String("vip-surcharge", v.GetString("vip-surcharge"), "Extra charge per VIP seat, 0 disables it")

	fs.StringVar(&cfg.jwt.secret, "jwt-secret", v.GetString("jwt-secret"), "HMAC secret for bearer tokens, bearer auth is disabled when empty")

	fs.StringVar(&cfg.log.file, "log-file", v.GetString("log-file"), "Rotated JSON log file, stdout only when empty")
	fs.StringVar(&cfg.log.level, "log-level", v.GetString("log-level"), "Log level (debug|info|warn|error)")

	fs.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", v.GetString("otel-collector-url"), "OpenTelemetry collector gRPC endpoint")

	fs.BoolVar(&cfg.displayVersion, "version", false, "Display version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	surcharge, err := decimal.NewFromString(*vipSurcharge)
	if err != nil {
		return cfg, fmt.Errorf("invalid vip surcharge %q: %w", *vipSurcharge, err)
	}
	if surcharge.IsNegative() {
		return cfg, fmt.Errorf("vip surcharge must not be negative")
	}
	cfg.booking.vipSurcharge = surcharge

	if cfg.booking.claimTTL <= 0 {
		return cfg, fmt.Errorf("claim ttl must be positive")
	}

	// a claim has to outlive the commit it protects
	if cfg.booking.commitTimeout >= cfg.booking.claimTTL {
		return cfg, fmt.Errorf("commit timeout %s must be shorter than claim ttl %s",
			cfg.booking.commitTimeout, cfg.booking.claimTTL)
	}

	return cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("env", "dev")

	v.SetDefault("db-max-open-conns", 25)
	v.SetDefault("db-max-idle-time", 15*time.Minute)

	v.SetDefault("redis-url", "localhost:6379")
	v.SetDefault("redis-max-open-conns", 25)
	v.SetDefault("redis-max-idle-conns", 10)
	v.SetDefault("redis-max-idle-time", 2*time.Minute)

	v.SetDefault("claim-ttl", 10*time.Minute)
	v.SetDefault("sweep-interval", time.Minute)
	v.SetDefault("commit-timeout", 10*time.Second)
	v.SetDefault("max-seats", 8)
	v.SetDefault("vip-surcharge", "0")

	v.SetDefault("log-level", "info")
}
