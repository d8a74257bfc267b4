package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Gateway GatewayConfig
	Auth    AuthConfig
	DB      DBConfig
	Redis   RedisConfig
	Log     LogConfig
}

type GatewayConfig struct {
	Port string
	// RateLimit uses the limiter format, e.g. "60-M".
	RateLimit string
	// Location business hours and daily stats are evaluated in.
	Timezone string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// DBConfig selects where orders live. Driver is "memory" or "postgres".
type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

var defaults = map[string]any{
	"gateway.port":       "8080",
	"gateway.rate_limit": "60-M",
	"gateway.timezone":   "UTC",
	"auth.jwt_secret":    "",
	"auth.token_ttl":     "24h",
	"auth.bcrypt_cost":   10,
	"db.driver":          "memory",
	"db.host":            "localhost",
	"db.port":            "5432",
	"db.user":            "postgres",
	"db.password":        "",
	"db.name":            "delivery",
	"db.sslmode":         "disable",
	"redis.enabled":      false,
	"redis.host":         "localhost",
	"redis.port":         "6379",
	"redis.password":     "",
	"redis.db":           0,
	"redis.cart_ttl":     "72h",
	"log.level":          "info",
	"log.encoding":       "json",
	"log.output_paths":   "stdout",
}

// LoadConfig reads .env when present, then the environment. Keys map to
// upper-case variables, e.g. gateway.rate_limit is GATEWAY_RATE_LIMIT.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	cfg := Config{
		Gateway: GatewayConfig{
			Port:      v.GetString("gateway.port"),
			RateLimit: v.GetString("gateway.rate_limit"),
			Timezone:  v.GetString("gateway.timezone"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("auth.jwt_secret"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
			BcryptCost: v.GetInt("auth.bcrypt_cost"),
		},
		DB: DBConfig{
			Driver:   strings.ToLower(v.GetString("db.driver")),
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			CartTTL:  v.GetDuration("redis.cart_ttl"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Encoding:    v.GetString("log.encoding"),
			OutputPaths: strings.Split(v.GetString("log.output_paths"), ","),
		},
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	switch c.DB.Driver {
	case "memory", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver))
	}
	if c.Redis.Enabled && c.Redis.CartTTL <= 0 {
		errs = append(errs, errors.New("REDIS_CART_TTL must be positive"))
	}
	if _, err := time.LoadLocation(c.Gateway.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("GATEWAY_TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}
