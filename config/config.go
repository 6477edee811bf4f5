package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Ethereum  EthereumConfig  `mapstructure:"ethereum"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EthereumConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	EtherscanURL    string `mapstructure:"etherscan_url"`
	EtherscanAPIKey string `mapstructure:"etherscan_api_key"`
	// FeeCeilingEth is the network-fee circuit breaker: transfers whose
	// estimated gas cost exceeds this amount are aborted outright.
	FeeCeilingEth string `mapstructure:"fee_ceiling_eth"`
}

type PricingConfig struct {
	BaseURL    string   `mapstructure:"base_url"`
	APIKey     string   `mapstructure:"api_key"`
	Currencies []string `mapstructure:"currencies"`
}

type VaultConfig struct {
	// Passphrase and Salt derive the AES-256 key protecting custodial
	// private keys (scrypt).
	Passphrase string `mapstructure:"passphrase"`
	Salt       string `mapstructure:"salt"`
}

type PaymentConfig struct {
	// ExpiryWindow is the fixed horizon after creation at which an unpaid
	// payment expires.
	ExpiryWindow time.Duration `mapstructure:"expiry_window"`
}

type SchedulerConfig struct {
	ReconcileSpec   string `mapstructure:"reconcile_spec"`
	PayoutSpec      string `mapstructure:"payout_spec"`
	SweepSpec       string `mapstructure:"sweep_spec"`
	RateRefreshSpec string `mapstructure:"rate_refresh_spec"`
	BalanceSpec     string `mapstructure:"balance_spec"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: EPG_ (Ether Payment
// Gateway). Nested keys use underscore: EPG_DATABASE_HOST, EPG_ETHEREUM_RPC_URL.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "ether_payment_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ethereum.rpc_url", "")
	v.SetDefault("ethereum.etherscan_url", "https://api.etherscan.io/api")
	v.SetDefault("ethereum.etherscan_api_key", "")
	v.SetDefault("ethereum.fee_ceiling_eth", "0.01")
	v.SetDefault("pricing.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("pricing.api_key", "")
	v.SetDefault("pricing.currencies", []string{"USD", "EUR", "PLN"})
	v.SetDefault("vault.passphrase", "")
	v.SetDefault("vault.salt", "")
	v.SetDefault("payment.expiry_window", "1h")
	v.SetDefault("scheduler.reconcile_spec", "@every 1m")
	v.SetDefault("scheduler.payout_spec", "@hourly")
	v.SetDefault("scheduler.sweep_spec", "@daily")
	v.SetDefault("scheduler.rate_refresh_spec", "@every 30m")
	v.SetDefault("scheduler.balance_spec", "@every 5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: EPG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("EPG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional, env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
