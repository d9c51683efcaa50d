package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig           `mapstructure:"server"`
	Chains    map[string]ChainConfig `mapstructure:"chains"`
	Swap      SwapConfig             `mapstructure:"swap"`
	Relayer   RelayerConfig          `mapstructure:"relayer"`
	Database  DatabaseConfig         `mapstructure:"database"`
	Redis     RedisConfig            `mapstructure:"redis"`
	JWT       JWTConfig              `mapstructure:"jwt"`
	Operators []OperatorConfig       `mapstructure:"operators"`
	Log       LogConfig              `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// ChainConfig describes one simulated ledger.
type ChainConfig struct {
	Name         string        `mapstructure:"name"`
	NativeSymbol string        `mapstructure:"native_symbol"`
	BlockTime    time.Duration `mapstructure:"block_time"` // interval between height ticks
	InitialRate  int64         `mapstructure:"initial_rate"` // units per native, scaled by 1e6
	Owner        string        `mapstructure:"owner"`     // owner role address
	Responder    string        `mapstructure:"responder"` // responder role address
}

// SwapConfig bounds cross-chain swap parameters.
type SwapConfig struct {
	DefaultTimeLockBlocks int64 `mapstructure:"default_time_lock_blocks"`
	MinAmount             int64 `mapstructure:"min_amount"`
	MaxAmount             int64 `mapstructure:"max_amount"`
}

// RelayerConfig controls the in-process event bridge between the two chains.
type RelayerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
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

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// OperatorConfig seeds one operator account. PasswordHash is a bcrypt hash;
// plaintext passwords never appear in configuration.
type OperatorConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	Role         string `mapstructure:"role"` // owner or responder
	Address      string `mapstructure:"address"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CCP_ (Cross-Chain Pool).
// Nested keys use underscore: CCP_SERVER_PORT, CCP_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("chains.ethereum.name", "ethereum")
	v.SetDefault("chains.ethereum.native_symbol", "ETH")
	v.SetDefault("chains.ethereum.block_time", "12s")
	v.SetDefault("chains.ethereum.initial_rate", 1000000000) // 1000 units per native
	v.SetDefault("chains.bsc.name", "bsc")
	v.SetDefault("chains.bsc.native_symbol", "BNB")
	v.SetDefault("chains.bsc.block_time", "3s")
	v.SetDefault("chains.bsc.initial_rate", 1000000000)
	v.SetDefault("swap.default_time_lock_blocks", 100)
	v.SetDefault("swap.min_amount", 1)
	v.SetDefault("swap.max_amount", 1000000)
	v.SetDefault("relayer.enabled", true)
	v.SetDefault("relayer.max_attempts", 5)
	v.SetDefault("relayer.retry_delay", "3s")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "crosschain_pool")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "cross-chain-pool")
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

	// Environment variables: CCP_SERVER_PORT -> server.port
	v.SetEnvPrefix("CCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Chains) != 2 {
		return fmt.Errorf("exactly two chains must be configured, got %d", len(c.Chains))
	}
	for name, chain := range c.Chains {
		if chain.InitialRate <= 0 {
			return fmt.Errorf("chain %s: initial_rate must be positive", name)
		}
	}
	if c.Swap.DefaultTimeLockBlocks <= 0 {
		return fmt.Errorf("swap.default_time_lock_blocks must be positive")
	}
	if c.Swap.MinAmount <= 0 || c.Swap.MaxAmount < c.Swap.MinAmount {
		return fmt.Errorf("invalid swap amount bounds [%d, %d]", c.Swap.MinAmount, c.Swap.MaxAmount)
	}
	for _, op := range c.Operators {
		if op.Role != "owner" && op.Role != "responder" {
			return fmt.Errorf("operator %s: unknown role %q", op.Username, op.Role)
		}
	}
	return nil
}
