package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Generator    GeneratorConfig
	ContentStore ContentStoreConfig
	Ledger       LedgerConfig
	Saga         SagaConfig
	Logger       LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type GeneratorConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ContentStoreConfig struct {
	APIURL     string
	GatewayURL string
	Timeout    time.Duration
}

type LedgerConfig struct {
	RPCURL        string
	PayerKey      string
	VaultAddress  string
	PollInterval  time.Duration
	SubmitTimeout time.Duration
}

type SagaConfig struct {
	PaymentLamports uint64
	RetryAttempts   int
	RetryBackoff    time.Duration
	ConfirmTimeout  time.Duration
	SweepInterval   time.Duration
	SweepGrace      time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "collectible_mint")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("GENERATOR_BASE_URL", "https://image.pollinations.ai")
	v.SetDefault("GENERATOR_TIMEOUT", "60s")

	v.SetDefault("CONTENT_STORE_API_URL", "http://localhost:5001")
	v.SetDefault("CONTENT_STORE_GATEWAY_URL", "https://ipfs.io")
	v.SetDefault("CONTENT_STORE_TIMEOUT", "60s")

	v.SetDefault("SOLANA_RPC_URL", "https://api.devnet.solana.com")
	v.SetDefault("SOLANA_PAYER_KEY", "")
	v.SetDefault("SOLANA_VAULT_ADDRESS", "")
	v.SetDefault("SOLANA_POLL_INTERVAL", "2s")
	v.SetDefault("SOLANA_SUBMIT_TIMEOUT", "30s")

	v.SetDefault("SAGA_PAYMENT_LAMPORTS", 10_000_000)
	v.SetDefault("SAGA_RETRY_ATTEMPTS", 3)
	v.SetDefault("SAGA_RETRY_BACKOFF", "500ms")
	v.SetDefault("SAGA_CONFIRM_TIMEOUT", "90s")
	v.SetDefault("SAGA_SWEEP_INTERVAL", "1m")
	v.SetDefault("SAGA_SWEEP_GRACE", "2m")

	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: duration(v, "DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Generator: GeneratorConfig{
			BaseURL: v.GetString("GENERATOR_BASE_URL"),
			Timeout: duration(v, "GENERATOR_TIMEOUT", 60*time.Second),
		},
		ContentStore: ContentStoreConfig{
			APIURL:     v.GetString("CONTENT_STORE_API_URL"),
			GatewayURL: v.GetString("CONTENT_STORE_GATEWAY_URL"),
			Timeout:    duration(v, "CONTENT_STORE_TIMEOUT", 60*time.Second),
		},
		Ledger: LedgerConfig{
			RPCURL:        v.GetString("SOLANA_RPC_URL"),
			PayerKey:      v.GetString("SOLANA_PAYER_KEY"),
			VaultAddress:  v.GetString("SOLANA_VAULT_ADDRESS"),
			PollInterval:  duration(v, "SOLANA_POLL_INTERVAL", 2*time.Second),
			SubmitTimeout: duration(v, "SOLANA_SUBMIT_TIMEOUT", 30*time.Second),
		},
		Saga: SagaConfig{
			PaymentLamports: v.GetUint64("SAGA_PAYMENT_LAMPORTS"),
			RetryAttempts:   v.GetInt("SAGA_RETRY_ATTEMPTS"),
			RetryBackoff:    duration(v, "SAGA_RETRY_BACKOFF", 500*time.Millisecond),
			ConfirmTimeout:  duration(v, "SAGA_CONFIRM_TIMEOUT", 90*time.Second),
			SweepInterval:   duration(v, "SAGA_SWEEP_INTERVAL", time.Minute),
			SweepGrace:      duration(v, "SAGA_SWEEP_GRACE", 2*time.Minute),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
