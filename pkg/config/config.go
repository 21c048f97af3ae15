package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds the messaging channel credentials.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID string `yaml:"chatId"`
}

// VenueConfig holds the CLOB venue identity and endpoint.
type VenueConfig struct {
	Host          string `yaml:"host"`
	PrivateKey    string `yaml:"privateKey"`
	APIKey        string `yaml:"apiKey"`
	APISecret     string `yaml:"apiSecret"`
	APIPassphrase string `yaml:"apiPassphrase"`
	FunderAddress string `yaml:"funderAddress"`
	SignatureType int    `yaml:"signatureType"` // 0=EOA, 1=Magic/Email, 2=Browser proxy
	ChainID       int64  `yaml:"chainId"`
}

// Config is the process-wide run configuration. It is built once at startup
// and passed by reference into each component.
type Config struct {
	TargetWallet     string         `yaml:"targetWallet"`
	TradeNotional    float64        `yaml:"tradeNotional"`    // fixed USDC budget per mirrored trade
	MaxTradeNotional float64        `yaml:"maxTradeNotional"` // hard cap on the budget
	DryRun           bool           `yaml:"dryRun"`
	SnapshotFile     string         `yaml:"snapshotFile"`
	DataAPIHost      string         `yaml:"dataApiHost"`
	Telegram         TelegramConfig `yaml:"telegram"`
	Venue            VenueConfig    `yaml:"venue"`
	LogLevel         string         `yaml:"logLevel"`
	LogFile          string         `yaml:"logFile"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence (env wins). A .env file
// in the working directory is loaded first, best-effort.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TradeNotional:    1.0,
		MaxTradeNotional: 5.0,
		SnapshotFile:     "last_positions.json",
		DataAPIHost:      "https://data-api.polymarket.com",
		LogLevel:         "info",
		Venue: VenueConfig{
			Host:    "https://clob.polymarket.com",
			ChainID: 137,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Validate reports the only fatal configuration error: a missing tracked
// wallet. Everything else degrades (no telegram creds means no alerts, no
// venue creds means watch-only).
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TargetWallet) == "" {
		return fmt.Errorf("TARGET_WALLET is not set")
	}
	return nil
}

// TradingEnabled reports whether enough venue identity is present to submit
// orders.
func (c *Config) TradingEnabled() bool {
	v := c.Venue
	return v.PrivateKey != "" && v.APIKey != "" && v.APISecret != "" && v.APIPassphrase != ""
}

func applyEnv(cfg *Config) {
	setString(&cfg.TargetWallet, "TARGET_WALLET")
	setFloat(&cfg.TradeNotional, "TRADE_NOTIONAL")
	setFloat(&cfg.MaxTradeNotional, "MAX_TRADE_NOTIONAL")
	setBool(&cfg.DryRun, "DRY_RUN")
	setString(&cfg.SnapshotFile, "SNAPSHOT_FILE")
	setString(&cfg.DataAPIHost, "POLYMARKET_DATA_API_URL")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFile, "LOG_FILE")

	setString(&cfg.Telegram.Token, "TELEGRAM_TOKEN")
	setString(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")

	setString(&cfg.Venue.Host, "POLYMARKET_CLOB_API_URL")
	setString(&cfg.Venue.PrivateKey, "PRIVATE_KEY")
	setString(&cfg.Venue.APIKey, "CLOB_API_KEY")
	setString(&cfg.Venue.APISecret, "CLOB_API_SECRET")
	setString(&cfg.Venue.APIPassphrase, "CLOB_API_PASSPHRASE")
	setString(&cfg.Venue.FunderAddress, "FUNDER_ADDRESS")
	setInt(&cfg.Venue.SignatureType, "SIGNATURE_TYPE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
