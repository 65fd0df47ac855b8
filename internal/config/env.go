package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/subosito/gotenv"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the store password is prompted at runtime and stored in memory - use GetStorePasswordBytes()
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	StoreDriver  string `envconfig:"STORE_DRIVER" default:"file"` // file, sqlite, redis or memory
	StorePath    string `envconfig:"STORE_PATH" default:"./wallet-data"`
	RedisAddr    string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB      int    `envconfig:"REDIS_DB" default:"0"`
	StoreEncrypt bool   `envconfig:"STORE_ENCRYPT" default:"false"`

	SolanaRPCURL     string `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	SolanaCluster    string `envconfig:"SOLANA_CLUSTER" default:"devnet"`
	TokenRegistryURL string `envconfig:"TOKEN_REGISTRY_URL" default:"https://raw.githubusercontent.com/SUNIDHI-JAIN125/MetaData-Token/main/metadata.json"`
	CoinGeckoURL     string `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3"`
	PriceCurrency    string `envconfig:"PRICE_CURRENCY" default:"usd"` // empty disables fiat display

	PayCooldown        int           `envconfig:"PAY_COOLDOWN_MINUTES" default:"0"`
	SignPayloadTimeout time.Duration `envconfig:"SIGN_PAYLOAD_TIMEOUT" default:"30s"`
	HandshakeTTL       time.Duration `envconfig:"HANDSHAKE_TTL" default:"10m"`
	RateLimitRPS       int           `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst     int           `envconfig:"RATE_LIMIT_BURST" default:"10"`
	AllowedOrigins     []string      `envconfig:"ALLOWED_ORIGINS"`
	AllowSecretExport  bool          `envconfig:"ALLOW_SECRET_EXPORT" default:"false"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Init() error {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// Validate checks values envconfig cannot
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "file", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be file, sqlite, redis or memory, got: %s", c.StoreDriver)
	}
	if c.SignPayloadTimeout <= 0 {
		return errors.New("SIGN_PAYLOAD_TIMEOUT must be positive")
	}
	if c.HandshakeTTL <= 0 {
		return errors.New("HANDSHAKE_TTL must be positive")
	}
	if c.PayCooldown < 0 {
		return errors.New("PAY_COOLDOWN_MINUTES must not be negative")
	}
	return nil
}

// Set replaces the global configuration (used by the CLI flags and tests).
func Set(c *Config) {
	cfg = c
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetPayCooldown returns cooldown in minutes from configuration
func GetPayCooldown() int {
	return Get().PayCooldown
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

var passwordBytes []byte

// PromptForPassword prompts the user for the store password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword(prompt string) error {
	raw, err := ReadPassword(prompt)
	if err != nil {
		return err
	}
	passwordBytes = raw
	return nil
}

// ReadPassword reads one hidden line from the terminal.
// Caller must zero the returned slice after use.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetStorePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetStorePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
