// Package config loads service configuration from a YAML file, a .env file and
// OPENACTION_* environment variables, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/logger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OPENACTION_"

// Signer types.
const (
	SignerPrivateKey = "private_key"
	SignerKeystore   = "keystore"
	SignerMnemonic   = "mnemonic"
	SignerCDP        = "cdp"
)

// Config is the complete service configuration.
type Config struct {
	// Network names the deployment: mainnet or testnet.
	Network string `yaml:"network"`

	// RPCURL is the EVM JSON-RPC endpoint used for reads and paid submissions.
	RPCURL string `yaml:"rpc_url"`

	// PublicActProxy overrides the deployment's proxy for wallet-only actors.
	PublicActProxy string `yaml:"public_act_proxy"`

	Relay  RelayConfig   `yaml:"relay"`
	Signer SignerConfig  `yaml:"signer"`
	Server ServerConfig  `yaml:"server"`
	Log    logger.Config `yaml:"log"`
}

// RelayConfig configures the relay backend client.
type RelayConfig struct {
	// URL overrides the deployment's backend URL.
	URL            string        `yaml:"url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// SignerConfig selects and configures the account that signs actions.
type SignerConfig struct {
	Type string `yaml:"type"`

	PrivateKey       string `yaml:"private_key"`
	KeystorePath     string `yaml:"keystore_path"`
	KeystorePassword string `yaml:"keystore_password"`
	Mnemonic         string `yaml:"mnemonic"`
	AccountIndex     uint32 `yaml:"account_index"`

	CDP CDPConfig `yaml:"cdp"`
}

// CDPConfig holds Coinbase Developer Platform credentials.
type CDPConfig struct {
	APIKeyName   string `yaml:"api_key_name"`
	APIKeySecret string `yaml:"api_key_secret"`
	WalletSecret string `yaml:"wallet_secret"`
	AccountName  string `yaml:"account_name"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
}

// Default returns the configuration used for unset values.
func Default() *Config {
	return &Config{
		Network: openaction.Mainnet.Name,
		Relay: RelayConfig{
			RequestTimeout: 30 * time.Second,
		},
		Signer: SignerConfig{
			Type: SignerPrivateKey,
			CDP:  CDPConfig{AccountName: "openaction"},
		},
		Server: ServerConfig{
			Addr:        ":8080",
			WaitTimeout: 30 * time.Second,
		},
		Log: logger.Config{
			Level:  "info",
			Format: logger.FormatJSON,
		},
	}
}

// Load reads the .env files (missing files are skipped), then the YAML file at
// path if path is not empty, then applies environment overrides and validates.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads files into the process environment without overriding
// variables that are already set. With no arguments it loads ./.env.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from OPENACTION_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	fields := map[string]*string{
		"NETWORK":            &c.Network,
		"RPC_URL":            &c.RPCURL,
		"PUBLIC_ACT_PROXY":   &c.PublicActProxy,
		"RELAY_URL":          &c.Relay.URL,
		"SIGNER_TYPE":        &c.Signer.Type,
		"PRIVATE_KEY":        &c.Signer.PrivateKey,
		"KEYSTORE_PATH":      &c.Signer.KeystorePath,
		"KEYSTORE_PASSWORD":  &c.Signer.KeystorePassword,
		"MNEMONIC":           &c.Signer.Mnemonic,
		"CDP_API_KEY_NAME":   &c.Signer.CDP.APIKeyName,
		"CDP_API_KEY_SECRET": &c.Signer.CDP.APIKeySecret,
		"CDP_WALLET_SECRET":  &c.Signer.CDP.WalletSecret,
		"CDP_ACCOUNT_NAME":   &c.Signer.CDP.AccountName,
		"SERVER_ADDR":        &c.Server.Addr,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
	}
	for name, field := range fields {
		if value, ok := lookup(EnvPrefix + name); ok {
			*field = value
		}
	}

	durations := map[string]*time.Duration{
		"RELAY_REQUEST_TIMEOUT": &c.Relay.RequestTimeout,
		"SERVER_WAIT_TIMEOUT":   &c.Server.WaitTimeout,
	}
	for name, field := range durations {
		if value, ok := lookup(EnvPrefix + name); ok {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*field = d
		}
	}

	if value, ok := lookup(EnvPrefix + "ACCOUNT_INDEX"); ok {
		index, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("%sACCOUNT_INDEX: %w", EnvPrefix, err)
		}
		c.Signer.AccountIndex = uint32(index)
	}
	return nil
}

// Validate reports the first invalid or missing setting.
func (c *Config) Validate() error {
	if _, err := openaction.EnvironmentByName(c.Network); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if c.RPCURL == "" {
		return fmt.Errorf("rpc_url is required")
	}
	if c.Relay.RequestTimeout <= 0 {
		return fmt.Errorf("relay.request_timeout must be positive")
	}
	if c.Server.WaitTimeout <= 0 {
		return fmt.Errorf("server.wait_timeout must be positive")
	}

	switch c.Signer.Type {
	case SignerPrivateKey:
		if c.Signer.PrivateKey == "" {
			return fmt.Errorf("signer.private_key is required for signer type %s", c.Signer.Type)
		}
	case SignerKeystore:
		if c.Signer.KeystorePath == "" {
			return fmt.Errorf("signer.keystore_path is required for signer type %s", c.Signer.Type)
		}
	case SignerMnemonic:
		if c.Signer.Mnemonic == "" {
			return fmt.Errorf("signer.mnemonic is required for signer type %s", c.Signer.Type)
		}
	case SignerCDP:
		cdp := c.Signer.CDP
		if cdp.APIKeyName == "" || cdp.APIKeySecret == "" || cdp.WalletSecret == "" {
			return fmt.Errorf("signer.cdp api_key_name, api_key_secret and wallet_secret are required")
		}
		if cdp.AccountName == "" {
			return fmt.Errorf("signer.cdp.account_name is required")
		}
	default:
		return fmt.Errorf("unknown signer type %q", c.Signer.Type)
	}
	return nil
}

// Environment resolves the deployment named by Network with the configured
// relay URL and public act proxy applied.
func (c *Config) Environment() (openaction.Environment, error) {
	env, err := openaction.EnvironmentByName(c.Network)
	if err != nil {
		return openaction.Environment{}, err
	}
	if c.Relay.URL != "" {
		env.BackendURL = strings.TrimRight(c.Relay.URL, "/")
	}
	if c.PublicActProxy != "" {
		env.PublicActProxy = c.PublicActProxy
	}
	return env, nil
}
