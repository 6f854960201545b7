// Package config loads the process configuration into an explicit Config
// object that is constructed once at startup and passed to the components
// that need it. Signing credentials can be bootstrapped from a remote JSON
// document; until that has happened the Config reports not-ready and the
// HTTP layer refuses payment requests.
package config

import (
	"context"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingCredentials is returned when a signing key or wallet identity is
// required but has not been loaded.
var ErrMissingCredentials = errors.New("config: signing credentials not loaded")

// Config holds all configuration for the service. Values are loaded from
// environment variables (and an optional .env file); the signing key is
// loaded by Bootstrap.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	// WalletAddressURL is the wallet identity this service signs requests as.
	WalletAddressURL string `mapstructure:"WALLET_ADDRESS_URL"`
	KeyID            string `mapstructure:"KEY_ID"`

	// PrivateKeyPath points at a local PEM-encoded Ed25519 key. Ignored when
	// KeyBootstrapURL is set.
	PrivateKeyPath string `mapstructure:"PRIVATE_KEY_PATH"`

	// KeyBootstrapURL is an HTTPS URL serving a JSON document with the
	// signing material (private_key, key_id, wallet_address_url).
	KeyBootstrapURL string `mapstructure:"KEY_BOOTSTRAP_URL"`

	PendingPaymentTTLMinutes int `mapstructure:"PENDING_PAYMENT_TTL_MINUTES"`
	RequestTimeoutSeconds    int `mapstructure:"REQUEST_TIMEOUT_SECONDS"`

	// PendingPaymentsTable selects the DynamoDB-backed pending store when
	// set; otherwise the in-memory store is used.
	PendingPaymentsTable string `mapstructure:"DYNAMODB_PENDING_PAYMENTS_TABLE_NAME"`

	// SettlementQueueURL enables SQS settlement events when set.
	SettlementQueueURL string `mapstructure:"SETTLEMENT_QUEUE_URL"`

	mu         sync.RWMutex
	privateKey ed25519.PrivateKey
	ready      bool
}

// Load reads configuration from environment variables and an optional .env
// file in the given path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("PENDING_PAYMENT_TTL_MINUTES", 15)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)

	for _, key := range []string{
		"SERVER_PORT",
		"WALLET_ADDRESS_URL",
		"KEY_ID",
		"PRIVATE_KEY_PATH",
		"KEY_BOOTSTRAP_URL",
		"PENDING_PAYMENT_TTL_MINUTES",
		"REQUEST_TIMEOUT_SECONDS",
		"DYNAMODB_PENDING_PAYMENTS_TABLE_NAME",
		"SETTLEMENT_QUEUE_URL",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// bootstrapDocument is the shape of the remote keys document. Unknown fields
// are ignored; the original deployment shipped other env values alongside the
// key material.
type bootstrapDocument struct {
	PrivateKey       string `json:"private_key"`
	KeyID            string `json:"key_id"`
	WalletAddressURL string `json:"wallet_address_url"`
}

// Bootstrap loads the signing credentials, either from the remote bootstrap
// document or from the local key file, and marks the Config ready. It must
// succeed before any payment negotiation runs.
func (c *Config) Bootstrap(ctx context.Context, client *http.Client) error {
	var keyPEM []byte

	if c.KeyBootstrapURL != "" {
		doc, err := fetchBootstrapDocument(ctx, client, c.KeyBootstrapURL)
		if err != nil {
			return err
		}
		keyPEM = []byte(doc.PrivateKey)
		if c.KeyID == "" {
			c.KeyID = doc.KeyID
		}
		if c.WalletAddressURL == "" {
			c.WalletAddressURL = doc.WalletAddressURL
		}
	} else if c.PrivateKeyPath != "" {
		data, err := os.ReadFile(c.PrivateKeyPath)
		if err != nil {
			return fmt.Errorf("failed to read private key file: %w", err)
		}
		keyPEM = data
	}

	if len(keyPEM) == 0 {
		return fmt.Errorf("%w: no private key source configured", ErrMissingCredentials)
	}
	if c.WalletAddressURL == "" {
		return fmt.Errorf("%w: wallet address URL not configured", ErrMissingCredentials)
	}
	if c.KeyID == "" {
		return fmt.Errorf("%w: key id not configured", ErrMissingCredentials)
	}

	key, err := parseEd25519PrivateKey(keyPEM)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.privateKey = key
	c.ready = true
	c.mu.Unlock()

	return nil
}

// Ready reports whether signing credentials have been loaded. The HTTP layer
// uses this as the gate for payment endpoints.
func (c *Config) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// PrivateKey returns the loaded signing key.
func (c *Config) PrivateKey() (ed25519.PrivateKey, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ready {
		return nil, ErrMissingCredentials
	}
	return c.privateKey, nil
}

// PendingPaymentTTL returns the pending store expiry as a duration.
func (c *Config) PendingPaymentTTL() time.Duration {
	return time.Duration(c.PendingPaymentTTLMinutes) * time.Minute
}

// RequestTimeout returns the outbound call timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func fetchBootstrapDocument(ctx context.Context, client *http.Client, url string) (*bootstrapDocument, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build bootstrap request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bootstrap document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bootstrap document fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read bootstrap document: %w", err)
	}

	var doc bootstrapDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bootstrap document: %w", err)
	}
	return &doc, nil
}

func parseEd25519PrivateKey(keyPEM []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("%w: private key is not PEM encoded", ErrMissingCredentials)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse private key: %v", ErrMissingCredentials, err)
	}

	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is not Ed25519", ErrMissingCredentials)
	}
	return key, nil
}
