package config

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ed25519PEM(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()

	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), key
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 15*time.Minute, cfg.PendingPaymentTTL())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.False(t, cfg.Ready())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := "SERVER_PORT=9090\n" +
		"WALLET_ADDRESS_URL=https://ilp.example.com/service\n" +
		"PENDING_PAYMENT_TTL_MINUTES=5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envFile), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "https://ilp.example.com/service", cfg.WalletAddressURL)
	assert.Equal(t, 5*time.Minute, cfg.PendingPaymentTTL())
}

func TestBootstrapFromRemoteDocument(t *testing.T) {
	keyPEM, key := ed25519PEM(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"private_key":        keyPEM,
			"key_id":             "remote-key",
			"wallet_address_url": "https://ilp.example.com/service",
		})
	}))
	defer server.Close()

	cfg := &Config{KeyBootstrapURL: server.URL}
	require.NoError(t, cfg.Bootstrap(context.Background(), server.Client()))

	assert.True(t, cfg.Ready())
	assert.Equal(t, "remote-key", cfg.KeyID)
	assert.Equal(t, "https://ilp.example.com/service", cfg.WalletAddressURL)

	loaded, err := cfg.PrivateKey()
	require.NoError(t, err)
	assert.True(t, key.Equal(loaded))
}

func TestBootstrapPrefersConfiguredIdentity(t *testing.T) {
	keyPEM, _ := ed25519PEM(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"private_key":        keyPEM,
			"key_id":             "remote-key",
			"wallet_address_url": "https://ilp.example.com/remote",
		})
	}))
	defer server.Close()

	cfg := &Config{
		KeyBootstrapURL:  server.URL,
		KeyID:            "local-key",
		WalletAddressURL: "https://ilp.example.com/local",
	}
	require.NoError(t, cfg.Bootstrap(context.Background(), server.Client()))

	assert.Equal(t, "local-key", cfg.KeyID)
	assert.Equal(t, "https://ilp.example.com/local", cfg.WalletAddressURL)
}

func TestBootstrapFromKeyFile(t *testing.T) {
	keyPEM, _ := ed25519PEM(t)
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, []byte(keyPEM), 0o600))

	cfg := &Config{
		PrivateKeyPath:   path,
		KeyID:            "file-key",
		WalletAddressURL: "https://ilp.example.com/service",
	}
	require.NoError(t, cfg.Bootstrap(context.Background(), nil))

	assert.True(t, cfg.Ready())
}

func TestBootstrapFailures(t *testing.T) {
	t.Run("No Key Source", func(t *testing.T) {
		cfg := &Config{WalletAddressURL: "https://ilp.example.com/service", KeyID: "k"}

		err := cfg.Bootstrap(context.Background(), nil)
		assert.ErrorIs(t, err, ErrMissingCredentials)
		assert.False(t, cfg.Ready())
	})

	t.Run("Missing Wallet Address", func(t *testing.T) {
		keyPEM, _ := ed25519PEM(t)
		path := filepath.Join(t.TempDir(), "key.pem")
		require.NoError(t, os.WriteFile(path, []byte(keyPEM), 0o600))

		cfg := &Config{PrivateKeyPath: path, KeyID: "k"}

		err := cfg.Bootstrap(context.Background(), nil)
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("Remote Fetch Fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "missing", http.StatusNotFound)
		}))
		defer server.Close()

		cfg := &Config{KeyBootstrapURL: server.URL}

		err := cfg.Bootstrap(context.Background(), server.Client())
		assert.ErrorContains(t, err, "status 404")
		assert.False(t, cfg.Ready())
	})

	t.Run("Wrong Key Type", func(t *testing.T) {
		rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		der, err := x509.MarshalPKCS8PrivateKey(rsaKey)
		require.NoError(t, err)
		keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

		path := filepath.Join(t.TempDir(), "key.pem")
		require.NoError(t, os.WriteFile(path, keyPEM, 0o600))

		cfg := &Config{
			PrivateKeyPath:   path,
			KeyID:            "k",
			WalletAddressURL: "https://ilp.example.com/service",
		}

		err = cfg.Bootstrap(context.Background(), nil)
		assert.ErrorIs(t, err, ErrMissingCredentials)
		assert.ErrorContains(t, err, "not Ed25519")
	})

	t.Run("Not PEM", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key.pem")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

		cfg := &Config{
			PrivateKeyPath:   path,
			KeyID:            "k",
			WalletAddressURL: "https://ilp.example.com/service",
		}

		err := cfg.Bootstrap(context.Background(), nil)
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})
}

func TestPrivateKeyBeforeBootstrap(t *testing.T) {
	cfg := &Config{}

	_, err := cfg.PrivateKey()
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
