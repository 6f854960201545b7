package openpayments

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningTransport(t *testing.T) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	t.Run("Signs GET Request", func(t *testing.T) {
		var received *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received = r.Clone(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		transport := newSigningTransport(nil, "test-key", key)
		transport.now = func() time.Time { return time.Unix(1700000000, 0) }
		client := &http.Client{Transport: transport}

		resp, err := client.Get(server.URL + "/wallet")
		require.NoError(t, err)
		resp.Body.Close()

		sigInput := received.Header.Get("Signature-Input")
		require.True(t, strings.HasPrefix(sigInput, "sig1="))
		assert.Contains(t, sigInput, `"@method" "@target-uri"`)
		assert.Contains(t, sigInput, "created=1700000000")
		assert.Contains(t, sigInput, `keyid="test-key"`)
		assert.Contains(t, sigInput, `alg="ed25519"`)
		assert.NotContains(t, sigInput, "content-digest")

		params := strings.TrimPrefix(sigInput, "sig1=")
		base := "\"@method\": GET\n" +
			"\"@target-uri\": " + server.URL + "/wallet\n" +
			"\"@signature-params\": " + params

		sig := received.Header.Get("Signature")
		require.True(t, strings.HasPrefix(sig, "sig1=:"))
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(strings.TrimPrefix(sig, "sig1=:"), ":"))
		require.NoError(t, err)
		assert.True(t, ed25519.Verify(pub, []byte(base), raw))
	})

	t.Run("Covers Body And Authorization", func(t *testing.T) {
		var received *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received = r.Clone(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		transport := newSigningTransport(nil, "test-key", key)
		client := &http.Client{Transport: transport}

		payload := `{"walletAddress":"https://ilp.example.com/alice"}`
		req, err := http.NewRequest(http.MethodPost, server.URL+"/quotes", strings.NewReader(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "GNAP quote-token")

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		digest := sha512.Sum512([]byte(payload))
		expected := "sha-512=:" + base64.StdEncoding.EncodeToString(digest[:]) + ":"
		assert.Equal(t, expected, received.Header.Get("Content-Digest"))

		sigInput := received.Header.Get("Signature-Input")
		assert.Contains(t, sigInput, `"content-digest"`)
		assert.Contains(t, sigInput, `"content-length"`)
		assert.Contains(t, sigInput, `"content-type"`)
		assert.Contains(t, sigInput, `"authorization"`)
	})

	t.Run("Does Not Mutate Original Request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		transport := newSigningTransport(nil, "test-key", key)
		client := &http.Client{Transport: transport}

		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Empty(t, req.Header.Get("Signature"))
		assert.Empty(t, req.Header.Get("Signature-Input"))
	})
}

func TestSignatureBase(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "https://rs.example.com/quotes", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	params := signatureParams([]string{"@method", "@target-uri", "content-type"}, "k1", 1700000000)
	base := signatureBase(req, []string{"@method", "@target-uri", "content-type"}, params)

	lines := strings.Split(base, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"@method": POST`, lines[0])
	assert.Equal(t, `"@target-uri": https://rs.example.com/quotes`, lines[1])
	assert.Equal(t, `"content-type": application/json`, lines[2])
	assert.Equal(t, `"@signature-params": `+params, lines[3])
}
