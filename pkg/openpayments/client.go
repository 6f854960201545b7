// Package openpayments implements a client for the Open Payments APIs: wallet
// address resolution, GNAP grant negotiation against authorization servers,
// and the three resource actions (incoming payment, quote, outgoing payment)
// against resource servers. Requests are authenticated with HTTP message
// signatures over the client's Ed25519 key.
package openpayments

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an authenticated Open Payments client. All outbound requests are
// signed by the configured key; the rest of the application treats it as
// opaque transport and never touches signature material.
type Client struct {
	// WalletAddressURL identifies this client to authorization servers.
	WalletAddressURL string
	HTTPClient       *http.Client
}

// NewClient creates an authenticated client for the given wallet identity.
// The timeout bounds every outbound call so a single unresponsive server
// cannot pin a request handler indefinitely.
func NewClient(walletAddressURL, keyID string, key ed25519.PrivateKey, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		WalletAddressURL: walletAddressURL,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: newSigningTransport(nil, keyID, key),
		},
	}
}

// do executes a single JSON request. A non-empty accessToken is attached as a
// GNAP authorization header. Non-2xx responses are returned as *HTTPError.
func (c *Client) do(ctx context.Context, method, url string, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "GNAP "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Bounded read: error bodies are only used for diagnostics.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{StatusCode: resp.StatusCode, URL: url, Body: string(bytes.TrimSpace(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
