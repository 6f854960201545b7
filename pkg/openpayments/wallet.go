package openpayments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GetWalletAddress resolves a wallet address URL to its descriptor: identity,
// asset denomination and the authorization/resource server endpoints. Payment
// pointers ("$wallet.example/alice") are normalized to https URLs.
func (c *Client) GetWalletAddress(ctx context.Context, walletURL string) (*WalletAddress, error) {
	normalized, err := normalizeWalletURL(walletURL)
	if err != nil {
		return nil, &ResolutionError{WalletURL: walletURL, Err: err}
	}

	var wallet WalletAddress
	if err := c.do(ctx, http.MethodGet, normalized, "", nil, &wallet); err != nil {
		return nil, &ResolutionError{WalletURL: walletURL, Err: err}
	}

	if wallet.ID == "" || wallet.AuthServer == "" || wallet.ResourceServer == "" {
		return nil, &ResolutionError{WalletURL: walletURL, Err: fmt.Errorf("response is not a valid wallet address")}
	}
	return &wallet, nil
}

func normalizeWalletURL(walletURL string) (string, error) {
	if strings.HasPrefix(walletURL, "$") {
		walletURL = "https://" + strings.TrimPrefix(walletURL, "$")
	}

	parsed, err := url.Parse(walletURL)
	if err != nil {
		return "", fmt.Errorf("malformed wallet address URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", fmt.Errorf("wallet address URL must use http(s), got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("wallet address URL has no host")
	}
	return parsed.String(), nil
}
