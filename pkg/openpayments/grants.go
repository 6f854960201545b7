package openpayments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// GNAP wire format for grant requests and responses.
type grantRequestBody struct {
	AccessToken accessTokenRequest `json:"access_token"`
	Client      string             `json:"client"`
	Interact    *interactRequest   `json:"interact,omitempty"`
}

type accessTokenRequest struct {
	Access []accessItem `json:"access"`
}

type accessItem struct {
	Type       string       `json:"type"`
	Actions    []string     `json:"actions"`
	Limits     *GrantLimits `json:"limits,omitempty"`
	Identifier string       `json:"identifier,omitempty"`
}

type interactRequest struct {
	Start []string `json:"start"`
}

type grantResponseBody struct {
	AccessToken *struct {
		Value  string `json:"value"`
		Manage string `json:"manage"`
	} `json:"access_token"`
	Continue *struct {
		AccessToken struct {
			Value string `json:"value"`
		} `json:"access_token"`
		URI  string `json:"uri"`
		Wait int    `json:"wait"`
	} `json:"continue"`
	Interact *struct {
		Redirect string `json:"redirect"`
		Finish   string `json:"finish"`
	} `json:"interact"`
}

// RequestGrant asks an authorization server for a grant of the given access
// type. The response is classified exactly once, here: a grant is either
// finalized (access token present) or pending interaction (continuation
// handle and redirect URL present). Callers never inspect raw response
// fields.
func (c *Client) RequestGrant(ctx context.Context, authServer string, req GrantRequest) (*GrantResult, error) {
	body := grantRequestBody{
		AccessToken: accessTokenRequest{
			Access: []accessItem{{
				Type:       string(req.AccessType),
				Actions:    req.Actions,
				Limits:     req.Limits,
				Identifier: req.Identifier,
			}},
		},
		Client: c.WalletAddressURL,
	}
	if req.InteractionRequested {
		body.Interact = &interactRequest{Start: []string{"redirect"}}
	}

	var resp grantResponseBody
	if err := c.do(ctx, http.MethodPost, authServer, "", body, &resp); err != nil {
		return nil, fmt.Errorf("grant request for %s failed: %w", req.AccessType, err)
	}

	return classifyGrant(&resp)
}

// ContinueGrant performs a single continuation attempt for a pending grant.
// It never polls: a not-yet-approved interaction surfaces as ErrGrantNotReady
// and the caller decides what to tell the user. Retrying a continuation
// prematurely can be treated as abuse by the authorization server.
func (c *Client) ContinueGrant(ctx context.Context, continueURI, continueAccessToken string) (*GrantResult, error) {
	var resp grantResponseBody
	err := c.do(ctx, http.MethodPost, continueURI, continueAccessToken, struct{}{}, &resp)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, ErrGrantDenied
			case http.StatusBadRequest:
				// The AS answers 400 when the interaction has not concluded.
				return nil, ErrGrantNotReady
			}
		}
		return nil, fmt.Errorf("grant continuation failed: %w", err)
	}

	// A continuation either finalizes or it does not. While the interaction is
	// outstanding the AS repeats only the continuation handle (interact is not
	// part of continuation responses), so anything without an access token
	// means not ready.
	if resp.AccessToken == nil || resp.AccessToken.Value == "" {
		return nil, ErrGrantNotReady
	}
	return &GrantResult{
		AccessToken: resp.AccessToken.Value,
		ManageURL:   resp.AccessToken.Manage,
	}, nil
}

func classifyGrant(resp *grantResponseBody) (*GrantResult, error) {
	if resp.AccessToken != nil && resp.AccessToken.Value != "" {
		return &GrantResult{
			AccessToken: resp.AccessToken.Value,
			ManageURL:   resp.AccessToken.Manage,
		}, nil
	}
	if resp.Interact != nil && resp.Continue != nil {
		return &GrantResult{
			ContinueURI:         resp.Continue.URI,
			ContinueAccessToken: resp.Continue.AccessToken.Value,
			RedirectURL:         resp.Interact.Redirect,
		}, nil
	}
	return nil, fmt.Errorf("openpayments: grant response is neither finalized nor pending")
}
