package openpayments

import (
	"errors"
	"fmt"
)

// ErrUnexpectedInteraction is returned when a grant type that the payment flow
// assumes to be non-interactive comes back requiring a redirect.
var ErrUnexpectedInteraction = errors.New("openpayments: grant unexpectedly requires interaction")

// ErrGrantNotReady is returned when a grant continuation is attempted before
// the user has concluded the interaction.
var ErrGrantNotReady = errors.New("openpayments: grant interaction has not concluded")

// ErrGrantDenied is returned when the user declined the interactive grant.
var ErrGrantDenied = errors.New("openpayments: grant was denied")

// ResolutionError indicates a wallet address could not be resolved to a
// usable descriptor.
type ResolutionError struct {
	WalletURL string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("openpayments: failed to resolve wallet address %q: %v", e.WalletURL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ResourceActionError indicates a create call against a resource server
// failed. Step identifies which of the three resource actions failed.
type ResourceActionError struct {
	Step string
	Err  error
}

func (e *ResourceActionError) Error() string {
	return fmt.Sprintf("openpayments: %s creation failed: %v", e.Step, e.Err)
}

func (e *ResourceActionError) Unwrap() error { return e.Err }

// HTTPError carries a non-2xx response from an authorization or resource
// server.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openpayments: %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}
