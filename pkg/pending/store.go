// Package pending defines the store that holds payment negotiations suspended
// while they wait for the user to authorize the outgoing-payment grant.
package pending

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dropi/openpay/pkg/models"
)

// ErrNotFound is returned when a correlation identifier does not match a
// stored negotiation. An expired, already-consumed, or never-issued
// identifier all produce this same error so a caller cannot tell whether an
// identifier was ever valid.
var ErrNotFound = errors.New("pending: payment not found or expired")

// Store holds suspended negotiation contexts keyed by an opaque correlation
// identifier.
type Store interface {
	// Put stores the context under a freshly generated correlation identifier
	// and returns the identifier.
	Put(ctx context.Context, nc *models.NegotiationContext) (string, error)

	// Take atomically reads and deletes the context for the identifier.
	// Concurrent takes of the same identifier yield exactly one success; the
	// rest get ErrNotFound.
	Take(ctx context.Context, correlationID string) (*models.NegotiationContext, error)

	// SweepExpired removes entries past their expiry and returns how many
	// were removed. Intended to be driven by a periodic scheduler.
	SweepExpired(ctx context.Context) (int, error)
}

// NewCorrelationID generates an unguessable identifier with 128 bits of
// randomness. It is never derived from caller input.
func NewCorrelationID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate correlation id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
