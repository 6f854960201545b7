package payments

import (
	"context"

	"github.com/dropi/openpay/pkg/openpayments"
)

// WalletResolver resolves wallet address URLs to their descriptors.
type WalletResolver interface {
	GetWalletAddress(ctx context.Context, walletURL string) (*openpayments.WalletAddress, error)
}

// GrantNegotiator requests and continues authorization grants.
type GrantNegotiator interface {
	RequestGrant(ctx context.Context, authServer string, req openpayments.GrantRequest) (*openpayments.GrantResult, error)
	ContinueGrant(ctx context.Context, continueURI, continueAccessToken string) (*openpayments.GrantResult, error)
}

// ResourceClient performs the three authenticated resource creations.
type ResourceClient interface {
	CreateIncomingPayment(ctx context.Context, resourceServer, accessToken string, wallet *openpayments.WalletAddress, amount openpayments.Amount) (*openpayments.IncomingPayment, error)
	CreateQuote(ctx context.Context, resourceServer, accessToken, senderID, receiver string) (*openpayments.Quote, error)
	CreateOutgoingPayment(ctx context.Context, resourceServer, accessToken, senderID, quoteID string) (*openpayments.OutgoingPayment, error)
}

// Client composes everything the state machine needs from the Open Payments
// client. *openpayments.Client satisfies it.
type Client interface {
	WalletResolver
	GrantNegotiator
	ResourceClient
}
