package openpayments

import (
	"context"
	"net/http"
	"strings"
)

// Resource actions. Each is a single authenticated create call against a
// resource server; none of them retries, and deduplication of retried creates
// is the resource server's responsibility.

type incomingPaymentRequest struct {
	WalletAddress  string `json:"walletAddress"`
	IncomingAmount Amount `json:"incomingAmount"`
}

type quoteRequest struct {
	WalletAddress string `json:"walletAddress"`
	Receiver      string `json:"receiver"`
	Method        string `json:"method"`
}

type outgoingPaymentRequest struct {
	WalletAddress string `json:"walletAddress"`
	QuoteID       string `json:"quoteId"`
}

// CreateIncomingPayment creates an incoming payment on the receiver's
// resource server. The amount's asset code and scale must already be the
// receiver's; callers take them from the resolved wallet address.
func (c *Client) CreateIncomingPayment(ctx context.Context, resourceServer, accessToken string, wallet *WalletAddress, amount Amount) (*IncomingPayment, error) {
	body := incomingPaymentRequest{
		WalletAddress:  wallet.ID,
		IncomingAmount: amount,
	}

	var payment IncomingPayment
	if err := c.do(ctx, http.MethodPost, resourceURL(resourceServer, "incoming-payments"), accessToken, body, &payment); err != nil {
		return nil, &ResourceActionError{Step: string(AccessTypeIncomingPayment), Err: err}
	}
	return &payment, nil
}

// CreateQuote creates a quote that fixes the cost of paying the given
// receiver (an incoming payment URL) from the sender's wallet.
func (c *Client) CreateQuote(ctx context.Context, resourceServer, accessToken, senderID, receiver string) (*Quote, error) {
	body := quoteRequest{
		WalletAddress: senderID,
		Receiver:      receiver,
		Method:        "ilp",
	}

	var quote Quote
	if err := c.do(ctx, http.MethodPost, resourceURL(resourceServer, "quotes"), accessToken, body, &quote); err != nil {
		return nil, &ResourceActionError{Step: string(AccessTypeQuote), Err: err}
	}
	return &quote, nil
}

// CreateOutgoingPayment creates the outgoing payment that settles the quoted
// transfer from the sender's wallet.
func (c *Client) CreateOutgoingPayment(ctx context.Context, resourceServer, accessToken, senderID, quoteID string) (*OutgoingPayment, error) {
	body := outgoingPaymentRequest{
		WalletAddress: senderID,
		QuoteID:       quoteID,
	}

	var payment OutgoingPayment
	if err := c.do(ctx, http.MethodPost, resourceURL(resourceServer, "outgoing-payments"), accessToken, body, &payment); err != nil {
		return nil, &ResourceActionError{Step: string(AccessTypeOutgoingPayment), Err: err}
	}
	return &payment, nil
}

func resourceURL(resourceServer, path string) string {
	return strings.TrimSuffix(resourceServer, "/") + "/" + path
}
