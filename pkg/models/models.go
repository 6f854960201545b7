package models

import (
	"time"

	"github.com/dropi/openpay/pkg/openpayments"
)

// NegotiationPhase marks how far a payment negotiation has progressed.
type NegotiationPhase string

const (
	PhaseInitiated           NegotiationPhase = "INITIATED"
	PhaseAwaitingInteraction NegotiationPhase = "AWAITING_INTERACTION"
	PhaseCompleted           NegotiationPhase = "COMPLETED"
)

// NegotiationContext is the full accumulated state of one payment
// negotiation. It is the unit of suspension: when the flow pauses for user
// authorization, the whole context is handed to the pending store and handed
// back, once, on completion.
type NegotiationContext struct {
	Phase           NegotiationPhase              `json:"phase" dynamodbav:"phase"`
	SenderWallet    *openpayments.WalletAddress   `json:"senderWallet" dynamodbav:"sender_wallet"`
	ReceiverWallet  *openpayments.WalletAddress   `json:"receiverWallet" dynamodbav:"receiver_wallet"`
	RequestedAmount openpayments.Amount           `json:"requestedAmount" dynamodbav:"requested_amount"`
	IncomingPayment *openpayments.IncomingPayment `json:"incomingPayment,omitempty" dynamodbav:"incoming_payment,omitempty"`
	Quote           *openpayments.Quote           `json:"quote,omitempty" dynamodbav:"quote,omitempty"`
	OutgoingGrant   *openpayments.GrantResult     `json:"outgoingGrant,omitempty" dynamodbav:"outgoing_grant,omitempty"`
}

// PendingEntry wraps a suspended NegotiationContext for storage, keyed by the
// caller-facing correlation identifier.
type PendingEntry struct {
	CorrelationID string             `dynamodbav:"correlation_id"`
	Context       NegotiationContext `dynamodbav:"context"`
	CreatedAt     time.Time          `dynamodbav:"created_at"`
	ExpiresAt     time.Time          `dynamodbav:"expires_at"`
	// TTL mirrors ExpiresAt as a Unix timestamp for DynamoDB's expiry sweep.
	TTL int64 `dynamodbav:"ttl,omitempty"`
}

// Expired reports whether the entry has passed its expiry time.
func (e *PendingEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// InitiateOutcome is the result of the initiate phase. Either the payment
// settled straight through (the three resources are populated) or it paused
// for user authorization (PaymentID and ConfirmationURL are populated).
type InitiateOutcome struct {
	RequiresConfirmation bool
	PaymentID            string
	ConfirmationURL      string

	IncomingPayment *openpayments.IncomingPayment
	Quote           *openpayments.Quote
	OutgoingPayment *openpayments.OutgoingPayment
}

// CompleteOutcome is the result of resuming a suspended negotiation.
type CompleteOutcome struct {
	IncomingPayment *openpayments.IncomingPayment
	Quote           *openpayments.Quote
	OutgoingPayment *openpayments.OutgoingPayment
}
