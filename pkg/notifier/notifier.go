// Package notifier publishes settlement events for downstream consumers
// (bookkeeping, reconciliation) after an outgoing payment has been created.
package notifier

import (
	"context"
	"time"

	"github.com/dropi/openpay/pkg/openpayments"
)

// EventTypePaymentSettled is emitted once per settled payment.
const EventTypePaymentSettled = "payment.settled"

// Event describes a settled payment.
type Event struct {
	ID                string              `json:"id"`
	Type              string              `json:"type"`
	IncomingPaymentID string              `json:"incomingPaymentId"`
	QuoteID           string              `json:"quoteId"`
	OutgoingPaymentID string              `json:"outgoingPaymentId"`
	DebitAmount       openpayments.Amount `json:"debitAmount"`
	ReceiveAmount     openpayments.Amount `json:"receiveAmount"`
	OccurredAt        time.Time           `json:"occurredAt"`
}

// Publisher defines the interface for emitting settlement events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
