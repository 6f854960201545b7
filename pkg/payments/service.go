// Package payments implements the payment negotiation state machine: the
// fixed protocol sequence that drives a peer-to-peer payment through three
// authorization grants and three resource creations, pausing when the
// outgoing-payment grant needs the user's consent and resuming from the
// pending store when the caller returns.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dropi/openpay/pkg/models"
	"github.com/dropi/openpay/pkg/notifier"
	"github.com/dropi/openpay/pkg/openpayments"
	"github.com/dropi/openpay/pkg/pending"
)

// Service orchestrates payment negotiations. It holds no per-payment state
// itself; everything a suspended negotiation needs lives in the pending
// store.
type Service struct {
	client   Client
	store    pending.Store
	notifier notifier.Publisher
	logger   *slog.Logger
}

// NewService creates a payment service. The notifier may be nil, in which
// case no settlement events are published.
func NewService(client Client, store pending.Store, publisher notifier.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:   client,
		store:    store,
		notifier: publisher,
		logger:   logger,
	}
}

// Initiate runs a payment negotiation from the start either to settlement
// (when the sender's authorization server finalizes the outgoing-payment
// grant without interaction) or to the suspension point (when the user must
// visit a confirmation URL first). The caller-supplied amount contributes
// only its value; asset code and scale are taken from the receiver's resolved
// wallet so a payment cannot be requested in a denomination the receiver does
// not hold.
//
// Nothing is retried and nothing is rolled back: a failure at any step fails
// the whole call, and resources created before the failing step are left
// behind on their resource servers. No pending entry is written unless the
// flow actually pauses.
func (s *Service) Initiate(ctx context.Context, senderURL, receiverURL string, amount openpayments.Amount) (*models.InitiateOutcome, error) {
	// The two resolutions have no ordering dependency.
	var sender, receiver *openpayments.WalletAddress
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sender, err = s.client.GetWalletAddress(gctx, senderURL)
		return err
	})
	g.Go(func() error {
		var err error
		receiver, err = s.client.GetWalletAddress(gctx, receiverURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	incomingGrant, err := s.requestNonInteractiveGrant(ctx, receiver.AuthServer, openpayments.AccessTypeIncomingPayment)
	if err != nil {
		return nil, err
	}

	incomingAmount := openpayments.Amount{
		Value:      amount.Value,
		AssetCode:  receiver.AssetCode,
		AssetScale: receiver.AssetScale,
	}
	incomingPayment, err := s.client.CreateIncomingPayment(ctx, receiver.ResourceServer, incomingGrant.AccessToken, receiver, incomingAmount)
	if err != nil {
		return nil, err
	}
	s.logger.Info("incoming payment created", "incoming_payment_id", incomingPayment.ID)

	quoteGrant, err := s.requestNonInteractiveGrant(ctx, sender.AuthServer, openpayments.AccessTypeQuote)
	if err != nil {
		return nil, err
	}

	quote, err := s.client.CreateQuote(ctx, receiver.ResourceServer, quoteGrant.AccessToken, sender.ID, incomingPayment.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("quote created", "quote_id", quote.ID, "debit_amount", quote.DebitAmount.Value, "receive_amount", quote.ReceiveAmount.Value)

	outgoingGrant, err := s.client.RequestGrant(ctx, sender.AuthServer, openpayments.GrantRequest{
		AccessType:           openpayments.AccessTypeOutgoingPayment,
		Actions:              []string{"create"},
		Limits:               &openpayments.GrantLimits{DebitAmount: &quote.DebitAmount},
		Identifier:           sender.ID,
		InteractionRequested: true,
	})
	if err != nil {
		return nil, err
	}

	if outgoingGrant.Finalized() {
		// Straight-through path: the server skipped interaction, e.g. for a
		// pre-authorized sender.
		outgoingPayment, err := s.client.CreateOutgoingPayment(ctx, sender.ResourceServer, outgoingGrant.AccessToken, sender.ID, quote.ID)
		if err != nil {
			return nil, err
		}
		s.logger.Info("payment settled without interaction", "outgoing_payment_id", outgoingPayment.ID)
		s.publishSettled(ctx, incomingPayment, quote, outgoingPayment)

		return &models.InitiateOutcome{
			RequiresConfirmation: false,
			IncomingPayment:      incomingPayment,
			Quote:                quote,
			OutgoingPayment:      outgoingPayment,
		}, nil
	}

	nc := &models.NegotiationContext{
		Phase:           models.PhaseAwaitingInteraction,
		SenderWallet:    sender,
		ReceiverWallet:  receiver,
		RequestedAmount: amount,
		IncomingPayment: incomingPayment,
		Quote:           quote,
		OutgoingGrant:   outgoingGrant,
	}
	paymentID, err := s.store.Put(ctx, nc)
	if err != nil {
		return nil, fmt.Errorf("failed to suspend negotiation: %w", err)
	}
	s.logger.Info("negotiation suspended awaiting interaction", "payment_id", paymentID)

	return &models.InitiateOutcome{
		RequiresConfirmation: true,
		PaymentID:            paymentID,
		ConfirmationURL:      outgoingGrant.RedirectURL,
	}, nil
}

// Complete resumes a suspended negotiation: one grant continuation attempt,
// then the outgoing payment creation. The pending entry is consumed up front
// and never re-inserted — after a failed continuation the authorization
// server may have invalidated the continuation handle, so a caller wanting to
// retry must start over from Initiate.
func (s *Service) Complete(ctx context.Context, paymentID string) (*models.CompleteOutcome, error) {
	nc, err := s.store.Take(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	finalized, err := s.client.ContinueGrant(ctx, nc.OutgoingGrant.ContinueURI, nc.OutgoingGrant.ContinueAccessToken)
	if err != nil {
		s.logger.Warn("grant continuation failed", "payment_id", paymentID, "error", err)
		return nil, err
	}

	outgoingPayment, err := s.client.CreateOutgoingPayment(ctx, nc.SenderWallet.ResourceServer, finalized.AccessToken, nc.SenderWallet.ID, nc.Quote.ID)
	if err != nil {
		return nil, err
	}

	nc.Phase = models.PhaseCompleted
	s.logger.Info("payment settled after interaction", "payment_id", paymentID, "outgoing_payment_id", outgoingPayment.ID)
	s.publishSettled(ctx, nc.IncomingPayment, nc.Quote, outgoingPayment)

	return &models.CompleteOutcome{
		IncomingPayment: nc.IncomingPayment,
		Quote:           nc.Quote,
		OutgoingPayment: outgoingPayment,
	}, nil
}

// requestNonInteractiveGrant requests a create grant for an access type that
// the protocol expects to finalize synchronously. A pending result here is a
// protocol-assumption violation: the flow has no way to resume it
// independently of the outgoing-payment pause.
func (s *Service) requestNonInteractiveGrant(ctx context.Context, authServer string, accessType openpayments.AccessType) (*openpayments.GrantResult, error) {
	grant, err := s.client.RequestGrant(ctx, authServer, openpayments.GrantRequest{
		AccessType: accessType,
		Actions:    []string{"create"},
	})
	if err != nil {
		return nil, err
	}
	if !grant.Finalized() {
		return nil, fmt.Errorf("%w: %s", openpayments.ErrUnexpectedInteraction, accessType)
	}
	return grant, nil
}

// publishSettled emits a settlement event. Publish failures are logged, never
// surfaced: the payment has already settled on the network.
func (s *Service) publishSettled(ctx context.Context, ip *openpayments.IncomingPayment, quote *openpayments.Quote, op *openpayments.OutgoingPayment) {
	if s.notifier == nil {
		return
	}

	event := notifier.Event{
		ID:                newEventID(),
		Type:              notifier.EventTypePaymentSettled,
		IncomingPaymentID: ip.ID,
		QuoteID:           quote.ID,
		OutgoingPaymentID: op.ID,
		DebitAmount:       quote.DebitAmount,
		ReceiveAmount:     quote.ReceiveAmount,
		OccurredAt:        time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Error("payment settled but settlement event publish failed", "outgoing_payment_id", op.ID, "error", err)
	}
}

func newEventID() string {
	return uuid.NewString()
}
