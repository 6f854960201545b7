package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/dropi/openpay/pkg/models"
	"github.com/dropi/openpay/pkg/openpayments"
	"github.com/dropi/openpay/pkg/pending"
)

// Amounts are non-negative integer strings in minor units; parsing them into
// a numeric type would risk precision loss, so they are validated and passed
// through as strings.
var amountPattern = regexp.MustCompile(`^[0-9]+$`)

const (
	defaultAssetCode  = "USD"
	defaultAssetScale = 2
)

// Orchestrator is the payment negotiation core the HTTP layer drives.
type Orchestrator interface {
	Initiate(ctx context.Context, senderURL, receiverURL string, amount openpayments.Amount) (*models.InitiateOutcome, error)
	Complete(ctx context.Context, paymentID string) (*models.CompleteOutcome, error)
}

// ApiHandler implements the HTTP endpoints. It holds the payment orchestrator
// and the readiness gate: payment endpoints refuse to run until the signing
// credentials have been bootstrapped.
type ApiHandler struct {
	Payments Orchestrator
	Ready    func() bool
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(payments Orchestrator, ready func() bool) *ApiHandler {
	return &ApiHandler{Payments: payments, Ready: ready}
}

// InitiateRequest is the body of POST /payments/initiate. AssetCode and
// AssetScale are advisory; the receiver's resolved denomination is
// authoritative.
type InitiateRequest struct {
	SenderWalletURL   string `json:"senderWalletUrl"`
	ReceiverWalletURL string `json:"receiverWalletUrl"`
	Amount            string `json:"amount"`
	AssetCode         string `json:"assetCode,omitempty"`
	AssetScale        *int   `json:"assetScale,omitempty"`
}

// InitiateResponse is the body of a successful initiate call. When the
// payment requires confirmation only PaymentID and ConfirmationURL are set;
// on the straight-through path the settled resource ids and amounts are set.
type InitiateResponse struct {
	RequiresConfirmation bool   `json:"requiresConfirmation"`
	PaymentID            string `json:"paymentId,omitempty"`
	ConfirmationURL      string `json:"confirmationUrl,omitempty"`

	IncomingPaymentID string               `json:"incomingPaymentId,omitempty"`
	QuoteID           string               `json:"quoteId,omitempty"`
	OutgoingPaymentID string               `json:"outgoingPaymentId,omitempty"`
	DebitAmount       *openpayments.Amount `json:"debitAmount,omitempty"`
	ReceiveAmount     *openpayments.Amount `json:"receiveAmount,omitempty"`
}

// CompleteResponse is the body of a successful complete call.
type CompleteResponse struct {
	IncomingPaymentID string              `json:"incomingPaymentId"`
	QuoteID           string              `json:"quoteId"`
	OutgoingPaymentID string              `json:"outgoingPaymentId"`
	DebitAmount       openpayments.Amount `json:"debitAmount"`
	ReceiveAmount     openpayments.Amount `json:"receiveAmount"`
}

// InitiatePayment handles POST /payments/initiate.
func (h *ApiHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		http.Error(w, "Service is starting up, try again shortly", http.StatusServiceUnavailable)
		return
	}

	var req InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := validateInitiateRequest(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount := openpayments.Amount{
		Value:      req.Amount,
		AssetCode:  req.AssetCode,
		AssetScale: defaultAssetScale,
	}
	if amount.AssetCode == "" {
		amount.AssetCode = defaultAssetCode
	}
	if req.AssetScale != nil {
		amount.AssetScale = *req.AssetScale
	}

	outcome, err := h.Payments.Initiate(r.Context(), req.SenderWalletURL, req.ReceiverWalletURL, amount)
	if err != nil {
		writePaymentError(w, err)
		return
	}

	resp := InitiateResponse{
		RequiresConfirmation: outcome.RequiresConfirmation,
		PaymentID:            outcome.PaymentID,
		ConfirmationURL:      outcome.ConfirmationURL,
	}
	if !outcome.RequiresConfirmation {
		resp.IncomingPaymentID = outcome.IncomingPayment.ID
		resp.QuoteID = outcome.Quote.ID
		resp.OutgoingPaymentID = outcome.OutgoingPayment.ID
		resp.DebitAmount = &outcome.Quote.DebitAmount
		resp.ReceiveAmount = &outcome.Quote.ReceiveAmount
	}

	writeJSON(w, http.StatusOK, resp)
}

// CompletePayment handles POST /payments/{paymentID}/complete.
func (h *ApiHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		http.Error(w, "Service is starting up, try again shortly", http.StatusServiceUnavailable)
		return
	}

	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		http.Error(w, "paymentId is required", http.StatusBadRequest)
		return
	}

	outcome, err := h.Payments.Complete(r.Context(), paymentID)
	if err != nil {
		writePaymentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompleteResponse{
		IncomingPaymentID: outcome.IncomingPayment.ID,
		QuoteID:           outcome.Quote.ID,
		OutgoingPaymentID: outcome.OutgoingPayment.ID,
		DebitAmount:       outcome.Quote.DebitAmount,
		ReceiveAmount:     outcome.Quote.ReceiveAmount,
	})
}

// Health handles GET /health.
func (h *ApiHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ApiHandler) ready() bool {
	return h.Ready == nil || h.Ready()
}

func validateInitiateRequest(req *InitiateRequest) error {
	if req.SenderWalletURL == "" {
		return errors.New("senderWalletUrl is required")
	}
	if req.ReceiverWalletURL == "" {
		return errors.New("receiverWalletUrl is required")
	}
	if req.Amount == "" {
		return errors.New("amount is required")
	}
	if !amountPattern.MatchString(req.Amount) {
		return errors.New("amount must be a non-negative integer string in minor units")
	}
	if req.AssetScale != nil && *req.AssetScale < 0 {
		return errors.New("assetScale must be non-negative")
	}
	return nil
}

// writePaymentError maps core errors onto HTTP statuses. Unknown and expired
// payment ids share one message so a caller cannot probe whether an
// identifier ever existed.
func writePaymentError(w http.ResponseWriter, err error) {
	var resolutionErr *openpayments.ResolutionError
	var resourceErr *openpayments.ResourceActionError

	switch {
	case errors.Is(err, pending.ErrNotFound):
		http.Error(w, "Payment not found or expired", http.StatusNotFound)
	case errors.Is(err, openpayments.ErrGrantNotReady):
		http.Error(w, "Payment has not been authorized yet", http.StatusConflict)
	case errors.Is(err, openpayments.ErrGrantDenied):
		http.Error(w, "Payment authorization was declined", http.StatusForbidden)
	case errors.Is(err, openpayments.ErrUnexpectedInteraction):
		http.Error(w, fmt.Sprintf("Upstream authorization server violated protocol expectations: %v", err), http.StatusBadGateway)
	case errors.As(err, &resolutionErr):
		http.Error(w, fmt.Sprintf("Failed to resolve wallet address: %v", err), http.StatusBadGateway)
	case errors.As(err, &resourceErr):
		http.Error(w, fmt.Sprintf("Payment step %q failed upstream: %v", resourceErr.Step, err), http.StatusBadGateway)
	default:
		http.Error(w, fmt.Sprintf("Failed to process payment: %v", err), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
