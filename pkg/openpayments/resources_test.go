package openpayments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIncomingPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var captured incomingPaymentRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/incoming-payments", r.URL.Path)
			assert.Equal(t, "GNAP incoming-token", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(IncomingPayment{
				ID:             "https://rs.receiver.example.com/incoming-payments/ip-1",
				WalletAddress:  captured.WalletAddress,
				IncomingAmount: &Amount{Value: "10000", AssetCode: "MXN", AssetScale: 2},
			})
		}))
		defer server.Close()

		client := newTestClient(t)
		wallet := &WalletAddress{ID: "https://ilp.example.com/bob", AssetCode: "MXN", AssetScale: 2}
		payment, err := client.CreateIncomingPayment(context.Background(), server.URL, "incoming-token", wallet,
			Amount{Value: "10000", AssetCode: "MXN", AssetScale: 2})

		require.NoError(t, err)
		assert.Equal(t, "https://rs.receiver.example.com/incoming-payments/ip-1", payment.ID)

		assert.Equal(t, "https://ilp.example.com/bob", captured.WalletAddress)
		assert.Equal(t, "10000", captured.IncomingAmount.Value)
		assert.Equal(t, "MXN", captured.IncomingAmount.AssetCode)
	})

	t.Run("Resource Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "token invalid", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(t)
		wallet := &WalletAddress{ID: "https://ilp.example.com/bob"}
		_, err := client.CreateIncomingPayment(context.Background(), server.URL, "stale-token", wallet,
			Amount{Value: "10000", AssetCode: "MXN", AssetScale: 2})

		var actionErr *ResourceActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Equal(t, "incoming-payment", actionErr.Step)
	})
}

func TestCreateQuote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var captured quoteRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/quotes", r.URL.Path)
			assert.Equal(t, "GNAP quote-token", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Quote{
				ID:            "https://rs.receiver.example.com/quotes/q-1",
				Receiver:      captured.Receiver,
				DebitAmount:   Amount{Value: "10250", AssetCode: "USD", AssetScale: 2},
				ReceiveAmount: Amount{Value: "10000", AssetCode: "MXN", AssetScale: 2},
			})
		}))
		defer server.Close()

		client := newTestClient(t)
		quote, err := client.CreateQuote(context.Background(), server.URL, "quote-token",
			"https://ilp.example.com/alice", "https://rs.receiver.example.com/incoming-payments/ip-1")

		require.NoError(t, err)
		assert.Equal(t, "https://rs.receiver.example.com/quotes/q-1", quote.ID)
		assert.Equal(t, "10250", quote.DebitAmount.Value)

		assert.Equal(t, "https://ilp.example.com/alice", captured.WalletAddress)
		assert.Equal(t, "https://rs.receiver.example.com/incoming-payments/ip-1", captured.Receiver)
		assert.Equal(t, "ilp", captured.Method)
	})

	t.Run("Resource Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no route", http.StatusBadRequest)
		}))
		defer server.Close()

		client := newTestClient(t)
		_, err := client.CreateQuote(context.Background(), server.URL, "quote-token",
			"https://ilp.example.com/alice", "https://rs.receiver.example.com/incoming-payments/ip-1")

		var actionErr *ResourceActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Equal(t, "quote", actionErr.Step)
	})
}

func TestCreateOutgoingPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var captured outgoingPaymentRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/outgoing-payments", r.URL.Path)
			assert.Equal(t, "GNAP outgoing-token", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(OutgoingPayment{
				ID:      "https://rs.sender.example.com/outgoing-payments/op-1",
				QuoteID: captured.QuoteID,
			})
		}))
		defer server.Close()

		client := newTestClient(t)
		payment, err := client.CreateOutgoingPayment(context.Background(), server.URL, "outgoing-token",
			"https://ilp.example.com/alice", "https://rs.receiver.example.com/quotes/q-1")

		require.NoError(t, err)
		assert.Equal(t, "https://rs.sender.example.com/outgoing-payments/op-1", payment.ID)

		assert.Equal(t, "https://ilp.example.com/alice", captured.WalletAddress)
		assert.Equal(t, "https://rs.receiver.example.com/quotes/q-1", captured.QuoteID)
	})

	t.Run("Resource Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "insufficient grant", http.StatusForbidden)
		}))
		defer server.Close()

		client := newTestClient(t)
		_, err := client.CreateOutgoingPayment(context.Background(), server.URL, "outgoing-token",
			"https://ilp.example.com/alice", "https://rs.receiver.example.com/quotes/q-1")

		var actionErr *ResourceActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Equal(t, "outgoing-payment", actionErr.Step)
	})
}

func TestResourceURL(t *testing.T) {
	assert.Equal(t, "https://rs.example.com/quotes", resourceURL("https://rs.example.com", "quotes"))
	assert.Equal(t, "https://rs.example.com/quotes", resourceURL("https://rs.example.com/", "quotes"))
}
