package handlers

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dropi/openpay/pkg/middleware"
)

// NewRouter builds the service router: payment endpoints plus the liveness
// probe. The health endpoint is intentionally outside the readiness gate so
// orchestration can see the process is alive while credentials bootstrap.
func NewRouter(h *ApiHandler, logger *slog.Logger) chi.Router {
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NewStructuredLogger(logger))

	router.Get("/health", h.Health)
	router.Post("/payments/initiate", h.InitiatePayment)
	router.Post("/payments/{paymentID}/complete", h.CompletePayment)

	return router
}
