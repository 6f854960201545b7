package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/dropi/openpay/pkg/config"
	"github.com/dropi/openpay/pkg/handlers"
	"github.com/dropi/openpay/pkg/models"
	"github.com/dropi/openpay/pkg/notifier"
	"github.com/dropi/openpay/pkg/openpayments"
	"github.com/dropi/openpay/pkg/payments"
	"github.com/dropi/openpay/pkg/pending"
	dynamostore "github.com/dropi/openpay/pkg/pending/dynamodb"
	"github.com/dropi/openpay/pkg/pending/memory"
)

// memorySweepInterval drives the in-process expiry sweep when the volatile
// store is in use. The DynamoDB store is swept by the sweeper Lambda instead.
const memorySweepInterval = time.Minute

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// AWS-backed collaborators are only wired when configured; the default
	// deployment runs fully in-process.
	var store pending.Store
	var publisher notifier.Publisher
	if cfg.PendingPaymentsTable != "" || cfg.SettlementQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		if cfg.PendingPaymentsTable != "" {
			store = dynamostore.New(awsdynamodb.NewFromConfig(awsCfg), cfg.PendingPaymentsTable, cfg.PendingPaymentTTL())
		}
		if cfg.SettlementQueueURL != "" {
			publisher = notifier.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SettlementQueueURL)
		}
	}
	if store == nil {
		memStore := memory.New(cfg.PendingPaymentTTL())
		store = memStore
		go sweepLoop(memStore, logger)
	}

	// Payment endpoints stay gated behind holder.Ready until the signing
	// credentials have been bootstrapped; the health endpoint serves
	// immediately.
	holder := &orchestratorHolder{}
	handler := handlers.NewApiHandler(holder, holder.Ready)
	router := handlers.NewRouter(handler, logger)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := cfg.Bootstrap(ctx, nil); err != nil {
			log.Fatalf("failed to bootstrap signing credentials: %v", err)
		}
		key, err := cfg.PrivateKey()
		if err != nil {
			log.Fatalf("failed to read signing key: %v", err)
		}

		client := openpayments.NewClient(cfg.WalletAddressURL, cfg.KeyID, key, cfg.RequestTimeout())
		holder.set(payments.NewService(client, store, publisher, logger))
		logger.Info("signing credentials loaded, payment endpoints enabled", "wallet_address", cfg.WalletAddressURL)
	}()

	logger.Info("starting server", "port", cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func sweepLoop(store pending.Store, logger *slog.Logger) {
	ticker := time.NewTicker(memorySweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := store.SweepExpired(context.Background())
		if err != nil {
			logger.Error("pending store sweep failed", "error", err)
			continue
		}
		if removed > 0 {
			logger.Info("swept expired pending payments", "removed", removed)
		}
	}
}

// orchestratorHolder defers construction of the payment service until the
// configuration bootstrap has finished.
type orchestratorHolder struct {
	svc atomic.Pointer[payments.Service]
}

// Make sure we conform to the interface
var _ handlers.Orchestrator = (*orchestratorHolder)(nil)

func (h *orchestratorHolder) set(svc *payments.Service) {
	h.svc.Store(svc)
}

// Ready reports whether the payment service is available.
func (h *orchestratorHolder) Ready() bool {
	return h.svc.Load() != nil
}

func (h *orchestratorHolder) Initiate(ctx context.Context, senderURL, receiverURL string, amount openpayments.Amount) (*models.InitiateOutcome, error) {
	svc := h.svc.Load()
	if svc == nil {
		return nil, config.ErrMissingCredentials
	}
	return svc.Initiate(ctx, senderURL, receiverURL, amount)
}

func (h *orchestratorHolder) Complete(ctx context.Context, paymentID string) (*models.CompleteOutcome, error) {
	svc := h.svc.Load()
	if svc == nil {
		return nil, config.ErrMissingCredentials
	}
	return svc.Complete(ctx, paymentID)
}
