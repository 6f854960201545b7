package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/dropi/openpay/pkg/pending"
	dynamostore "github.com/dropi/openpay/pkg/pending/dynamodb"
)

var store pending.Store

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	table := os.Getenv("DYNAMODB_PENDING_PAYMENTS_TABLE_NAME")
	if table == "" {
		log.Fatal("DYNAMODB_PENDING_PAYMENTS_TABLE_NAME environment variable not set")
	}

	// The TTL only matters for Put, which this Lambda never calls.
	store = dynamostore.New(awsdynamodb.NewFromConfig(cfg), table, time.Hour)
}

// HandleRequest is triggered by an EventBridge Schedule and removes pending
// payments whose confirmation window has elapsed.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting sweep of expired pending payments...")

	removed, err := store.SweepExpired(ctx)
	if err != nil {
		log.Printf("ERROR: failed to sweep expired pending payments: %v", err)
		return err
	}

	log.Printf("Sweep finished, removed %d expired pending payments", removed)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
