package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/dropi/openpay/pkg/notifier"
)

// HandleRequest consumes settlement events from the SQS queue and records
// them for bookkeeping. A malformed message is logged and dropped rather than
// returned as an error, which would make SQS redeliver it forever.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		var event notifier.Event
		if err := json.Unmarshal([]byte(message.Body), &event); err != nil {
			log.Printf("ERROR: dropping malformed settlement event %s: %v", message.MessageId, err)
			continue
		}

		log.Printf("Payment settled: outgoing=%s quote=%s incoming=%s debit=%s %s receive=%s %s",
			event.OutgoingPaymentID, event.QuoteID, event.IncomingPaymentID,
			event.DebitAmount.Value, event.DebitAmount.AssetCode,
			event.ReceiveAmount.Value, event.ReceiveAmount.AssetCode)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
