// Package dynamodb implements the pending store on a DynamoDB table, keyed by
// correlation_id. Entries carry a ttl attribute so the table's TTL setting
// garbage-collects what the sweep misses.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dropi/openpay/pkg/models"
	"github.com/dropi/openpay/pkg/pending"
)

// DynamoDB limits BatchWriteItem to 25 requests per call.
const batchDeleteSize = 25

// maxBatchRetries bounds re-submission of deletes DynamoDB returned as
// unprocessed under throttling. What still remains after that is left for the
// next sweep or the table TTL.
const maxBatchRetries = 2

// Store implements pending.Store using AWS DynamoDB.
type Store struct {
	Client    DynamoDBAPI
	TableName string
	TTL       time.Duration
}

// New creates a new Store whose entries expire after ttl.
func New(client DynamoDBAPI, tableName string, ttl time.Duration) *Store {
	return &Store{Client: client, TableName: tableName, TTL: ttl}
}

// Make sure we conform to the interface
var _ pending.Store = (*Store)(nil)

// Put stores the context under a fresh correlation identifier.
func (s *Store) Put(ctx context.Context, nc *models.NegotiationContext) (string, error) {
	id, err := pending.NewCorrelationID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	entry := models.PendingEntry{
		CorrelationID: id,
		Context:       *nc,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.TTL),
		TTL:           now.Add(s.TTL).Unix(),
	}

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pending entry: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:           aws.String(s.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(correlation_id)"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store pending entry: %w", err)
	}

	return id, nil
}

// Take deletes the entry for the identifier and returns its context from the
// deleted item. The conditional delete with ALL_OLD return values makes the
// read-and-delete atomic: of two concurrent takes, exactly one sees the item.
func (s *Store) Take(ctx context.Context, correlationID string) (*models.NegotiationContext, error) {
	out, err := s.Client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"correlation_id": &types.AttributeValueMemberS{Value: correlationID},
		},
		ConditionExpression: aws.String("attribute_exists(correlation_id)"),
		ReturnValues:        types.ReturnValueAllOld,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, pending.ErrNotFound
		}
		return nil, fmt.Errorf("failed to take pending entry: %w", err)
	}

	var entry models.PendingEntry
	if err := attributevalue.UnmarshalMap(out.Attributes, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending entry: %w", err)
	}

	// The table's TTL sweep is not immediate, so an expired row can still be
	// present. Treat it as gone.
	if entry.Expired(time.Now()) {
		return nil, pending.ErrNotFound
	}

	nc := entry.Context
	return &nc, nil
}

// SweepExpired scans for entries past their expiry and batch-deletes them.
func (s *Store) SweepExpired(ctx context.Context) (int, error) {
	nowAV := &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix())}

	var expired []string
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.Client.Scan(ctx, &awsdynamodb.ScanInput{
			TableName:                aws.String(s.TableName),
			FilterExpression:         aws.String("#ttl <= :now"),
			ProjectionExpression:     aws.String("correlation_id"),
			ExpressionAttributeNames: map[string]string{"#ttl": "ttl"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":now": nowAV,
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to scan for expired entries: %w", err)
		}

		for _, item := range out.Items {
			if id, ok := item["correlation_id"].(*types.AttributeValueMemberS); ok {
				expired = append(expired, id.Value)
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	removed := 0
	for start := 0; start < len(expired); start += batchDeleteSize {
		end := start + batchDeleteSize
		if end > len(expired) {
			end = len(expired)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, id := range expired[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"correlation_id": &types.AttributeValueMemberS{Value: id},
					},
				},
			})
		}

		submitted := len(requests)
		for attempt := 0; ; attempt++ {
			out, err := s.Client.BatchWriteItem(ctx, &awsdynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{s.TableName: requests},
			})
			if err != nil {
				return removed, fmt.Errorf("failed to delete expired entries: %w", err)
			}

			unprocessed := out.UnprocessedItems[s.TableName]
			if len(unprocessed) == 0 {
				removed += submitted
				break
			}
			if attempt == maxBatchRetries {
				removed += submitted - len(unprocessed)
				break
			}
			requests = unprocessed
		}
	}

	return removed, nil
}
