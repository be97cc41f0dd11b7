package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

// DefaultAuditRetention is how long audit items live before the table TTL removes them.
const DefaultAuditRetention = 30 * 24 * time.Hour

// AuditRecord is one validation decision. It never carries the issued URL.
type AuditRecord struct {
	Stack     string
	Fleet     string
	User      string
	AuthType  string
	Valid     bool
	Bucket    string
	OutputKey string
}

// Audit appends validation decisions to a DynamoDB table keyed by AuditID (S).
type Audit struct {
	Client    DynamoDBAPI
	Table     string
	Retention time.Duration
	Now       func() time.Time
}

func NewAudit(cl DynamoDBAPI, table string) *Audit {
	return &Audit{Client: cl, Table: table, Retention: DefaultAuditRetention, Now: time.Now}
}

// Put writes recs in batches of 25, retrying unprocessed items.
func (a *Audit) Put(ctx context.Context, recs ...AuditRecord) error {
	if len(recs) == 0 {
		return nil
	}
	const maxBatch = 25
	now := a.now()
	processed := strconv.FormatInt(now.Unix(), 10)
	expires := strconv.FormatInt(now.Add(a.retention()).Unix(), 10)

	for i := 0; i < len(recs); i += maxBatch {
		end := i + maxBatch
		if end > len(recs) {
			end = len(recs)
		}

		reqs := make([]types.WriteRequest, 0, end-i)
		for _, r := range recs[i:end] {
			item := map[string]types.AttributeValue{
				"AuditID":     &types.AttributeValueMemberS{Value: uuid.NewString()}, // PK
				"Stack":       &types.AttributeValueMemberS{Value: r.Stack},
				"Fleet":       &types.AttributeValueMemberS{Value: r.Fleet},
				"User":        &types.AttributeValueMemberS{Value: r.User},
				"AuthType":    &types.AttributeValueMemberS{Value: r.AuthType},
				"Valid":       &types.AttributeValueMemberBOOL{Value: r.Valid},
				"Bucket":      &types.AttributeValueMemberS{Value: r.Bucket},
				"OutputKey":   &types.AttributeValueMemberS{Value: r.OutputKey},
				"ProcessedAt": &types.AttributeValueMemberN{Value: processed},
				"ExpiresAt":   &types.AttributeValueMemberN{Value: expires}, // table TTL attribute
			}
			reqs = append(reqs, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
		if err := batchWriteWithRetry(ctx, a.Client, a.Table, reqs); err != nil {
			return fmt.Errorf("batch write audit records: %w", err)
		}
	}
	return nil
}

func (a *Audit) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *Audit) retention() time.Duration {
	if a.Retention <= 0 {
		return DefaultAuditRetention
	}
	return a.Retention
}

func batchWriteWithRetry(ctx context.Context, ddb DynamoDBAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	const maxAttempts = 6
	backoff := 120 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := ddb.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 2*time.Second {
			backoff += 120 * time.Millisecond
		}
	}
	return fmt.Errorf("unprocessed items remained after retries for table %s", table)
}
