package realtime

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/ortocare/clinic-platform/pkg/logging"
)

type dynamoAPI interface {
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DocumentStore is the backend-facing side of the sync bridge.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]Record, error)
	Put(ctx context.Context, collection string, rec Record) (Record, error)
	Patch(ctx context.Context, collection, id string, partial Record) error
	Delete(ctx context.Context, collection, id string) error
}

// DynamoStore keeps every collection in a single DynamoDB table, partitioned
// by collection name with the document id as sort key. Documents are stored
// flattened, one attribute per field.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

var _ DocumentStore = (*DynamoStore)(nil)

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("realtime: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("realtime: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoStore{client: client, tableName: tableName, logger: logger}
}

// List returns the full current document set for the collection, ordered by
// updatedAt descending. There is no diffing: every read is a whole snapshot.
func (s *DynamoStore) List(ctx context.Context, collection string) ([]Record, error) {
	if !KnownCollection(collection) {
		return nil, ErrUnknownCollection
	}

	var records []Record
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("#c = :c"),
			ExpressionAttributeNames: map[string]string{
				"#c": "collection",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":c": &types.AttributeValueMemberS{Value: collection},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("realtime: list %s: %w", collection, err)
		}
		for _, item := range out.Items {
			var rec Record
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				s.logger.Warn("skipping undecodable document", "collection", collection, "error", err)
				continue
			}
			delete(rec, "collection")
			records = append(records, rec)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.SliceStable(records, func(i, j int) bool {
		// RFC3339Nano stamps compare correctly as strings.
		return records[i].UpdatedAt() > records[j].UpdatedAt()
	})
	return records, nil
}

// Put inserts a new document, assigning its id and stamping createdAt and
// updatedAt server-side.
func (s *DynamoStore) Put(ctx context.Context, collection string, rec Record) (Record, error) {
	if !KnownCollection(collection) {
		return nil, ErrUnknownCollection
	}
	if rec == nil {
		return nil, errors.New("realtime: record cannot be nil")
	}

	stored := make(Record, len(rec)+4)
	for k, v := range rec {
		stored[k] = v
	}
	if stored.ID() == "" {
		stored["id"] = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	stored["createdAt"] = now
	stored["updatedAt"] = now
	stored["collection"] = collection

	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return nil, fmt.Errorf("realtime: marshal document: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("realtime: put %s/%s: %w", collection, stored.ID(), err)
	}

	delete(stored, "collection")
	return stored, nil
}

// Patch applies a partial update to one document and refreshes its updatedAt
// stamp. Managed keys in the partial are ignored.
func (s *DynamoStore) Patch(ctx context.Context, collection, id string, partial Record) error {
	if !KnownCollection(collection) {
		return ErrUnknownCollection
	}
	if id == "" {
		return errors.New("realtime: document id required")
	}

	names := map[string]string{"#updated": "updatedAt"}
	values := map[string]types.AttributeValue{}
	clauses := []string{"#updated = :updated"}

	i := 0
	for field, value := range partial {
		switch field {
		case "id", "collection", "createdAt", "updatedAt":
			continue
		}
		attr, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("realtime: marshal field %s: %w", field, err)
		}
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		names[nameKey] = field
		values[valueKey] = attr
		clauses = append(clauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}
	values[":updated"] = &types.AttributeValueMemberS{
		Value: time.Now().UTC().Format(time.RFC3339Nano),
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"collection": &types.AttributeValueMemberS{Value: collection},
			"id":         &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(clauses, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("realtime: patch %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes one document from the collection.
func (s *DynamoStore) Delete(ctx context.Context, collection, id string) error {
	if !KnownCollection(collection) {
		return ErrUnknownCollection
	}
	if id == "" {
		return errors.New("realtime: document id required")
	}

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"collection": &types.AttributeValueMemberS{Value: collection},
			"id":         &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("realtime: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
