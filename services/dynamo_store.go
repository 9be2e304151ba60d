package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gheetdufa/ifad-portal-sub001/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore is the production RecordStore on a single DynamoDB table with
// two global secondary indexes.
type DynamoStore struct {
	Client    *dynamodb.Client
	TableName string
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

func primaryKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: pk},
		AttrSK: &types.AttributeValueMemberS{Value: sk},
	}
}

// GetItem retrieves a record by primary key, returning nil when absent.
func (ds *DynamoStore) GetItem(ctx context.Context, pk, sk string) (Record, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &ds.TableName,
		Key:       primaryKey(pk, sk),
	})
	if err != nil {
		log.Printf("GetItem %s failed: %v", pk, err)
		return nil, fmt.Errorf("failed to get item %q: %w", pk, models.ErrStoreUnavailable)
	}
	if output.Item == nil {
		return nil, nil
	}
	return output.Item, nil
}

// PutItem upserts the record, replacing any previous version in full.
func (ds *DynamoStore) PutItem(ctx context.Context, item Record) error {
	_, err := ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &ds.TableName,
		Item:      item,
	})
	if err != nil {
		log.Printf("PutItem failed: %v", err)
		return fmt.Errorf("failed to put item: %w", models.ErrStoreUnavailable)
	}
	return nil
}

// PutItemIfAbsent writes the record under a primary-key-absence condition.
// The conditional write is what closes the duplicate-submission race: the
// losing writer gets models.ErrConditionFailed instead of clobbering.
func (ds *DynamoStore) PutItemIfAbsent(ctx context.Context, item Record) error {
	_, err := ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &ds.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return models.ErrConditionFailed
		}
		log.Printf("Conditional PutItem failed: %v", err)
		return fmt.Errorf("failed to put item: %w", models.ErrStoreUnavailable)
	}
	return nil
}

// DeleteItem removes a record by primary key.
func (ds *DynamoStore) DeleteItem(ctx context.Context, pk, sk string) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &ds.TableName,
		Key:       primaryKey(pk, sk),
	})
	if err != nil {
		log.Printf("DeleteItem %s failed: %v", pk, err)
		return fmt.Errorf("failed to delete item %q: %w", pk, models.ErrStoreUnavailable)
	}
	return nil
}

// QueryByIndex queries one of the two GSIs by partition key, optionally
// narrowed to a sort-key prefix, ascending by the index sort key.
func (ds *DynamoStore) QueryByIndex(ctx context.Context, indexName, indexKey string, opts QueryOptions) (*QueryPage, error) {
	pkAttr, skAttr, err := indexKeyAttrs(indexName)
	if err != nil {
		return nil, err
	}

	keyCondition := "#pk = :pk"
	names := map[string]string{"#pk": pkAttr}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: indexKey},
	}
	if opts.SortKeyPrefix != "" {
		keyCondition += " AND begins_with(#sk, :skPrefix)"
		names["#sk"] = skAttr
		values[":skPrefix"] = &types.AttributeValueMemberS{Value: opts.SortKeyPrefix}
	}

	input := &dynamodb.QueryInput{
		TableName:                 &ds.TableName,
		IndexName:                 &indexName,
		KeyConditionExpression:    &keyCondition,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
	if opts.Limit > 0 {
		input.Limit = &opts.Limit
	}
	if opts.StartToken != "" {
		startKey, err := decodeStartKey(opts.StartToken)
		if err != nil {
			return nil, err
		}
		input.ExclusiveStartKey = stringKeyToAttributes(startKey)
	}

	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		log.Printf("Query on index %s failed: %v", indexName, err)
		return nil, fmt.Errorf("failed to query index %q: %w", indexName, models.ErrStoreUnavailable)
	}

	return &QueryPage{
		Items:     output.Items,
		NextToken: encodeStartKey(attributesToStringKey(output.LastEvaluatedKey)),
	}, nil
}

// QueryByPrefix queries the base table for the records under one partition key
// whose sort key begins with skPrefix.
func (ds *DynamoStore) QueryByPrefix(ctx context.Context, pk, skPrefix string) ([]Record, error) {
	keyCondition := "PK = :pk AND begins_with(SK, :skPrefix)"
	output, err := ds.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &ds.TableName,
		KeyConditionExpression: &keyCondition,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":       &types.AttributeValueMemberS{Value: pk},
			":skPrefix": &types.AttributeValueMemberS{Value: skPrefix},
		},
	})
	if err != nil {
		log.Printf("Prefix query %s failed: %v", pk, err)
		return nil, fmt.Errorf("failed to query %q: %w", pk, models.ErrStoreUnavailable)
	}
	return output.Items, nil
}

// ScanAll walks the full table and applies the filter callback in memory.
// Deliberately O(table size); used only where no index fits the query shape.
func (ds *DynamoStore) ScanAll(ctx context.Context, filter func(Record) bool, opts QueryOptions) (*QueryPage, error) {
	input := &dynamodb.ScanInput{
		TableName: &ds.TableName,
	}
	if opts.Limit > 0 {
		input.Limit = &opts.Limit
	}
	if opts.StartToken != "" {
		startKey, err := decodeStartKey(opts.StartToken)
		if err != nil {
			return nil, err
		}
		input.ExclusiveStartKey = stringKeyToAttributes(startKey)
	}

	output, err := ds.Client.Scan(ctx, input)
	if err != nil {
		log.Printf("Scan failed: %v", err)
		return nil, fmt.Errorf("failed to scan table: %w", models.ErrStoreUnavailable)
	}

	var filtered []Record
	for _, item := range output.Items {
		if filter == nil || filter(item) {
			filtered = append(filtered, item)
		}
	}

	return &QueryPage{
		Items:     filtered,
		NextToken: encodeStartKey(attributesToStringKey(output.LastEvaluatedKey)),
	}, nil
}

// All key attributes in this schema are strings, so continuation tokens carry
// a plain string map.
func attributesToStringKey(key map[string]types.AttributeValue) map[string]string {
	if len(key) == 0 {
		return nil
	}
	out := make(map[string]string, len(key))
	for name, attr := range key {
		if s, ok := attr.(*types.AttributeValueMemberS); ok {
			out[name] = s.Value
		}
	}
	return out
}

func stringKeyToAttributes(key map[string]string) map[string]types.AttributeValue {
	if len(key) == 0 {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(key))
	for name, value := range key {
		out[name] = &types.AttributeValueMemberS{Value: value}
	}
	return out
}
