package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mbocharov/shortkv/internal/storage"
)

// Options configures the DynamoDB client. Endpoint is used to point the
// client at a local DynamoDB; static dummy credentials are installed in
// that case so the SDK does not reach for a real credential chain.
type Options struct {
	Region   string
	Table    string
	Endpoint string
}

// Store is a DynamoDB-backed implementation of the key-value contract.
// Each record is a single item: the key as the partition key and the
// serialized value as a string attribute.
type Store struct {
	ddb   *dynamodb.Client
	table string
}

type item struct {
	Key   string `dynamodbav:"id"`
	Value string `dynamodbav:"value"`
}

func New(ctx context.Context, opts Options) (*Store, error) {
	const op = "storage.dynamo.New"

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load aws config: %w", op, err)
	}

	var ddb *dynamodb.Client
	if opts.Endpoint != "" {
		cfg.Credentials = credentials.NewStaticCredentialsProvider("local", "local", "local")
		ddb = dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		})
	} else {
		ddb = dynamodb.NewFromConfig(cfg)
	}

	s := &Store{
		ddb:   ddb,
		table: opts.Table,
	}

	if err := s.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// ensureTable creates the table when it does not exist yet.
func (s *Store) ensureTable(ctx context.Context) error {
	_, err := s.ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to describe table: %w", err)
	}

	_, err = s.ddb.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("id"),
				KeyType:       types.KeyTypeHash,
			},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("id"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.dynamo.Store.Get"

	result, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to get item: %w", op, err)
	}
	if result.Item == nil {
		return "", fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
	}

	var it item
	if err := attributevalue.UnmarshalMap(result.Item, &it); err != nil {
		return "", fmt.Errorf("%s: failed to unmarshal item: %w", op, err)
	}

	return it.Value, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	const op = "storage.dynamo.Store.Put"

	av, err := attributevalue.MarshalMap(item{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("%s: failed to marshal item: %w", op, err)
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to put item: %w", op, err)
	}

	return nil
}

func (s *Store) PutIfAbsent(ctx context.Context, key string, value string) (bool, error) {
	const op = "storage.dynamo.Store.PutIfAbsent"

	av, err := attributevalue.MarshalMap(item{Key: key, Value: value})
	if err != nil {
		return false, fmt.Errorf("%s: failed to marshal item: %w", op, err)
	}

	cond := expression.AttributeNotExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build condition expression: %w", op, err)
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.table),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conflict *types.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			return false, nil
		}

		return false, fmt.Errorf("%s: failed to put item: %w", op, err)
	}

	return true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "storage.dynamo.Store.Delete"

	_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return fmt.Errorf("%s: failed to delete item: %w", op, err)
	}

	return nil
}

var _ storage.ConditionalStore = (*Store)(nil)
