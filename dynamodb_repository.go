package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrItemNotFound is returned by DynamoDBRepository.FindById for a missing key.
var ErrItemNotFound = errors.New("item not found")

// DynamoDBAPI is the subset of *dynamodb.Client the repository uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// DynamoDBItem is the single-table envelope: every entity type owns the
// partition named after it and is keyed by its id in the sort key.
type DynamoDBItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	Data      string `dynamodbav:"data"`
	CreatedAt int64  `dynamodbav:"createdAt"`
	UpdatedAt int64  `dynamodbav:"updatedAt"`
}

type DynamoDBRepository[T any] struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoDBRepository creates the table when it does not exist, unless the
// config asks to skip table creation.
func NewDynamoDBRepository[T any](ctx context.Context, client DynamoDBAPI, cfg *DynamoDBConfig) (*DynamoDBRepository[T], error) {
	repo := &DynamoDBRepository[T]{
		client:    client,
		tableName: cfg.TableName,
	}

	if cfg.SkipTableCreation {
		return repo, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := repo.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(repo.tableName),
	})
	if err == nil {
		return repo, nil
	}

	var notFoundEx *types.ResourceNotFoundException
	if !errors.As(err, &notFoundEx) {
		return nil, fmt.Errorf("failed to describe DynamoDB table %s: %w", repo.tableName, err)
	}
	if err := repo.CreateTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB table %s: %w", repo.tableName, err)
	}
	return repo, nil
}

func (r *DynamoDBRepository[T]) FindById(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result T
	key, err := attributevalue.MarshalMap(map[string]string{
		"pk": r.partitionKey(),
		"sk": id,
	})
	if err != nil {
		return result, err
	}

	output, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return result, err
	}
	if output.Item == nil {
		return result, ErrItemNotFound
	}

	var item DynamoDBItem
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil {
		return result, err
	}
	err = json.Unmarshal([]byte(item.Data), &result)
	return result, err
}

// FindAll reads the whole partition of T, following LastEvaluatedKey until
// the query is exhausted.
func (r *DynamoDBRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	results := []T{}
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: r.partitionKey()},
		},
	}

	for {
		output, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}

		for _, raw := range output.Items {
			var item DynamoDBItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, err
			}
			var entity T
			if err := json.Unmarshal([]byte(item.Data), &entity); err != nil {
				return nil, err
			}
			results = append(results, entity)
		}

		if len(output.LastEvaluatedKey) == 0 {
			return results, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

func (r *DynamoDBRepository[T]) Save(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sk, err := sortKey(doc)
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	av, err := attributevalue.MarshalMap(DynamoDBItem{
		PK:        r.partitionKey(),
		SK:        sk,
		Data:      string(data),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func (r *DynamoDBRepository[T]) CreateTable(ctx context.Context) error {
	input := &dynamodb.CreateTableInput{
		TableName: aws.String(r.tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("pk"),
				AttributeType: types.ScalarAttributeTypeS,
			},
			{
				AttributeName: aws.String("sk"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("pk"),
				KeyType:       types.KeyTypeHash,
			},
			{
				AttributeName: aws.String("sk"),
				KeyType:       types.KeyTypeRange,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	}

	_, err := r.client.CreateTable(ctx, input)
	return err
}

func (r *DynamoDBRepository[T]) partitionKey() string {
	var entity T
	typ := reflect.TypeOf(entity)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ.Name()
}

// sortKey reads the field tagged `blog:"id"`.
func sortKey(entity interface{}) (string, error) {
	val := reflect.ValueOf(entity)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		if tag, ok := typ.Field(i).Tag.Lookup("blog"); ok && tag == "id" {
			return val.Field(i).String(), nil
		}
	}

	return "", errors.New(`blog:"id" tag not found in struct`)
}
