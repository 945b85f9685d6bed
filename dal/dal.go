package dal

import (
	"context"
	"errors"
	"fmt"
	"washpro-backend/models"

	"washpro-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// ErrConditionalCheckFailed is returned when a conditional write loses its
// condition. Repositories translate it into the matching domain error.
var ErrConditionalCheckFailed = errors.New("conditional check failed")

// Condition constrains a write to the current state of one attribute.
// Absent requires attribute_not_exists(Field); otherwise Field must equal
// Equals. Stage advances and the one-shot claim guards both ride on this.
type Condition struct {
	Field  string
	Equals interface{}
	Absent bool
}

type DynamoDBClient struct {
	client *dynamodb.Client
	config *models.Config
	logger logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Override endpoint for local DynamoDB
	if cfg.DynamoDBEndpoint != "" {
		awsCfg.EndpointResolver = aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:           cfg.DynamoDBEndpoint,
				SigningRegion: cfg.AWSRegion,
			}, nil
		})
	}

	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		))
	}

	client := dynamodb.NewFromConfig(awsCfg)

	dbClient := &DynamoDBClient{
		client: client,
		config: cfg,
		logger: log,
	}

	log.Info("DynamoDB client initialized successfully")
	return dbClient, nil
}

// GetItem retrieves a single item, either by primary key or through a GSI
// lookup when QueryConfig.IndexName is set.
func (db *DynamoDBClient) GetItem(ctx context.Context, cfg models.QueryConfig, result interface{}) error {
	if cfg.IndexName != "" {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(cfg.TableName),
			IndexName:              aws.String(cfg.IndexName),
			Limit:                  aws.Int32(1),
			KeyConditionExpression: aws.String("#kn = :kv"),
			ExpressionAttributeNames: map[string]string{
				"#kn": cfg.KeyName,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":kv": &types.AttributeValueMemberS{Value: cfg.KeyValue},
			},
		}

		output, err := db.client.Query(ctx, input)
		if err != nil {
			db.logger.Errorf("Failed to query item by %s: %v", cfg.KeyName, err)
			return err
		}
		if len(output.Items) == 0 {
			return nil
		}
		return attributevalue.UnmarshalMap(output.Items[0], result)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(cfg.TableName),
		Key: map[string]types.AttributeValue{
			cfg.KeyName: &types.AttributeValueMemberS{Value: cfg.KeyValue},
		},
	}

	output, err := db.client.GetItem(ctx, input)
	if err != nil {
		db.logger.Errorf("Failed to get item: %v", err)
		return err
	}

	if output.Item == nil {
		return nil
	}

	return attributevalue.UnmarshalMap(output.Item, result)
}

// PutItem stores an item, overwriting any existing row with the same key
func (db *DynamoDBClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	}

	_, err = db.client.PutItem(ctx, input)
	return err
}

// PutItemIfAbsent stores an item only when no row with the same key exists.
// Returns ErrConditionalCheckFailed on a duplicate key.
func (db *DynamoDBClient) PutItemIfAbsent(ctx context.Context, tableName, keyName string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{
			"#pk": keyName,
		},
	}

	if _, err := db.client.PutItem(ctx, input); err != nil {
		return classifyConditionalError(err)
	}
	return nil
}

// UpdateItem applies a SET update for each entry in updates
func (db *DynamoDBClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	return db.ConditionalUpdateItem(ctx, tableName, key, keyValue, updates, nil)
}

// ConditionalUpdateItem applies a SET update gated on cond. With a nil cond it
// degrades to a plain update. A lost condition returns
// ErrConditionalCheckFailed without writing anything.
func (db *DynamoDBClient) ConditionalUpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}, cond *Condition) error {
	updateExpression := "SET "
	expressionAttributeNames := make(map[string]string)
	expressionAttributeValues := make(map[string]types.AttributeValue)

	i := 0
	for field, value := range updates {
		if i > 0 {
			updateExpression += ", "
		}

		attrName := "#" + field
		attrValue := ":" + field

		updateExpression += attrName + " = " + attrValue
		expressionAttributeNames[attrName] = field

		av, err := attributevalue.Marshal(value)
		if err != nil {
			return err
		}
		expressionAttributeValues[attrValue] = av
		i++
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: keyValue},
		},
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeNames:  expressionAttributeNames,
		ExpressionAttributeValues: expressionAttributeValues,
		ReturnValues:              types.ReturnValueAllNew,
	}

	if cond != nil {
		condName := "#cond_" + cond.Field
		expressionAttributeNames[condName] = cond.Field
		if cond.Absent {
			input.ConditionExpression = aws.String("attribute_not_exists(" + condName + ")")
		} else {
			av, err := attributevalue.Marshal(cond.Equals)
			if err != nil {
				return err
			}
			expressionAttributeValues[":cond_value"] = av
			input.ConditionExpression = aws.String(condName + " = :cond_value")
		}
	}

	if _, err := db.client.UpdateItem(ctx, input); err != nil {
		return classifyConditionalError(err)
	}
	return nil
}

// DeleteItem deletes an item
func (db *DynamoDBClient) DeleteItem(ctx context.Context, tableName, key, value string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: value},
		},
	}

	_, err := db.client.DeleteItem(ctx, input)
	return err
}

// QueryByIndex queries items using a global secondary index
func (db *DynamoDBClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(tableName),
		IndexName:              aws.String(indexName),
		Limit:                  aws.Int32(50),
		KeyConditionExpression: aws.String("#kn0 = :kv0"),
		ExpressionAttributeNames: map[string]string{
			"#kn0": keyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kv0": &types.AttributeValueMemberS{Value: keyValue},
		},
	}

	output, err := db.client.Query(ctx, input)
	if err != nil {
		return err
	}

	return attributevalue.UnmarshalListOfMaps(output.Items, results)
}

// Scan scans the entire table
func (db *DynamoDBClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}

	output, err := db.client.Scan(ctx, input)
	if err != nil {
		return err
	}

	return attributevalue.UnmarshalListOfMaps(output.Items, results)
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}
	return db.client.DescribeTable(ctx, input)
}

// classifyConditionalError maps the SDK's conditional-check failure onto the
// package sentinel and passes every other error through untouched.
func classifyConditionalError(err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%w: %s", ErrConditionalCheckFailed, aws.ToString(ccf.Message))
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
		return fmt.Errorf("%w: %s", ErrConditionalCheckFailed, apiErr.ErrorMessage())
	}

	return err
}
