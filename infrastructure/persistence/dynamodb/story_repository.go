package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
)

// StoryRepository implements ports.StoryRepository on the status table,
// keyed (user_alias, timestamp).
type StoryRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewStoryRepository creates a story repository.
func NewStoryRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.StoryRepository {
	return &StoryRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// storyItem is the DynamoDB item structure for one status in its
// author's story.
type storyItem struct {
	UserAlias       string `dynamodbav:"user_alias"`
	Timestamp       int64  `dynamodbav:"timestamp"`
	Post            string `dynamodbav:"post"`
	AuthorFirstName string `dynamodbav:"author_first_name"`
	AuthorLastName  string `dynamodbav:"author_last_name"`
	AuthorImageURL  string `dynamodbav:"author_image_url"`
}

func (i storyItem) toStatus() domain.Status {
	return domain.Status{
		Post: i.Post,
		Author: domain.UserRef{
			Alias:     i.UserAlias,
			FirstName: i.AuthorFirstName,
			LastName:  i.AuthorLastName,
			ImageURL:  i.AuthorImageURL,
		},
		Timestamp: i.Timestamp,
	}
}

// Append persists a status into its author's story.
func (r *StoryRepository) Append(ctx context.Context, status *domain.Status) error {
	item := storyItem{
		UserAlias:       status.Author.Alias,
		Timestamp:       status.Timestamp,
		Post:            status.Post,
		AuthorFirstName: status.Author.FirstName,
		AuthorLastName:  status.Author.LastName,
		AuthorImageURL:  status.Author.ImageURL,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to append status",
			zap.Error(err),
			zap.String("authorAlias", status.Author.Alias),
			zap.Int64("timestamp", status.Timestamp),
		)
		return fmt.Errorf("failed to append status: %w", err)
	}

	return nil
}

// Page returns statuses older than before (0 means newest), descending.
func (r *StoryRepository) Page(ctx context.Context, authorAlias string, limit int32, before int64) ([]domain.Status, int64, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_alias = :alias"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":alias": &types.AttributeValueMemberS{Value: authorAlias},
		},
		Limit:            aws.Int32(limit),
		ScanIndexForward: aws.Bool(false),
	}
	if before > 0 {
		input.ExclusiveStartKey = timestampKey("user_alias", authorAlias, before)
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query story: %w", err)
	}

	statuses := make([]domain.Status, 0, len(result.Items))
	for _, raw := range result.Items {
		var item storyItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal status: %w", err)
		}
		statuses = append(statuses, item.toStatus())
	}

	return statuses, lastTimestamp(result.LastEvaluatedKey), nil
}

// Delete removes one status from its author's story.
func (r *StoryRepository) Delete(ctx context.Context, authorAlias string, timestamp int64) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       timestampKey("user_alias", authorAlias, timestamp),
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete status: %w", err)
	}

	return nil
}

// timestampKey builds an (alias, timestamp) composite key with the
// given partition attribute name.
func timestampKey(pkName, alias string, timestamp int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkName:      &types.AttributeValueMemberS{Value: alias},
		"timestamp": &types.AttributeValueMemberN{Value: strconv.FormatInt(timestamp, 10)},
	}
}

// lastTimestamp extracts the timestamp from a LastEvaluatedKey, or 0
// when the sequence is exhausted.
func lastTimestamp(key map[string]types.AttributeValue) int64 {
	if key == nil {
		return 0
	}
	v, ok := key["timestamp"].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	ts, err := strconv.ParseInt(v.Value, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
