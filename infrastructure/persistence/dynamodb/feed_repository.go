package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
)

// FeedRepository implements ports.FeedRepository on the feed table,
// keyed (receiver_alias, timestamp). PutItem overwrites on identical
// keys, which is exactly the idempotent upsert the fan-out pipeline
// relies on under redelivery.
type FeedRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewFeedRepository creates a feed repository.
func NewFeedRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.FeedRepository {
	return &FeedRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// feedItem is the DynamoDB item structure for one materialized feed
// entry: a denormalized copy of the status under the recipient's key.
type feedItem struct {
	ReceiverAlias   string `dynamodbav:"receiver_alias"`
	Timestamp       int64  `dynamodbav:"timestamp"`
	Post            string `dynamodbav:"post"`
	AuthorAlias     string `dynamodbav:"author_alias"`
	AuthorFirstName string `dynamodbav:"author_first_name"`
	AuthorLastName  string `dynamodbav:"author_last_name"`
	AuthorImageURL  string `dynamodbav:"author_image_url"`
}

func (i feedItem) toStatus() domain.Status {
	return domain.Status{
		Post: i.Post,
		Author: domain.UserRef{
			Alias:     i.AuthorAlias,
			FirstName: i.AuthorFirstName,
			LastName:  i.AuthorLastName,
			ImageURL:  i.AuthorImageURL,
		},
		Timestamp: i.Timestamp,
	}
}

// Upsert writes a feed entry keyed by (receiver, status timestamp).
func (r *FeedRepository) Upsert(ctx context.Context, receiverAlias string, status *domain.Status) error {
	item := feedItem{
		ReceiverAlias:   receiverAlias,
		Timestamp:       status.Timestamp,
		Post:            status.Post,
		AuthorAlias:     status.Author.Alias,
		AuthorFirstName: status.Author.FirstName,
		AuthorLastName:  status.Author.LastName,
		AuthorImageURL:  status.Author.ImageURL,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal feed entry: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to upsert feed entry",
			zap.Error(err),
			zap.String("receiverAlias", receiverAlias),
			zap.Int64("timestamp", status.Timestamp),
		)
		return fmt.Errorf("failed to upsert feed entry: %w", err)
	}

	return nil
}

// Page returns feed entries older than before (0 means newest),
// descending.
func (r *FeedRepository) Page(ctx context.Context, receiverAlias string, limit int32, before int64) ([]domain.Status, int64, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("receiver_alias = :alias"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":alias": &types.AttributeValueMemberS{Value: receiverAlias},
		},
		Limit:            aws.Int32(limit),
		ScanIndexForward: aws.Bool(false),
	}
	if before > 0 {
		input.ExclusiveStartKey = timestampKey("receiver_alias", receiverAlias, before)
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query feed: %w", err)
	}

	statuses := make([]domain.Status, 0, len(result.Items))
	for _, raw := range result.Items {
		var item feedItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal feed entry: %w", err)
		}
		statuses = append(statuses, item.toStatus())
	}

	return statuses, lastTimestamp(result.LastEvaluatedKey), nil
}

// Delete removes one feed entry.
func (r *FeedRepository) Delete(ctx context.Context, receiverAlias string, timestamp int64) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       timestampKey("receiver_alias", receiverAlias, timestamp),
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete feed entry: %w", err)
	}

	return nil
}
