// Package dynamodb implements the repository ports on DynamoDB. Each
// table is single-purpose: user, session, follow, status (story) and
// feed. Sort-key ordering plus ScanIndexForward=false gives the
// descending-time reads; no negated-timestamp tricks.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
)

// UserRepository implements ports.UserRepository on the user table.
type UserRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUserRepository creates a user repository.
func NewUserRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// userItem is the DynamoDB item structure for a user profile.
type userItem struct {
	Alias         string `dynamodbav:"alias"`
	FirstName     string `dynamodbav:"first_name"`
	LastName      string `dynamodbav:"last_name"`
	ImageURL      string `dynamodbav:"image_url"`
	PasswordHash  string `dynamodbav:"password_hash"`
	FollowerCount int    `dynamodbav:"follower_count"`
	FolloweeCount int    `dynamodbav:"followee_count"`
}

func (i userItem) toUser() *domain.User {
	return &domain.User{
		Alias:         i.Alias,
		FirstName:     i.FirstName,
		LastName:      i.LastName,
		ImageURL:      i.ImageURL,
		FollowerCount: i.FollowerCount,
		FolloweeCount: i.FolloweeCount,
	}
}

// Create persists a new user profile with zeroed counters.
func (r *UserRepository) Create(ctx context.Context, user *domain.User, passwordHash string) error {
	item := userItem{
		Alias:        user.Alias,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		ImageURL:     user.ImageURL,
		PasswordHash: passwordHash,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(alias)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return apperrors.NewConflictError("alias is already taken")
		}
		r.logger.Error("Failed to create user", zap.Error(err), zap.String("alias", user.Alias))
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByAlias retrieves a user profile.
func (r *UserRepository) GetByAlias(ctx context.Context, alias string) (*domain.User, error) {
	item, err := r.getItem(ctx, alias)
	if err != nil {
		return nil, err
	}
	return item.toUser(), nil
}

// GetWithPassword retrieves a user profile together with the stored
// password hash.
func (r *UserRepository) GetWithPassword(ctx context.Context, alias string) (*domain.User, string, error) {
	item, err := r.getItem(ctx, alias)
	if err != nil {
		return nil, "", err
	}
	return item.toUser(), item.PasswordHash, nil
}

func (r *UserRepository) getItem(ctx context.Context, alias string) (*userItem, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"alias": &types.AttributeValueMemberS{Value: alias},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if result.Item == nil {
		return nil, apperrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &item, nil
}

// AdjustCounts atomically adds the deltas to the stored counters.
func (r *UserRepository) AdjustCounts(ctx context.Context, alias string, followerDelta, followeeDelta int) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"alias": &types.AttributeValueMemberS{Value: alias},
		},
		UpdateExpression: aws.String("ADD follower_count :fr, followee_count :fe"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fr": &types.AttributeValueMemberN{Value: strconv.Itoa(followerDelta)},
			":fe": &types.AttributeValueMemberN{Value: strconv.Itoa(followeeDelta)},
		},
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("failed to adjust counts for %s: %w", alias, err)
	}

	return nil
}
