package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
)

// FollowRepository implements ports.FollowRepository on the follow
// table. The base table is keyed (follower_alias, followee_alias);
// reverse lookups go through a GSI keyed (followee_alias,
// follower_alias).
type FollowRepository struct {
	client        *dynamodb.Client
	tableName     string
	followeeIndex string
	logger        *zap.Logger
}

// NewFollowRepository creates a follow repository.
func NewFollowRepository(client *dynamodb.Client, tableName, followeeIndex string, logger *zap.Logger) ports.FollowRepository {
	return &FollowRepository{
		client:        client,
		tableName:     tableName,
		followeeIndex: followeeIndex,
		logger:        logger,
	}
}

// followItem is the DynamoDB item structure for one follow edge.
type followItem struct {
	FollowerAlias     string `dynamodbav:"follower_alias"`
	FolloweeAlias     string `dynamodbav:"followee_alias"`
	FollowerFirstName string `dynamodbav:"follower_first_name"`
	FollowerLastName  string `dynamodbav:"follower_last_name"`
	FollowerImageURL  string `dynamodbav:"follower_image_url"`
	FolloweeFirstName string `dynamodbav:"followee_first_name"`
	FolloweeLastName  string `dynamodbav:"followee_last_name"`
	FolloweeImageURL  string `dynamodbav:"followee_image_url"`
	CreatedAt         int64  `dynamodbav:"created_at"`
}

func (i followItem) followerRef() domain.UserRef {
	return domain.UserRef{
		Alias:     i.FollowerAlias,
		FirstName: i.FollowerFirstName,
		LastName:  i.FollowerLastName,
		ImageURL:  i.FollowerImageURL,
	}
}

func (i followItem) followeeRef() domain.UserRef {
	return domain.UserRef{
		Alias:     i.FolloweeAlias,
		FirstName: i.FolloweeFirstName,
		LastName:  i.FolloweeLastName,
		ImageURL:  i.FolloweeImageURL,
	}
}

// Create persists a follow edge.
func (r *FollowRepository) Create(ctx context.Context, edge *domain.FollowEdge) error {
	item := followItem{
		FollowerAlias:     edge.Follower.Alias,
		FolloweeAlias:     edge.Followee.Alias,
		FollowerFirstName: edge.Follower.FirstName,
		FollowerLastName:  edge.Follower.LastName,
		FollowerImageURL:  edge.Follower.ImageURL,
		FolloweeFirstName: edge.Followee.FirstName,
		FolloweeLastName:  edge.Followee.LastName,
		FolloweeImageURL:  edge.Followee.ImageURL,
		CreatedAt:         edge.CreatedAt,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal follow edge: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to create follow edge",
			zap.Error(err),
			zap.String("follower", edge.Follower.Alias),
			zap.String("followee", edge.Followee.Alias),
		)
		return fmt.Errorf("failed to create follow edge: %w", err)
	}

	return nil
}

// Delete removes a follow edge.
func (r *FollowRepository) Delete(ctx context.Context, followerAlias, followeeAlias string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       followKey(followerAlias, followeeAlias),
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}

	return nil
}

// IsFollowing reports whether the edge follower → followee exists.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerAlias, followeeAlias string) (bool, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       followKey(followerAlias, followeeAlias),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}

	return result.Item != nil, nil
}

// FollowersPage returns one page of followers of followeeAlias via the
// followee GSI, ordered by follower alias.
func (r *FollowRepository) FollowersPage(ctx context.Context, followeeAlias string, limit int32, cursor string) ([]domain.UserRef, string, error) {
	keyCond := expression.Key("followee_alias").Equal(expression.Value(followeeAlias))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build followers query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.followeeIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(limit),
	}
	if cursor != "" {
		input.ExclusiveStartKey = followKey(cursor, followeeAlias)
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query followers: %w", err)
	}

	refs := make([]domain.UserRef, 0, len(result.Items))
	for _, raw := range result.Items {
		var item followItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, "", fmt.Errorf("failed to unmarshal follow edge: %w", err)
		}
		refs = append(refs, item.followerRef())
	}

	return refs, lastFollowerAlias(result.LastEvaluatedKey), nil
}

// FolloweesPage returns one page of followees of followerAlias via the
// base table, ordered by followee alias.
func (r *FollowRepository) FolloweesPage(ctx context.Context, followerAlias string, limit int32, cursor string) ([]domain.UserRef, string, error) {
	keyCond := expression.Key("follower_alias").Equal(expression.Value(followerAlias))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build followees query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(limit),
	}
	if cursor != "" {
		input.ExclusiveStartKey = followKey(followerAlias, cursor)
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query followees: %w", err)
	}

	refs := make([]domain.UserRef, 0, len(result.Items))
	for _, raw := range result.Items {
		var item followItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, "", fmt.Errorf("failed to unmarshal follow edge: %w", err)
		}
		refs = append(refs, item.followeeRef())
	}

	return refs, lastFolloweeAlias(result.LastEvaluatedKey), nil
}

// FollowerAliasesPage is the projection-only follower query used by the
// fan-out pipeline: identities without display fields.
func (r *FollowRepository) FollowerAliasesPage(ctx context.Context, followeeAlias string, limit int32, cursor string) ([]string, string, error) {
	keyCond := expression.Key("followee_alias").Equal(expression.Value(followeeAlias))
	proj := expression.NamesList(expression.Name("follower_alias"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build follower aliases query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.followeeIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ProjectionExpression:      expr.Projection(),
		Limit:                     aws.Int32(limit),
	}
	if cursor != "" {
		input.ExclusiveStartKey = followKey(cursor, followeeAlias)
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query follower aliases: %w", err)
	}

	aliases := make([]string, 0, len(result.Items))
	for _, raw := range result.Items {
		var item followItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, "", fmt.Errorf("failed to unmarshal follow edge: %w", err)
		}
		aliases = append(aliases, item.FollowerAlias)
	}

	return aliases, lastFollowerAlias(result.LastEvaluatedKey), nil
}

// CountFollowers counts all followers of followeeAlias, paging through
// the GSI with Select=COUNT until exhausted.
func (r *FollowRepository) CountFollowers(ctx context.Context, followeeAlias string) (int, error) {
	keyCond := expression.Key("followee_alias").Equal(expression.Value(followeeAlias))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build follower count query: %w", err)
	}

	count := 0
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(r.followeeIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		}

		result, err := r.client.Query(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("failed to count followers: %w", err)
		}

		count += int(result.Count)
		if result.LastEvaluatedKey == nil {
			return count, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// CountFollowees counts all followees of followerAlias.
func (r *FollowRepository) CountFollowees(ctx context.Context, followerAlias string) (int, error) {
	keyCond := expression.Key("follower_alias").Equal(expression.Value(followerAlias))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build followee count query: %w", err)
	}

	count := 0
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		}

		result, err := r.client.Query(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("failed to count followees: %w", err)
		}

		count += int(result.Count)
		if result.LastEvaluatedKey == nil {
			return count, nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// followKey builds the composite key shared by the base table and, with
// both attributes present, GSI ExclusiveStartKeys.
func followKey(followerAlias, followeeAlias string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"follower_alias": &types.AttributeValueMemberS{Value: followerAlias},
		"followee_alias": &types.AttributeValueMemberS{Value: followeeAlias},
	}
}

func lastFollowerAlias(key map[string]types.AttributeValue) string {
	if key == nil {
		return ""
	}
	if v, ok := key["follower_alias"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func lastFolloweeAlias(key map[string]types.AttributeValue) string {
	if key == nil {
		return ""
	}
	if v, ok := key["followee_alias"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
