package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
)

// SessionRepository implements ports.SessionRepository on the session
// table. The ttl attribute is a DynamoDB TTL in epoch seconds; expiry
// is still enforced on read because TTL deletion is lazy.
type SessionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSessionRepository creates a session repository.
func NewSessionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.SessionRepository {
	return &SessionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// sessionItem is the DynamoDB item structure for a session.
type sessionItem struct {
	Token    string `dynamodbav:"token"`
	Alias    string `dynamodbav:"alias"`
	IssuedAt int64  `dynamodbav:"issued_at"` // epoch millis
	TTL      int64  `dynamodbav:"ttl"`       // epoch seconds
}

// Create persists a session.
func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	item := sessionItem{
		Token:    session.Token,
		Alias:    session.Alias,
		IssuedAt: session.IssuedAt.UnixMilli(),
		TTL:      session.IssuedAt.Add(domain.SessionTTL).Unix(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to create session", zap.Error(err), zap.String("alias", session.Alias))
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by token.
func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"token": &types.AttributeValueMemberS{Value: token},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if result.Item == nil {
		return nil, apperrors.NewNotFoundError("session")
	}

	var item sessionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &domain.Session{
		Token:    item.Token,
		Alias:    item.Alias,
		IssuedAt: time.UnixMilli(item.IssuedAt),
	}, nil
}

// Delete removes a session by token.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"token": &types.AttributeValueMemberS{Value: token},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
