// Package di wires the application together with compile-time
// dependency injection. Every store and queue client is constructed
// here and passed down explicitly; nothing holds process-global state.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"flock-backend/application/fanout"
	"flock-backend/application/ports"
	"flock-backend/application/services"
	"flock-backend/infrastructure/config"
	"flock-backend/infrastructure/messaging/sqs"
	"flock-backend/infrastructure/persistence/dynamodb"
	"flock-backend/infrastructure/storage/s3"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	AuthService   *services.AuthService
	UserService   *services.UserService
	FollowService *services.FollowService
	StatusService *services.StatusService
	PostService   *services.PostService

	ExpansionStage *fanout.ExpansionStage
	UpdateStage    *fanout.UpdateStage
}

// ProvideLogger creates a logger for the configured environment.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig loads the AWS SDK configuration.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client.
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideSQSClient creates an SQS client.
func ProvideSQSClient(awsCfg aws.Config) *awssqs.Client {
	return awssqs.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client.
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideUserRepository creates the user repository.
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.UserTable, logger)
}

// ProvideSessionRepository creates the session repository.
func ProvideSessionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SessionRepository {
	return dynamodb.NewSessionRepository(client, cfg.SessionTable, logger)
}

// ProvideFollowRepository creates the follow repository.
func ProvideFollowRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.FollowRepository {
	return dynamodb.NewFollowRepository(client, cfg.FollowTable, cfg.FolloweeIndex, logger)
}

// ProvideStoryRepository creates the story repository.
func ProvideStoryRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.StoryRepository {
	return dynamodb.NewStoryRepository(client, cfg.StatusTable, logger)
}

// ProvideFeedRepository creates the feed repository.
func ProvideFeedRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.FeedRepository {
	return dynamodb.NewFeedRepository(client, cfg.FeedTable, logger)
}

// ProvideFanoutQueue creates the SQS-backed fan-out queue.
func ProvideFanoutQueue(client *awssqs.Client, cfg *config.Config, logger *zap.Logger) ports.FanoutQueue {
	return sqs.NewQueue(client, cfg.PostStatusQueueURL, cfg.UpdateFeedQueueURL, logger)
}

// ProvideImageStore creates the S3-backed profile image store.
func ProvideImageStore(client *awss3.Client, cfg *config.Config, logger *zap.Logger) ports.ImageStore {
	return s3.NewImageStore(client, cfg.AvatarBucket, cfg.AWSRegion, logger)
}

// ProvideAuthService creates the auth service.
func ProvideAuthService(sessions ports.SessionRepository, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(sessions, logger)
}

// ProvideUserService creates the user service.
func ProvideUserService(users ports.UserRepository, images ports.ImageStore, auth *services.AuthService, logger *zap.Logger) *services.UserService {
	return services.NewUserService(users, images, auth, logger)
}

// ProvideFollowService creates the follow service.
func ProvideFollowService(users ports.UserRepository, follows ports.FollowRepository, logger *zap.Logger) *services.FollowService {
	return services.NewFollowService(users, follows, logger)
}

// ProvideStatusService creates the status service.
func ProvideStatusService(
	stories ports.StoryRepository,
	feeds ports.FeedRepository,
	follows ports.FollowRepository,
	logger *zap.Logger,
) *services.StatusService {
	return services.NewStatusService(stories, feeds, follows, logger)
}

// ProvidePostService creates the post orchestrator.
func ProvidePostService(stories ports.StoryRepository, queue ports.FanoutQueue, logger *zap.Logger) *services.PostService {
	return services.NewPostService(stories, queue, logger)
}

// ProvideExpansionStage creates the follower expansion stage.
func ProvideExpansionStage(
	follows ports.FollowRepository,
	queue ports.FanoutQueue,
	cfg *config.Config,
	logger *zap.Logger,
) *fanout.ExpansionStage {
	return fanout.NewExpansionStage(follows, queue, int32(cfg.FanoutPageSize), logger)
}

// ProvideUpdateStage creates the feed update stage.
func ProvideUpdateStage(feeds ports.FeedRepository, logger *zap.Logger) *fanout.UpdateStage {
	return fanout.NewUpdateStage(feeds, logger)
}
