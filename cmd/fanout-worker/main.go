// The fanout-worker consumes status payloads from the post-status queue
// and enqueues one feed update job per follower of the author. Failures
// return an error to the Lambda runtime so the batch is redelivered
// after the visibility timeout.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"flock-backend/infrastructure/config"
	"flock-backend/infrastructure/di"
)

var container *di.Container

func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// Handler processes one SQS batch from the post-status queue.
func Handler(ctx context.Context, event events.SQSEvent) error {
	bodies := make([][]byte, 0, len(event.Records))
	for _, record := range event.Records {
		bodies = append(bodies, []byte(record.Body))
	}

	container.Logger.Info("processing expansion batch",
		zap.Int("messages", len(bodies)),
	)

	return container.ExpansionStage.ProcessBatch(ctx, bodies)
}

func main() {
	lambda.Start(Handler)
}
