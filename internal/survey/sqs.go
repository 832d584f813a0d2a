package survey

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"fmrwatch/internal/types"
)

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSink publishes survey submissions to an SQS queue for downstream
// evaluation analytics.
type SQSSink struct {
	client   SQSSender
	queueURL string
	logger   *slog.Logger
}

// NewSQSSink creates an SQSSink targeting the given queue URL.
func NewSQSSink(client SQSSender, queueURL string, logger *slog.Logger) *SQSSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQSSink{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// Publish serializes the submission to JSON and dispatches it to the queue.
func (s *SQSSink) Publish(ctx context.Context, sub *types.SurveySubmission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to marshal survey submission", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"instrument": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(sub.Instrument)),
			},
		},
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		return types.NewAppError(types.ErrCodeUpstreamSink, "failed to publish survey submission", err)
	}

	s.logger.InfoContext(ctx, "survey submission published",
		"submission_id", sub.ID,
		"instrument", sub.Instrument,
	)
	return nil
}
