package survey

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmrwatch/internal/types"
)

// mockSQSSender captures the sent message for inspection.
type mockSQSSender struct {
	lastInput *sqs.SendMessageInput
	err       error
}

func (m *mockSQSSender) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.lastInput = params
	if m.err != nil {
		return nil, m.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func testSubmission() *types.SurveySubmission {
	score := 85.0
	return &types.SurveySubmission{
		ID:          "sub_123",
		Instrument:  types.InstrumentSUS,
		Respondent:  "engineer-01",
		Responses:   ratings(4, 2, 5, 1, 4, 2, 4, 1, 5, 2),
		SUSScore:    &score,
		SubmittedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestSQSSink_Publish(t *testing.T) {
	sender := &mockSQSSender{}
	sink := NewSQSSink(sender, "https://sqs.example.com/survey-queue", nil)

	err := sink.Publish(context.Background(), testSubmission())
	require.NoError(t, err)

	require.NotNil(t, sender.lastInput)
	assert.Equal(t, "https://sqs.example.com/survey-queue", *sender.lastInput.QueueUrl)

	// The message body round-trips the full submission.
	var sent types.SurveySubmission
	require.NoError(t, json.Unmarshal([]byte(*sender.lastInput.MessageBody), &sent))
	assert.Equal(t, "sub_123", sent.ID)
	require.NotNil(t, sent.SUSScore)
	assert.InDelta(t, 85.0, *sent.SUSScore, 0.001)

	attr, ok := sender.lastInput.MessageAttributes["instrument"]
	require.True(t, ok)
	assert.Equal(t, "sus", *attr.StringValue)
}

func TestSQSSink_Publish_SendFailure(t *testing.T) {
	sender := &mockSQSSender{err: errors.New("queue unavailable")}
	sink := NewSQSSink(sender, "https://sqs.example.com/survey-queue", nil)

	err := sink.Publish(context.Background(), testSubmission())
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUpstreamSink, appErr.Code)
}
