package detection

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"

	"fmrwatch/internal/types"
)

// visionPrompt instructs the model to answer with a bare integer so the
// response parses without a structured-output schema.
const visionPrompt = "You are a road infrastructure inspector. Rate the road surface defect " +
	"severity of this image on a scale of 0 to 100, where 0 is a pristine surface and 100 is " +
	"impassable damage (deep potholes, severe erosion). Respond with only the integer."

// ChatCompleter abstracts the OpenAI chat completion call for testability.
// Production code uses *openai.Client.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ModelBacked assesses images with a vision model. All calls go through a
// circuit breaker so a misbehaving upstream trips fast instead of stalling
// the upload endpoint.
type ModelBacked struct {
	client  ChatCompleter
	model   string
	breaker *gobreaker.CircuitBreaker[openai.ChatCompletionResponse]
	logger  *slog.Logger
}

// NewModelBacked creates a model-backed detector over the given completion
// client. model selects the vision-capable model identifier.
func NewModelBacked(client ChatCompleter, model string, logger *slog.Logger) *ModelBacked {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker[openai.ChatCompletionResponse](gobreaker.Settings{
		Name:        "defect-detector",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &ModelBacked{
		client:  client,
		model:   model,
		breaker: cb,
		logger:  logger,
	}
}

// Detect sends the image to the vision model and maps the returned severity
// score onto the shared label split.
func (m *ModelBacked) Detect(ctx context.Context, image []byte, contentType string) (Result, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))

	resp, err := m.breaker.Execute(func() (openai.ChatCompletionResponse, error) {
		return m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: m.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: visionPrompt},
						{
							Type:     openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
						},
					},
				},
			},
			MaxTokens: 10,
		})
	})
	if err != nil {
		return Result{}, types.NewAppError(types.ErrCodeUpstreamDetector, "defect model call failed", err)
	}

	if len(resp.Choices) == 0 {
		return Result{}, types.NewAppError(types.ErrCodeUpstreamDetector, "defect model returned no choices", nil)
	}

	score, err := parseScore(resp.Choices[0].Message.Content)
	if err != nil {
		return Result{}, types.NewAppError(types.ErrCodeUpstreamDetector, "defect model returned an unparseable score", err)
	}

	res := Result{Label: labelForScore(score), Score: score}
	m.logger.InfoContext(ctx, "model: image assessed",
		"model", m.model,
		"score", res.Score,
		"label", res.Label,
	)
	return res, nil
}

// Name identifies the model-backed variant.
func (m *ModelBacked) Name() string {
	return "model_backed"
}

// parseScore extracts the integer severity score from the model response and
// clamps it to [0, 100].
func parseScore(content string) (int, error) {
	fields := strings.Fields(strings.TrimSpace(content))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty model response")
	}
	score, err := strconv.Atoi(strings.Trim(fields[0], ".,%"))
	if err != nil {
		return 0, fmt.Errorf("parsing score from %q: %w", content, err)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}
