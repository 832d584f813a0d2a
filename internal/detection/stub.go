package detection

import (
	"context"
	"log/slog"
	"math/rand"
)

// Stub score bounds, inclusive.
const (
	stubMinScore = 10
	stubMaxScore = 95
)

// RandomStub simulates the defect model by drawing a severity score in
// [10, 95]. It stands in until a trained model replaces it behind the same
// Detector seam.
type RandomStub struct {
	intN   func(n int) int
	logger *slog.Logger
}

// RandomStubOption is a functional option for configuring a RandomStub.
type RandomStubOption func(*RandomStub)

// WithIntN overrides the random source. Intended for tests that need
// deterministic scores.
func WithIntN(fn func(n int) int) RandomStubOption {
	return func(s *RandomStub) {
		s.intN = fn
	}
}

// NewRandomStub creates a stub detector.
func NewRandomStub(logger *slog.Logger, opts ...RandomStubOption) *RandomStub {
	if logger == nil {
		logger = slog.Default()
	}
	s := &RandomStub{
		intN:   rand.Intn,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detect ignores the image content and returns a random assessment.
func (s *RandomStub) Detect(ctx context.Context, image []byte, contentType string) (Result, error) {
	score := stubMinScore + s.intN(stubMaxScore-stubMinScore+1)
	res := Result{
		Label: labelForScore(score),
		Score: score,
	}

	s.logger.InfoContext(ctx, "stub: image assessed",
		"bytes", len(image),
		"content_type", contentType,
		"score", res.Score,
		"label", res.Label,
	)
	return res, nil
}

// Name identifies the stub variant.
func (s *RandomStub) Name() string {
	return "random_stub"
}
