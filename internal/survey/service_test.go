package survey

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fmrwatch/internal/types"
)

// mockStore is a testify mock for SubmissionStore.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, sub *types.SurveySubmission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// mockSink is a testify mock for EvaluationSink.
type mockSink struct {
	mock.Mock
}

func (m *mockSink) Publish(ctx context.Context, sub *types.SurveySubmission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
}

func newTestService(store SubmissionStore, sink EvaluationSink) *Service {
	svc := NewService(store, sink, nil)
	svc.now = fixedNow
	return svc
}

func TestService_Submit_SUS(t *testing.T) {
	store := &mockStore{}
	sink := &mockSink{}
	store.On("Create", mock.Anything, mock.Anything).Return(nil)
	sink.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(store, sink)

	sub, err := svc.Submit(context.Background(), SubmitRequest{
		Instrument: "sus",
		Respondent: "engineer-01",
		Responses:  ratings(5, 1, 5, 1, 5, 1, 5, 1, 5, 1),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, types.InstrumentSUS, sub.Instrument)
	assert.Equal(t, "engineer-01", sub.Respondent)
	assert.Equal(t, fixedNow(), sub.SubmittedAt)
	require.NotNil(t, sub.SUSScore)
	assert.InDelta(t, 100.0, *sub.SUSScore, 0.001)

	store.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestService_Submit_TAMIsNeverSUSScored(t *testing.T) {
	sink := &mockSink{}
	sink.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(nil, sink)

	// Ten TAM items would satisfy the SUS item count; the score must still
	// stay unset for a TAM submission.
	sub, err := svc.Submit(context.Background(), SubmitRequest{
		Instrument: "tam",
		Responses:  ratings(4, 4, 4, 4, 4, 4, 4, 4, 4, 4),
	})
	require.NoError(t, err)

	assert.Equal(t, types.InstrumentTAM, sub.Instrument)
	assert.Nil(t, sub.SUSScore)
}

func TestService_Submit_PartialSUSStoredUnscored(t *testing.T) {
	sink := &mockSink{}
	sink.On("Publish", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(nil, sink)

	sub, err := svc.Submit(context.Background(), SubmitRequest{
		Instrument: "sus",
		Responses:  ratings(3, 4, 2),
	})
	require.NoError(t, err)
	assert.Nil(t, sub.SUSScore)
}

func TestService_Submit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      SubmitRequest
		wantCode types.ErrorCode
	}{
		{
			name:     "unknown instrument",
			req:      SubmitRequest{Instrument: "nps", Responses: ratings(3)},
			wantCode: types.ErrCodeValidationInstrument,
		},
		{
			name:     "no responses",
			req:      SubmitRequest{Instrument: "sus"},
			wantCode: types.ErrCodeValidationMissingField,
		},
		{
			name:     "rating below scale",
			req:      SubmitRequest{Instrument: "sus", Responses: ratings(3, 0, 3)},
			wantCode: types.ErrCodeValidationLikertRange,
		},
		{
			name:     "rating above scale",
			req:      SubmitRequest{Instrument: "tam", Responses: ratings(6)},
			wantCode: types.ErrCodeValidationLikertRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &mockSink{}
			svc := newTestService(nil, sink)

			_, err := svc.Submit(context.Background(), tt.req)
			require.Error(t, err)

			var appErr *types.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)

			sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Submit_StoreFailureFailsSubmission(t *testing.T) {
	store := &mockStore{}
	sink := &mockSink{}
	dbErr := types.NewAppError(types.ErrCodeInternalDB, "insert failed", errors.New("boom"))
	store.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	svc := newTestService(store, sink)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		Instrument: "tam",
		Responses:  ratings(4),
	})
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)

	sink.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_Submit_SinkFailureDoesNotFailSubmission(t *testing.T) {
	store := &mockStore{}
	sink := &mockSink{}
	store.On("Create", mock.Anything, mock.Anything).Return(nil)
	sink.On("Publish", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))

	svc := newTestService(store, sink)

	sub, err := svc.Submit(context.Background(), SubmitRequest{
		Instrument: "tam",
		Responses:  ratings(4, 5),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)

	store.AssertExpectations(t)
	sink.AssertExpectations(t)
}
