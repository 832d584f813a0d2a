package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmrwatch/internal/types"
)

func ratings(vals ...int) []types.SurveyResponse {
	out := make([]types.SurveyResponse, len(vals))
	for i, v := range vals {
		out[i] = types.SurveyResponse{Question: "q", Rating: v}
	}
	return out
}

func TestSUSScore(t *testing.T) {
	tests := []struct {
		name      string
		responses []types.SurveyResponse
		want      float64
	}{
		{
			// Odd items at 5 contribute 4 each, even items at 1 contribute
			// 4 each: 40 * 2.5 = 100.
			name:      "best possible answers",
			responses: ratings(5, 1, 5, 1, 5, 1, 5, 1, 5, 1),
			want:      100,
		},
		{
			name:      "worst possible answers",
			responses: ratings(1, 5, 1, 5, 1, 5, 1, 5, 1, 5),
			want:      0,
		},
		{
			// All 3s: odd items contribute 2, even items contribute 2,
			// 20 * 2.5 = 50.
			name:      "neutral answers",
			responses: ratings(3, 3, 3, 3, 3, 3, 3, 3, 3, 3),
			want:      50,
		},
		{
			// Published worked example: 4,2,5,1,4,2,4,1,5,2 -> 85.
			name:      "mixed answers",
			responses: ratings(4, 2, 5, 1, 4, 2, 4, 1, 5, 2),
			want:      85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SUSScore(tt.responses)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 0.001)
		})
	}
}

func TestSUSScore_RequiresExactlyTenItems(t *testing.T) {
	assert.Nil(t, SUSScore(nil))
	assert.Nil(t, SUSScore(ratings(3)))
	assert.Nil(t, SUSScore(ratings(3, 3, 3, 3, 3, 3, 3, 3, 3)))
	assert.Nil(t, SUSScore(ratings(3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3)))
}
