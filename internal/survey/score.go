package survey

import "fmrwatch/internal/types"

// SUSScore computes the standard System Usability Scale score for a complete
// 10-item submission: odd items contribute (rating - 1), even items
// (5 - rating), and the sum is scaled by 2.5 onto a 0-100 range. Items are
// taken in submission order as SUS items 1..10.
//
// Returns nil for anything other than exactly 10 responses; partial SUS
// questionnaires are stored but not scored.
func SUSScore(responses []types.SurveyResponse) *float64 {
	if len(responses) != types.SUSItemCount {
		return nil
	}

	sum := 0
	for i, r := range responses {
		if (i+1)%2 == 1 {
			sum += r.Rating - 1
		} else {
			sum += 5 - r.Rating
		}
	}

	score := float64(sum) * 2.5
	return &score
}
