package types

import (
	"fmt"
	"time"
)

// Validation constraint constants.
const (
	MinLat        = -90.0
	MaxLat        = 90.0
	MinLon        = -180.0
	MaxLon        = 180.0
	MinLikert     = 1
	MaxLikert     = 5
	MaxNameLength = 200

	// SUSItemCount is the number of items in a complete System Usability
	// Scale questionnaire.
	SUSItemCount = 10
)

// ValidateLocation checks that coordinates fall within geographic ranges.
func ValidateLocation(loc Location) error {
	if loc.Lat < MinLat || loc.Lat > MaxLat {
		return NewAppError(ErrCodeValidationInvalidLat,
			fmt.Sprintf("latitude %.4f outside valid range [%.0f, %.0f]", loc.Lat, MinLat, MaxLat), nil)
	}
	if loc.Lon < MinLon || loc.Lon > MaxLon {
		return NewAppError(ErrCodeValidationInvalidLon,
			fmt.Sprintf("longitude %.4f outside valid range [%.0f, %.0f]", loc.Lon, MinLon, MaxLon), nil)
	}
	return nil
}

// ParseTargetDate parses a YYYY-MM-DD target date string. Any value that does
// not conform yields ErrCodeValidationMalformedDate; the caller must not
// substitute a default status for the affected record.
func ParseTargetDate(s string) (time.Time, error) {
	t, err := time.Parse(TargetDateLayout, s)
	if err != nil {
		return time.Time{}, NewAppErrorWithDetails(
			ErrCodeValidationMalformedDate,
			"target date must be a YYYY-MM-DD calendar date",
			err,
			map[string]any{"target_date": s},
		)
	}
	return t, nil
}

// ValidateProgress checks the progress percentage. Zero and values above 100
// are both valid; only negatives are rejected.
func ValidateProgress(pct int) error {
	if pct < 0 {
		return NewAppError(ErrCodeValidationProgressRange,
			fmt.Sprintf("progress must not be negative, got %d", pct), nil)
	}
	return nil
}

// ValidateLikert checks that a survey rating is on the 1-5 scale.
func ValidateLikert(rating int) error {
	if rating < MinLikert || rating > MaxLikert {
		return NewAppError(ErrCodeValidationLikertRange,
			fmt.Sprintf("rating must be between %d and %d, got %d", MinLikert, MaxLikert, rating), nil)
	}
	return nil
}
