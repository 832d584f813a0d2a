// Package detection provides the defect detector capability used by the
// image validation endpoint. Two variants exist: a random stub for demos and
// local mode, and a model-backed implementation calling a vision model. The
// dashboard core never depends on which variant is installed.
package detection

import "context"

// Classification labels for assessed road imagery.
const (
	LabelSevere = "Severe Defect (Potholes/Erosion)"
	LabelNormal = "Normal Unpaved Surface"
)

// SevereThreshold is the severity score above which an image is classified
// as a severe defect. The comparison is strict: a score of exactly 50 is
// normal surface.
const SevereThreshold = 50

// Result is the outcome of assessing one image.
type Result struct {
	Label string `json:"label"`
	Score int    `json:"score"` // 0-100
}

// Severe reports whether the score crosses the defect threshold.
func (r Result) Severe() bool {
	return r.Score > SevereThreshold
}

// Detector assesses raw image bytes for road defects.
type Detector interface {
	// Detect classifies the image and returns a label with a 0-100
	// severity score.
	Detect(ctx context.Context, image []byte, contentType string) (Result, error)

	// Name identifies the detector variant for stored assessments.
	Name() string
}

// labelForScore applies the shared severity split.
func labelForScore(score int) string {
	if score > SevereThreshold {
		return LabelSevere
	}
	return LabelNormal
}
