package types

// ProjectStatus is the derived health state of an FMR project. It is never
// stored: every evaluation recomputes it from the target date and progress.
type ProjectStatus string

const (
	StatusCompleted ProjectStatus = "Completed"
	StatusDelayed   ProjectStatus = "Delayed"
	StatusAtRisk    ProjectStatus = "At Risk"
	StatusOnTrack   ProjectStatus = "On Track"
)

// AllStatuses lists every ProjectStatus in classification-rule order.
// The rollup job and summary endpoint iterate this to produce stable output.
var AllStatuses = []ProjectStatus{
	StatusCompleted,
	StatusDelayed,
	StatusAtRisk,
	StatusOnTrack,
}

// DetectorVariant selects the installed defect detector implementation.
type DetectorVariant string

const (
	DetectorStub        DetectorVariant = "stub"
	DetectorModelBacked DetectorVariant = "model"
)

// SurveyInstrument identifies which evaluation questionnaire a submission
// belongs to.
type SurveyInstrument string

const (
	InstrumentSUS SurveyInstrument = "sus"
	InstrumentTAM SurveyInstrument = "tam"
)
